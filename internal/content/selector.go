package content

import (
	"fmt"
	"math/rand"
)

// ResolveSet joins the schedule for letter against the question bank,
// preserving schedule order exactly. The returned sequence is what both the
// live competition session and the printable answer sheet consume, so two
// calls with the same letter always produce identical sequences.
//
// An entry whose id does not resolve is logged and dropped rather than
// aborting: a malformed schedule is a data-authoring bug, and the session
// simply runs shorter.
func (l *Library) ResolveSet(letter string) ([]ResolvedQuestion, error) {
	entries, ok := l.sets[letter]
	if !ok {
		return nil, fmt.Errorf("unknown set letter %q", letter)
	}

	out := make([]ResolvedQuestion, 0, len(entries))
	for _, e := range entries {
		q, ok := l.questions[e.ID]
		if !ok {
			l.log.Error().Int("question_id", e.ID).Str("set", letter).
				Msg("Schedule references unknown question, dropping entry")
			continue
		}
		out = append(out, ResolvedQuestion{
			ID:        q.ID,
			Choices:   q.Choices,
			TargetIdx: e.Target,
			Sound:     q.Choices[e.Target],
		})
	}
	return out, nil
}

// PracticePool expands every bank item into one pool entry per choice, so a
// bank of N items yields 3N entries, each with its own spoken word. The
// entry's TargetIdx is the index of that word, which is also the answer the
// learner must tap.
func (l *Library) PracticePool() []ResolvedQuestion {
	pool := make([]ResolvedQuestion, 0, len(l.order)*ChoicesPerQuestion)
	for _, id := range l.order {
		q := l.questions[id]
		for i, word := range q.Choices {
			pool = append(pool, ResolvedQuestion{
				ID:        q.ID,
				Choices:   q.Choices,
				TargetIdx: i,
				Sound:     word,
			})
		}
	}
	return pool
}

// SelectUniqueTargets shuffles pool with a Fisher-Yates permutation and then
// greedily takes entries whose spoken word has not been taken yet, until
// count entries are accepted or the pool is exhausted. No two selected
// entries share a spoken word, even when they come from the same bank item;
// the same bank item may still appear twice under different words.
//
// If count exceeds the number of distinct words, the result is exactly the
// distinct-word count: never padded, never short of the maximum.
func SelectUniqueTargets(pool []ResolvedQuestion, count int, rng *rand.Rand) []ResolvedQuestion {
	shuffled := append([]ResolvedQuestion(nil), pool...)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	selected := make([]ResolvedQuestion, 0, count)
	used := make(map[string]struct{}, count)
	for _, item := range shuffled {
		if len(selected) >= count {
			break
		}
		if _, taken := used[item.Sound]; taken {
			continue
		}
		used[item.Sound] = struct{}{}
		selected = append(selected, item)
	}
	return selected
}
