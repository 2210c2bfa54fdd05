package content

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

//go:embed data/questions.yaml data/sets.yaml
var defaultContent embed.FS

// Library holds the process-wide static content: the question bank and the
// ten competition schedules. Everything is loaded once at startup and is
// read-only afterwards, so no locking is needed.
type Library struct {
	questions map[int]Question
	order     []int
	sets      map[string][]ScheduleEntry
	letters   []string
	log       zerolog.Logger
}

// Load reads the question bank and set schedules from dir. If dir is empty
// the content embedded in the binary is used, so the server runs without any
// external files.
func Load(dir string, log zerolog.Logger) (*Library, error) {
	var fsys fs.FS
	if dir == "" {
		sub, err := fs.Sub(defaultContent, "data")
		if err != nil {
			return nil, fmt.Errorf("embedded content: %w", err)
		}
		fsys = sub
	} else {
		fsys = os.DirFS(dir)
	}

	l := &Library{
		questions: make(map[int]Question),
		sets:      make(map[string][]ScheduleEntry),
		log:       log.With().Str("component", "content").Logger(),
	}

	if err := l.loadQuestions(fsys); err != nil {
		return nil, err
	}
	if err := l.loadSets(fsys); err != nil {
		return nil, err
	}

	l.log.Info().
		Int("questions", len(l.questions)).
		Int("sets", len(l.sets)).
		Msg("Content loaded")
	return l, nil
}

func (l *Library) loadQuestions(fsys fs.FS) error {
	data, err := fs.ReadFile(fsys, "questions.yaml")
	if err != nil {
		return fmt.Errorf("read question bank: %w", err)
	}

	var bank bankFile
	if err := yaml.Unmarshal(data, &bank); err != nil {
		return fmt.Errorf("parse question bank: %w", err)
	}
	if len(bank.Questions) == 0 {
		return fmt.Errorf("question bank is empty")
	}

	for _, q := range bank.Questions {
		if len(q.Choices) != ChoicesPerQuestion {
			return fmt.Errorf("question %d: expected %d choices, got %d", q.ID, ChoicesPerQuestion, len(q.Choices))
		}
		if q.Correct < 0 || q.Correct >= len(q.Choices) {
			return fmt.Errorf("question %d: correct index %d out of range", q.ID, q.Correct)
		}
		if _, dup := l.questions[q.ID]; dup {
			return fmt.Errorf("question %d: duplicate id", q.ID)
		}
		l.questions[q.ID] = q
		l.order = append(l.order, q.ID)
	}
	sort.Ints(l.order)
	return nil
}

func (l *Library) loadSets(fsys fs.FS) error {
	data, err := fs.ReadFile(fsys, "sets.yaml")
	if err != nil {
		return fmt.Errorf("read set schedules: %w", err)
	}

	var sf setsFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return fmt.Errorf("parse set schedules: %w", err)
	}

	for letter, entries := range sf.Sets {
		if len(letter) != 1 || letter[0] < 'A' || letter[0] > 'Z' {
			return fmt.Errorf("set %q: letter must be a single capital", letter)
		}
		if len(entries) != QuestionsPerSet {
			return fmt.Errorf("set %s: expected %d entries, got %d", letter, QuestionsPerSet, len(entries))
		}
		for i, e := range entries {
			if e.Target < 0 || e.Target >= ChoicesPerQuestion {
				return fmt.Errorf("set %s entry %d: target index %d out of range", letter, i, e.Target)
			}
		}
		// Unknown question ids are allowed here: they surface as
		// content-integrity errors at resolution time, not load failures.
		l.sets[letter] = entries
		l.letters = append(l.letters, letter)
	}
	if len(l.letters) == 0 {
		return fmt.Errorf("no set schedules defined")
	}
	sort.Strings(l.letters)
	return nil
}

// Question looks up a bank item by id.
func (l *Library) Question(id int) (Question, bool) {
	q, ok := l.questions[id]
	return q, ok
}

// Questions returns the full bank in ascending id order.
func (l *Library) Questions() []Question {
	out := make([]Question, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.questions[id])
	}
	return out
}

// SetLetters returns the available set letters in alphabetical order.
func (l *Library) SetLetters() []string {
	return append([]string(nil), l.letters...)
}

// HasSet reports whether a schedule exists for the given letter.
func (l *Library) HasSet(letter string) bool {
	_, ok := l.sets[letter]
	return ok
}
