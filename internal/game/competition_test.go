package game

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/soundsteps/phonics-backend/internal/content"
	"github.com/soundsteps/phonics-backend/internal/model"
	"github.com/soundsteps/phonics-backend/internal/speech"
	ws "github.com/soundsteps/phonics-backend/internal/websocket"
)

// Tests drive the session's loop-owned handlers directly instead of running
// the event-loop goroutine, so the fake clock never needs to race a select.

func testQuestions(n int) []content.ResolvedQuestion {
	words := []string{"cat", "dog", "ship", "fish", "tree", "duck"}
	qs := make([]content.ResolvedQuestion, n)
	for i := range qs {
		w := words[i%len(words)]
		qs[i] = content.ResolvedQuestion{
			ID:        i + 1,
			Choices:   []string{w + "1", w, w + "2"},
			TargetIdx: 1,
			Sound:     w,
		}
	}
	return qs
}

func newCompetitionSession(t *testing.T, n int) (*Session, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClock()
	settings := model.GameSettings{Mode: model.ModeCompetition, SetLetter: "A", QuestionCount: n, Speed: 0.75}
	s := newSession(settings, testQuestions(n), clock, zerolog.Nop())
	return s, clock
}

// drainEvents empties the outbound buffer.
func drainEvents(s *Session) []interface{} {
	var events []interface{}
	for {
		select {
		case ev := <-s.outbound:
			events = append(events, ev)
		default:
			return events
		}
	}
}

func eventsOfType[T any](events []interface{}) []T {
	var out []T
	for _, ev := range events {
		if typed, ok := ev.(T); ok {
			out = append(out, typed)
		}
	}
	return out
}

// fireSlot advances the fake clock past the armed delay and runs the slot
// callback, the way the event loop would on timer expiry.
func fireSlot(t *testing.T, s *Session, clock *clockwork.FakeClock) {
	t.Helper()
	if !s.slot.armed() {
		t.Fatal("timer slot is not armed")
	}
	clock.Advance(s.slot.delay)
	s.slot.fire()
}

// runCountdown delivers ready and steps through the 3-2-1-Go! lead-in.
func runCountdown(t *testing.T, s *Session, clock *clockwork.FakeClock) {
	t.Helper()
	s.handleClient(ClientEvent{Kind: EvReady, Voices: []speech.Voice{{Name: "Google US English", Lang: "en-US"}}})
	for s.phase == PhaseCountdown {
		fireSlot(t, s, clock)
	}
}

// completeDictation walks one question's number-pause-word dictation.
func completeDictation(t *testing.T, s *Session, clock *clockwork.FakeClock, events []interface{}) {
	t.Helper()
	speaks := eventsOfType[ws.SpeakEvent](events)
	if len(speaks) == 0 {
		t.Fatal("no speak event for the question number")
	}
	number := speaks[len(speaks)-1]

	s.handleClient(ClientEvent{Kind: EvSpeechEnd, Utterance: number.Utterance})
	fireSlot(t, s, clock) // the pause between number and word

	wordSpeaks := eventsOfType[ws.SpeakEvent](drainEvents(s))
	if len(wordSpeaks) != 1 {
		t.Fatalf("speak events after pause = %d, want 1 (the word)", len(wordSpeaks))
	}
	if wordSpeaks[0].Rate != speech.DictationRate {
		t.Errorf("word rate = %v, want %v", wordSpeaks[0].Rate, speech.DictationRate)
	}
	s.handleClient(ClientEvent{Kind: EvSpeechEnd, Utterance: wordSpeaks[0].Utterance})
}

func TestCountdownSequence(t *testing.T) {
	s, clock := newCompetitionSession(t, 3)

	s.handleClient(ClientEvent{Kind: EvReady})
	for i := 0; i < 4; i++ {
		fireSlot(t, s, clock)
	}

	events := drainEvents(s)
	countdowns := eventsOfType[ws.CountdownEvent](events)
	if len(countdowns) != 4 {
		t.Fatalf("countdown events = %d, want 4", len(countdowns))
	}
	want := []string{"3", "2", "1", "Go!"}
	for i, ev := range countdowns {
		if ev.Display != want[i] {
			t.Errorf("countdown step %d = %q, want %q", i, ev.Display, want[i])
		}
	}
	if buzzes := eventsOfType[ws.BuzzEvent](events); len(buzzes) != 1 {
		t.Errorf("buzz events = %d, want exactly 1", len(buzzes))
	}
	if s.phase != PhasePlaying {
		t.Errorf("phase = %v after countdown, want %v", s.phase, PhasePlaying)
	}
}

func TestReadyIsIdempotent(t *testing.T) {
	s, _ := newCompetitionSession(t, 3)

	s.handleClient(ClientEvent{Kind: EvReady})
	drainEvents(s)
	s.handleClient(ClientEvent{Kind: EvReady})

	if countdowns := eventsOfType[ws.CountdownEvent](drainEvents(s)); len(countdowns) != 0 {
		t.Errorf("second ready restarted the countdown")
	}
}

func TestCompetitionRecordsResultAtPresentation(t *testing.T) {
	s, clock := newCompetitionSession(t, 3)
	runCountdown(t, s, clock)

	// The first question is presented; its dictation has not completed.
	results := s.Results()
	if len(results) != 1 {
		t.Fatalf("results = %d before dictation completes, want 1", len(results))
	}
	r := results[0]
	if !r.IsCompetition {
		t.Error("result not marked as competition")
	}
	if r.QuestionNumber != 1 || r.Sound != "cat" {
		t.Errorf("result = %+v, want question 1 with sound \"cat\"", r)
	}
	if r.TargetIdx == nil || *r.TargetIdx != 1 {
		t.Errorf("result target index = %v, want 1", r.TargetIdx)
	}
	if r.Correct != nil {
		t.Error("competition result carries a correctness verdict")
	}
}

func TestCompetitionCycleUsesRemainderOfSlot(t *testing.T) {
	s, clock := newCompetitionSession(t, 3)
	runCountdown(t, s, clock)
	events := drainEvents(s)

	// Dictation consumes 500ms of the 4s slot (the number-word pause).
	completeDictation(t, s, clock, events)

	if !s.slot.armed() {
		t.Fatal("advance timer not armed after dictation")
	}
	if want := CyclePeriod - 500*time.Millisecond; s.slot.delay != want {
		t.Errorf("advance delay = %v, want %v", s.slot.delay, want)
	}

	fireSlot(t, s, clock)
	if s.currentIndex != 1 {
		t.Errorf("current index = %d after advance, want 1", s.currentIndex)
	}
	if len(s.Results()) != 2 {
		t.Errorf("results = %d after second presentation, want 2", len(s.Results()))
	}
}

func TestCompetitionSlowDictationAdvancesImmediately(t *testing.T) {
	s, clock := newCompetitionSession(t, 3)
	runCountdown(t, s, clock)
	events := drainEvents(s)

	speaks := eventsOfType[ws.SpeakEvent](events)
	s.handleClient(ClientEvent{Kind: EvSpeechEnd, Utterance: speaks[len(speaks)-1].Utterance})
	fireSlot(t, s, clock)
	wordSpeaks := eventsOfType[ws.SpeakEvent](drainEvents(s))

	// The word drags past the 4-second slot.
	clock.Advance(5 * time.Second)
	s.handleClient(ClientEvent{Kind: EvSpeechEnd, Utterance: wordSpeaks[0].Utterance})

	if !s.slot.armed() {
		t.Fatal("advance timer not armed")
	}
	if s.slot.delay != 0 {
		t.Errorf("advance delay = %v after overlong dictation, want 0", s.slot.delay)
	}
}

func TestMasterClockTick(t *testing.T) {
	s, clock := newCompetitionSession(t, 3)
	runCountdown(t, s, clock)
	drainEvents(s)

	clock.Advance(30 * time.Second)
	s.onMasterTick()

	ticks := eventsOfType[ws.TickEvent](drainEvents(s))
	if len(ticks) != 1 {
		t.Fatalf("tick events = %d, want 1", len(ticks))
	}
	want := (TotalDuration - 30*time.Second).Milliseconds()
	if ticks[0].RemainingMs != want {
		t.Errorf("remaining = %dms, want %dms", ticks[0].RemainingMs, want)
	}
	if s.phase != PhasePlaying {
		t.Errorf("phase = %v mid-game, want %v", s.phase, PhasePlaying)
	}
}

func TestMasterClockExpiryFinishesMidDictation(t *testing.T) {
	s, clock := newCompetitionSession(t, 3)
	runCountdown(t, s, clock)
	drainEvents(s)

	// Expire the master clock while question 1's dictation is in flight.
	clock.Advance(TotalDuration)
	s.onMasterTick()

	if s.phase != PhaseFinished {
		t.Fatalf("phase = %v after expiry, want %v", s.phase, PhaseFinished)
	}
	events := drainEvents(s)
	ticks := eventsOfType[ws.TickEvent](events)
	if len(ticks) != 1 || ticks[0].RemainingMs != 0 {
		t.Errorf("final tick = %+v, want remaining 0", ticks)
	}
	finished := eventsOfType[ws.FinishedEvent](events)
	if len(finished) != 1 {
		t.Fatalf("finished events = %d, want 1", len(finished))
	}
	if finished[0].Played != 1 {
		t.Errorf("played = %d, want 1 (only the presented question)", finished[0].Played)
	}
	if cancels := eventsOfType[ws.CancelSpeechEvent](events); len(cancels) == 0 {
		t.Error("no cancel_speech sent for the in-flight dictation")
	}
	if s.slot.armed() {
		t.Error("timer slot still armed after finish")
	}
	if s.ticker != nil {
		t.Error("master ticker still running after finish")
	}
}

func TestCompetitionFinishesWhenScheduleExhausted(t *testing.T) {
	s, clock := newCompetitionSession(t, 2)
	runCountdown(t, s, clock)

	for i := 0; i < 2; i++ {
		completeDictation(t, s, clock, drainEvents(s))
		fireSlot(t, s, clock)
	}

	if s.phase != PhaseFinished {
		t.Fatalf("phase = %v after exhausting the schedule, want %v", s.phase, PhaseFinished)
	}
	if len(s.Results()) != 2 {
		t.Errorf("results = %d, want 2", len(s.Results()))
	}
}

func TestCompetitionAnswerIgnored(t *testing.T) {
	s, clock := newCompetitionSession(t, 3)
	runCountdown(t, s, clock)
	drainEvents(s)

	s.handleClient(ClientEvent{Kind: EvAnswer, Choice: 1})

	if feedback := eventsOfType[ws.FeedbackEvent](drainEvents(s)); len(feedback) != 0 {
		t.Error("competition session emitted answer feedback")
	}
	if len(s.Results()) != 1 {
		t.Errorf("results = %d, want 1 (tap must not add a practice result)", len(s.Results()))
	}
}

func TestExitConfirmFlow(t *testing.T) {
	s, clock := newCompetitionSession(t, 3)
	runCountdown(t, s, clock)
	drainEvents(s)

	s.handleClient(ClientEvent{Kind: EvExit})
	if prompts := eventsOfType[ws.ExitPromptEvent](drainEvents(s)); len(prompts) != 1 {
		t.Fatal("mid-competition exit did not prompt for confirmation")
	}
	if s.phase != PhasePlaying {
		t.Fatal("exit prompt ended the session before confirmation")
	}

	s.handleClient(ClientEvent{Kind: EvExitConfirm})
	if s.phase != PhaseFinished {
		t.Fatalf("phase = %v after confirm, want %v", s.phase, PhaseFinished)
	}
	if !s.exited {
		t.Error("session not marked exited")
	}
	if len(s.Results()) != 0 {
		t.Errorf("results = %d after exit, want 0 (discarded)", len(s.Results()))
	}
	if exited := eventsOfType[ws.ExitedEvent](drainEvents(s)); len(exited) != 1 {
		t.Error("no exited event emitted")
	}
}

func TestExitCancelResumes(t *testing.T) {
	s, clock := newCompetitionSession(t, 3)
	runCountdown(t, s, clock)
	drainEvents(s)

	s.handleClient(ClientEvent{Kind: EvExit})
	s.handleClient(ClientEvent{Kind: EvExitCancel})

	if s.phase != PhasePlaying {
		t.Fatalf("phase = %v after cancel, want %v", s.phase, PhasePlaying)
	}

	// A confirm with no prompt outstanding must be ignored.
	s.handleClient(ClientEvent{Kind: EvExitConfirm})
	if s.phase != PhasePlaying {
		t.Error("stray exit_confirm ended the session")
	}
}
