package game

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/soundsteps/phonics-backend/internal/content"
	"github.com/soundsteps/phonics-backend/internal/model"
	"github.com/soundsteps/phonics-backend/internal/speech"
	ws "github.com/soundsteps/phonics-backend/internal/websocket"
)

// Phase enumerates session states.
type Phase string

const (
	PhaseCountdown Phase = "COUNTDOWN"
	PhasePlaying   Phase = "PLAYING"
	PhaseFinished  Phase = "FINISHED"
)

// Session timing. The master clock and the per-question cycle are two
// independently-ticking authorities: total wall time must be exact and
// independent of speech-engine latency, so neither is derived from the
// other.
const (
	// TotalDuration is the competition master clock: the session ends the
	// instant it expires, mid-utterance or not.
	TotalDuration = 240 * time.Second
	// CyclePeriod is the fixed wall-clock slot one competition question
	// occupies, however long its dictation actually takes.
	CyclePeriod = 4 * time.Second

	masterTickPeriod = 100 * time.Millisecond
	countdownPeriod  = time.Second
	settleDelay      = 300 * time.Millisecond
	feedbackDelay    = 800 * time.Millisecond

	inboundBuffer  = 64
	outboundBuffer = 256
)

// ClientEventKind discriminates inbound client events.
type ClientEventKind int

const (
	EvReady ClientEventKind = iota
	EvVoices
	EvSpeechEnd
	EvSpeechError
	EvAnswer
	EvReplay
	EvExit
	EvExitConfirm
	EvExitCancel
)

// ClientEvent is one event delivered from the client to the session's
// event loop. Which fields are set depends on Kind.
type ClientEvent struct {
	Kind      ClientEventKind
	Voices    []speech.Voice
	Utterance uint64
	Choice    int
}

// Snapshot is the session state exposed over HTTP.
type Snapshot struct {
	ID             uuid.UUID          `json:"id"`
	Phase          Phase              `json:"phase"`
	Settings       model.GameSettings `json:"settings"`
	CurrentIndex   int                `json:"current_index"`
	TotalQuestions int                `json:"total_questions"`
	RemainingMs    int64              `json:"remaining_ms"`
	ResultCount    int                `json:"result_count"`
	Exited         bool               `json:"exited"`
}

// Session owns one game attempt end to end: the resolved question sequence,
// the speech dispatcher, the result log, and every timer. All game state is
// mutated by a single event-loop goroutine; the only concurrently accessed
// pieces live behind mu (the snapshot mirror and the result log) so HTTP
// reads never race the game.
type Session struct {
	ID        uuid.UUID
	CreatedAt time.Time

	settings  model.GameSettings // normalized, drives gameplay
	submitted model.GameSettings // as the client sent it
	questions []content.ResolvedQuestion
	clock     clockwork.Clock
	log       zerolog.Logger

	inbound   chan ClientEvent
	outbound  chan interface{}
	done      chan struct{}
	closeOnce sync.Once
	attached  atomic.Bool

	// Event-loop-owned state. Never touched outside the run goroutine.
	dispatcher   *speech.Dispatcher
	slot         *timerSlot
	ticker       clockwork.Ticker
	phase        Phase
	started      bool
	countdown    int
	buzzPlayed   bool
	currentIndex int
	nextIndex    int
	sessionStart time.Time
	cycleStart   time.Time
	remaining    time.Duration
	awaitingExit bool
	canAnswer    bool
	inFeedback   bool
	exited       bool

	mu       sync.Mutex
	results  []model.ResultItem
	mirror   Snapshot
	lastSeen time.Time
}

func newSession(settings model.GameSettings, questions []content.ResolvedQuestion, clock clockwork.Clock, log zerolog.Logger) *Session {
	s := &Session{
		ID:        uuid.New(),
		CreatedAt: clock.Now(),
		settings:  settings.Normalized(),
		submitted: settings,
		questions: questions,
		clock:     clock,
		inbound:   make(chan ClientEvent, inboundBuffer),
		outbound:  make(chan interface{}, outboundBuffer),
		done:      make(chan struct{}),
		phase:     PhaseCountdown,
		countdown: 4,
		remaining: TotalDuration,
		lastSeen:  clock.Now(),
	}
	s.log = log.With().Str("component", "session").Str("session_id", s.ID.String()).Logger()
	s.slot = newTimerSlot(clock)
	s.dispatcher = speech.NewDispatcher(sessionEngine{s}, s.slot.schedule, s.log)
	s.publish()
	return s
}

// sessionEngine routes dispatcher commands onto the session's outbound
// stream, where the browser's speech engine executes them.
type sessionEngine struct{ s *Session }

func (e sessionEngine) Speak(req speech.Request) {
	e.s.emit(ws.SpeakEvent{Event: ws.EventSpeak, Request: req})
}

func (e sessionEngine) Cancel() {
	e.s.emit(ws.CancelSpeechEvent{Event: ws.EventCancelSpeech})
}

// run is the session's event loop. Every state transition happens here, on
// a timer expiry or a delivered client event; there is no other writer.
func (s *Session) run() {
	for {
		var tickC <-chan time.Time
		if s.ticker != nil {
			tickC = s.ticker.Chan()
		}

		select {
		case <-s.done:
			s.teardown()
			return
		case ev := <-s.inbound:
			s.handleClient(ev)
		case <-tickC:
			s.onMasterTick()
		case <-s.slot.channel():
			s.slot.fire()
		}
		s.publish()
	}
}

func (s *Session) handleClient(ev ClientEvent) {
	switch ev.Kind {
	case EvReady:
		s.dispatcher.SetVoices(ev.Voices)
		if !s.started {
			s.started = true
			s.stepCountdown()
		}
	case EvVoices:
		s.dispatcher.SetVoices(ev.Voices)
	case EvSpeechEnd:
		s.dispatcher.HandleEnd(ev.Utterance)
	case EvSpeechError:
		s.dispatcher.HandleError(ev.Utterance)
	case EvAnswer:
		s.handleAnswer(ev.Choice)
	case EvReplay:
		s.handleReplay()
	case EvExit:
		s.handleExit()
	case EvExitConfirm:
		if s.awaitingExit {
			s.exitNow()
		}
	case EvExitCancel:
		s.awaitingExit = false
	}
}

// stepCountdown runs the 3-2-1-Go! lead-in on a one second cadence. The
// attention tone plays exactly once, on the Go! step, guarded by a session
// field rather than anything ambient.
func (s *Session) stepCountdown() {
	if s.phase != PhaseCountdown {
		return
	}
	if s.countdown == 0 {
		s.startPlaying()
		return
	}
	s.emit(ws.CountdownEvent{Event: ws.EventCountdown, Display: countdownDisplay(s.countdown)})
	if s.countdown == 1 && !s.buzzPlayed {
		s.buzzPlayed = true
		s.emit(ws.BuzzEvent{Event: ws.EventBuzz})
	}
	s.countdown--
	s.slot.schedule(countdownPeriod, s.stepCountdown)
}

func countdownDisplay(step int) string {
	switch step {
	case 4:
		return "3"
	case 3:
		return "2"
	case 2:
		return "1"
	case 1:
		return "Go!"
	}
	return ""
}

func (s *Session) startPlaying() {
	s.phase = PhasePlaying
	if s.competition() {
		s.sessionStart = s.clock.Now()
		s.remaining = TotalDuration
		s.ticker = s.clock.NewTicker(masterTickPeriod)
		s.processQuestion()
		return
	}
	s.beginPracticeQuestion()
}

// finish is the single path into the terminal state. Cleanup is
// unconditional: a leaked timer or utterance is the main latent-bug risk.
func (s *Session) finish() {
	if s.phase == PhaseFinished {
		return
	}
	s.slot.cancel()
	s.stopTicker()
	s.dispatcher.Cancel()
	s.phase = PhaseFinished
	s.log.Info().Int("played", s.resultCount()).Str("mode", string(s.settings.Mode)).Msg("Session finished")
	s.emit(ws.FinishedEvent{Event: ws.EventFinished, Mode: s.settings.Mode, Played: s.resultCount()})
}

// handleExit begins the exit flow. Mid-competition exits require an
// explicit confirmation; everything else exits immediately (the practice
// view confirms on its own side).
func (s *Session) handleExit() {
	if s.competition() && s.phase == PhasePlaying {
		if !s.awaitingExit {
			s.awaitingExit = true
			s.emit(ws.ExitPromptEvent{Event: ws.EventExitPrompt})
		}
		return
	}
	s.exitNow()
}

// exitNow tears the session down and discards its results; the summary
// collaborator sees nothing and the settings go back unchanged.
func (s *Session) exitNow() {
	s.awaitingExit = false
	s.slot.cancel()
	s.stopTicker()
	s.dispatcher.Cancel()
	s.phase = PhaseFinished
	s.exited = true
	s.clearResults()
	s.log.Info().Msg("Session exited by user")
	s.emit(ws.ExitedEvent{Event: ws.EventExited})
}

func (s *Session) teardown() {
	s.slot.cancel()
	s.stopTicker()
	s.dispatcher.Cancel()
	if s.phase != PhaseFinished {
		s.phase = PhaseFinished
		s.exited = true
	}
	s.publish()
}

func (s *Session) stopTicker() {
	if s.ticker != nil {
		s.ticker.Stop()
		s.ticker = nil
	}
}

func (s *Session) competition() bool {
	return s.settings.Mode == model.ModeCompetition
}

// sheddable reports whether an event may be discarded under backpressure.
// Clock ticks and countdown displays are refreshed or cosmetic; every
// other event drives the game forward and must reach the client.
func sheddable(event interface{}) bool {
	switch event.(type) {
	case ws.TickEvent, ws.CountdownEvent:
		return true
	}
	return false
}

// emit pushes an event to the outbound stream without ever blocking the
// event loop. When the buffer is full, sheddable events are discarded;
// a must-deliver event instead evicts the oldest sheddable one. A
// buffer backed up with must-deliver events means the client stopped
// reading long ago, and the session shuts down.
func (s *Session) emit(event interface{}) {
	select {
	case s.outbound <- event:
		return
	default:
	}
	if sheddable(event) {
		return
	}
	select {
	case old := <-s.outbound:
		if !sheddable(old) {
			s.log.Error().Msg("Outbound backlog of undeliverable events, closing session")
			s.Close()
			return
		}
	default:
	}
	select {
	case s.outbound <- event:
	default:
		s.log.Error().Msg("Outbound stream overflow, closing session")
		s.Close()
	}
}

// publish refreshes the mu-guarded snapshot mirror read by HTTP handlers.
func (s *Session) publish() {
	s.mu.Lock()
	s.mirror = Snapshot{
		ID:             s.ID,
		Phase:          s.phase,
		Settings:       s.settings,
		CurrentIndex:   s.currentIndex,
		TotalQuestions: len(s.questions),
		RemainingMs:    s.remaining.Milliseconds(),
		ResultCount:    len(s.results),
		Exited:         s.exited,
	}
	s.mu.Unlock()
}

func (s *Session) appendResult(item model.ResultItem) {
	s.mu.Lock()
	s.results = append(s.results, item)
	s.mu.Unlock()
}

func (s *Session) clearResults() {
	s.mu.Lock()
	s.results = nil
	s.mu.Unlock()
}

func (s *Session) resultCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.results)
}

// ─── Concurrency-safe surface used by handlers and workers ──────────

// Deliver hands a client event to the event loop. Returns false once the
// session is closed.
func (s *Session) Deliver(ev ClientEvent) bool {
	s.mu.Lock()
	s.lastSeen = s.clock.Now()
	s.mu.Unlock()

	select {
	case s.inbound <- ev:
		return true
	case <-s.done:
		return false
	}
}

// Events exposes the outbound stream for the attached WebSocket writer.
func (s *Session) Events() <-chan interface{} { return s.outbound }

// Done is closed when the session shuts down.
func (s *Session) Done() <-chan struct{} { return s.done }

// Attach claims the session's single client slot.
func (s *Session) Attach() bool { return s.attached.CompareAndSwap(false, true) }

// Detach releases the client slot so a reconnect can claim it.
func (s *Session) Detach() { s.attached.Store(false) }

// Snapshot returns the latest published state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mirror
}

// Settings returns the settings exactly as the client submitted them,
// before defaults were filled in, for the settings view to re-seed
// itself after exit.
func (s *Session) Settings() model.GameSettings { return s.submitted }

// Results returns a copy of the append-only result log in presentation
// order.
func (s *Session) Results() []model.ResultItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.ResultItem(nil), s.results...)
}

// LastSeen reports the last client activity, for the sweeper.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Close shuts the session down. Idempotent.
func (s *Session) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}
