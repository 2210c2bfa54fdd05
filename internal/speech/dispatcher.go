package speech

import (
	"time"

	"github.com/rs/zerolog"
)

// Timing and rate constants for competition dictation.
const (
	// SequentialPause separates the question number from the target word.
	SequentialPause = 500 * time.Millisecond
	// NumberRate is the speech rate for the question number.
	NumberRate = 1.0
	// DictationRate is the slower rate used for the target word.
	DictationRate = 0.85
)

// Request asks the client's speech engine to start one utterance.
// CancelFirst instructs the engine to cancel immediately before speaking;
// a queued-but-not-yet-started utterance can otherwise silently stall the
// underlying engine.
type Request struct {
	Utterance   uint64  `json:"utterance"`
	Text        string  `json:"text"`
	Rate        float64 `json:"rate"`
	Lang        string  `json:"lang"`
	Voice       string  `json:"voice,omitempty"`
	CancelFirst bool    `json:"cancel_first"`
}

// Engine is the single speech channel a dispatcher drives. In production it
// is the browser's speechSynthesis, reached over the session's WebSocket;
// completion and error callbacks come back as client events and are fed to
// HandleEnd/HandleError.
type Engine interface {
	Speak(req Request)
	Cancel()
}

// EngineError marks an utterance that the engine reported as failed.
type EngineError struct {
	Utterance uint64
}

func (e *EngineError) Error() string { return "speech engine error" }

// Dispatcher serializes all spoken output through one Engine and guarantees
// at most one active utterance: the underlying platform engine corrupts its
// state under overlapping requests. All methods must be called from the
// owning session's event loop; the dispatcher is not safe for concurrent
// use and does not need to be.
type Dispatcher struct {
	engine   Engine
	schedule func(d time.Duration, fn func())
	log      zerolog.Logger

	voice    string
	seq      uint64
	pending  *pendingUtterance
	speaking bool
}

type pendingUtterance struct {
	id   uint64
	done func(err error)
}

// NewDispatcher wires a dispatcher to an engine. schedule must run fn on the
// owning session's event loop after the given delay; it carries the 500ms
// pause inside sequential dictation.
func NewDispatcher(engine Engine, schedule func(time.Duration, func()), log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		engine:   engine,
		schedule: schedule,
		log:      log.With().Str("component", "speech").Logger(),
	}
}

// SetVoices records the engine's available voices and picks the dictation
// voice. Safe to call again when the engine's voice list changes.
func (d *Dispatcher) SetVoices(voices []Voice) {
	v, ok := SelectVoice(voices)
	if !ok {
		d.log.Warn().Msg("Engine reported no voices, leaving selection to the engine")
		d.voice = ""
		return
	}
	d.voice = v.Name
	d.log.Debug().Str("voice", v.Name).Str("lang", v.Lang).Msg("Voice selected")
}

// Speaking reports whether an utterance is currently in flight.
func (d *Dispatcher) Speaking() bool { return d.speaking }

// Speak starts one utterance. done fires exactly once, with a nil error on
// end-of-speech or an *EngineError on engine failure; callers must not
// branch on the error for flow control, speech is best-effort. A superseded
// or cancelled utterance's done never fires.
func (d *Dispatcher) Speak(text string, rate float64, done func(err error)) {
	if d.speaking {
		// Stale utterance still in progress: cancel it first.
		d.engine.Cancel()
	}
	d.pending = nil

	d.seq++
	d.pending = &pendingUtterance{id: d.seq, done: done}
	d.speaking = true

	d.engine.Speak(Request{
		Utterance:   d.seq,
		Text:        text,
		Rate:        rate,
		Lang:        UtteranceLang,
		Voice:       d.voice,
		CancelFirst: true,
	})
}

// SpeakSequential performs competition dictation: the question number at
// normal rate, a fixed pause, then the word at the slower dictation rate.
// done fires once, after the word completes or errors. If the number
// utterance itself errors the word is never spoken and done fires
// immediately; there is no reliable way to tell a transient engine error
// from a permanent one, so a content skip beats a retry.
func (d *Dispatcher) SpeakSequential(number string, word string, done func()) {
	d.Speak(number, NumberRate, func(err error) {
		if err != nil {
			done()
			return
		}
		d.schedule(SequentialPause, func() {
			d.Speak(word, DictationRate, func(error) {
				done()
			})
		})
	})
}

// Cancel stops any in-flight utterance and drops its completion callback.
func (d *Dispatcher) Cancel() {
	d.pending = nil
	d.speaking = false
	d.engine.Cancel()
}

// HandleEnd delivers an end-of-speech callback from the engine. Callbacks
// for utterances that are no longer pending are ignored; a late callback
// after cancel or supersede must be a no-op.
func (d *Dispatcher) HandleEnd(utterance uint64) {
	p := d.take(utterance)
	if p == nil {
		return
	}
	p.done(nil)
}

// HandleError delivers an engine error callback. The error is swallowed:
// the flow proceeds as if dictation had completed, because the learner's
// progress must not be blocked by an unreliable speech subsystem.
func (d *Dispatcher) HandleError(utterance uint64) {
	p := d.take(utterance)
	if p == nil {
		return
	}
	d.log.Debug().Uint64("utterance", utterance).Msg("Engine reported utterance error")
	p.done(&EngineError{Utterance: utterance})
}

func (d *Dispatcher) take(utterance uint64) *pendingUtterance {
	if d.pending == nil || d.pending.id != utterance {
		return nil
	}
	p := d.pending
	d.pending = nil
	d.speaking = false
	return p
}
