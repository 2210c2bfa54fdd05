package websocket

import (
	"github.com/soundsteps/phonics-backend/internal/model"
	"github.com/soundsteps/phonics-backend/internal/speech"
)

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	// ActionReady attaches the client as the session's view and speech
	// engine, carrying the engine's voice list, and starts the countdown.
	ActionReady Action = "ready"
	// ActionVoices updates the voice list when the engine reloads voices.
	ActionVoices      Action = "voices"
	ActionSpeechEnd   Action = "speech_end"
	ActionSpeechError Action = "speech_error"
	ActionAnswer      Action = "answer"
	ActionReplay      Action = "replay"
	ActionExit        Action = "exit"
	ActionExitConfirm Action = "exit_confirm"
	ActionExitCancel  Action = "exit_cancel"
	ActionPing        Action = "ping"
)

// ClientRequest is the single inbound payload shape; which fields are
// meaningful depends on Action.
type ClientRequest struct {
	Action    Action         `json:"action"`
	Voices    []speech.Voice `json:"voices,omitempty"`
	Utterance uint64         `json:"utterance,omitempty"`
	Choice    int            `json:"choice,omitempty"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventCountdown    Event = "countdown"
	EventBuzz         Event = "buzz"
	EventQuestion     Event = "question"
	EventSpeak        Event = "speak"
	EventCancelSpeech Event = "cancel_speech"
	EventCanAnswer    Event = "can_answer"
	EventTick         Event = "tick"
	EventFeedback     Event = "feedback"
	EventExitPrompt   Event = "exit_prompt"
	EventExited       Event = "exited"
	EventFinished     Event = "finished"
	EventError        Event = "error"
	EventPong         Event = "pong"
)

// CountdownEvent announces one lead-in step: "3", "2", "1", "Go!".
type CountdownEvent struct {
	Event   Event  `json:"event"`
	Display string `json:"display"`
}

// BuzzEvent tells the client to play the one-shot attention tone.
type BuzzEvent struct {
	Event Event `json:"event"`
}

// QuestionEvent presents a question's choices. In competition mode the
// target index is never sent; the learner only hears the word.
type QuestionEvent struct {
	Event   Event          `json:"event"`
	Number  int            `json:"number"`
	Index   int            `json:"index"`
	Total   int            `json:"total"`
	Choices []string       `json:"choices"`
	Mode    model.GameMode `json:"mode"`
}

// SpeakEvent instructs the client's speech engine to start an utterance.
type SpeakEvent struct {
	Event Event `json:"event"`
	speech.Request
}

type CancelSpeechEvent struct {
	Event Event `json:"event"`
}

// CanAnswerEvent unlocks input after practice dictation completes.
type CanAnswerEvent struct {
	Event Event `json:"event"`
}

// TickEvent carries the master clock's remaining time, every tick.
type TickEvent struct {
	Event       Event `json:"event"`
	RemainingMs int64 `json:"remaining_ms"`
}

// FeedbackEvent reports a scored practice answer.
type FeedbackEvent struct {
	Event        Event `json:"event"`
	Correct      bool  `json:"correct"`
	CorrectIndex int   `json:"correct_index"`
	ChosenIndex  int   `json:"chosen_index"`
}

// ExitPromptEvent asks the client to confirm a mid-competition exit.
type ExitPromptEvent struct {
	Event Event `json:"event"`
}

// ExitedEvent confirms the session was torn down without results.
type ExitedEvent struct {
	Event Event `json:"event"`
}

// FinishedEvent signals the terminal state; the result list is fetched
// through the summary endpoint.
type FinishedEvent struct {
	Event  Event          `json:"event"`
	Mode   model.GameMode `json:"mode"`
	Played int            `json:"played"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
