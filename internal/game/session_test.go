package game

import (
	"testing"

	ws "github.com/soundsteps/phonics-backend/internal/websocket"
)

func TestEmitShedsTicksUnderBacklog(t *testing.T) {
	s, _ := newPracticeSession(t, 3)
	drainEvents(s)

	for i := 0; i < outboundBuffer; i++ {
		s.emit(ws.TickEvent{Event: ws.EventTick, RemainingMs: int64(i)})
	}
	if got := len(s.outbound); got != outboundBuffer {
		t.Fatalf("buffered events = %d, want %d", got, outboundBuffer)
	}

	// A further tick is shed outright; the next one carries fresher data.
	s.emit(ws.TickEvent{Event: ws.EventTick, RemainingMs: 0})
	if got := len(s.outbound); got != outboundBuffer {
		t.Fatalf("buffered events after extra tick = %d, want %d", got, outboundBuffer)
	}

	// A question must get through even over a full buffer of ticks.
	s.emit(ws.QuestionEvent{Event: ws.EventQuestion, Number: 1})
	questions := eventsOfType[ws.QuestionEvent](drainEvents(s))
	if len(questions) != 1 {
		t.Fatalf("question events delivered = %d, want 1", len(questions))
	}

	select {
	case <-s.Done():
		t.Fatal("session closed while only ticks were shed")
	default:
	}
}

func TestEmitClosesSessionWhenCriticalEventsBackUp(t *testing.T) {
	s, _ := newPracticeSession(t, 3)
	drainEvents(s)

	for i := 0; i < outboundBuffer; i++ {
		s.outbound <- ws.QuestionEvent{Event: ws.EventQuestion, Number: i + 1}
	}

	s.emit(ws.SpeakEvent{Event: ws.EventSpeak})

	select {
	case <-s.Done():
	default:
		t.Fatal("session should close once must-deliver events back up")
	}
}
