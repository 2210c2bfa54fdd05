package game

import (
	"strconv"

	"github.com/soundsteps/phonics-backend/internal/model"
	ws "github.com/soundsteps/phonics-backend/internal/websocket"
)

// onMasterTick recomputes the remaining time from the wall clock on every
// 100ms tick. The master clock is the sole authority for termination: the
// instant it hits zero the session finishes, cancelling the advance timer
// and any in-flight dictation. It is never derived from the per-question
// cycles, otherwise accumulated dictation drift would desynchronize the
// displayed countdown from real elapsed time.
func (s *Session) onMasterTick() {
	if s.phase != PhasePlaying || !s.competition() {
		return
	}
	remaining := TotalDuration - s.clock.Since(s.sessionStart)
	if remaining < 0 {
		remaining = 0
	}
	s.remaining = remaining
	s.emit(ws.TickEvent{Event: ws.EventTick, RemainingMs: remaining.Milliseconds()})
	if remaining == 0 {
		s.finish()
	}
}

// processQuestion runs one competition cycle: present, record, dictate,
// then advance on the 4-second boundary. The ResultItem is appended at
// presentation time, before dictation completes; an item can therefore be
// on record even if the master clock cuts its dictation short.
func (s *Session) processQuestion() {
	if s.phase != PhasePlaying {
		return
	}
	if s.nextIndex >= len(s.questions) {
		// Schedule exhausted: finish immediately, don't wait out the clock.
		s.finish()
		return
	}

	idx := s.nextIndex
	s.nextIndex++
	s.currentIndex = idx
	q := s.questions[idx]
	s.cycleStart = s.clock.Now()

	target := q.TargetIdx
	s.appendResult(model.ResultItem{
		QuestionID:     q.ID,
		QuestionNumber: idx + 1,
		Sound:          q.Sound,
		IsCompetition:  true,
		Choices:        q.Choices,
		TargetIdx:      &target,
	})

	s.emit(ws.QuestionEvent{
		Event:   ws.EventQuestion,
		Number:  idx + 1,
		Index:   idx,
		Total:   len(s.questions),
		Choices: q.Choices,
		Mode:    model.ModeCompetition,
	})

	s.dispatcher.SpeakSequential(strconv.Itoa(idx+1), q.Sound, func() {
		if s.phase != PhasePlaying {
			return
		}
		// The next question starts when the 4-second slot elapses. Slow
		// dictation eats into the slot and, past 4s, advances with zero
		// delay; there is no negative wait and no catch-up skipping.
		wait := CyclePeriod - s.clock.Since(s.cycleStart)
		if wait < 0 {
			wait = 0
		}
		s.slot.schedule(wait, s.processQuestion)
	})
}
