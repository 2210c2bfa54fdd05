package game

import (
	"github.com/soundsteps/phonics-backend/internal/model"
	ws "github.com/soundsteps/phonics-backend/internal/websocket"
)

// beginPracticeQuestion presents the current question and schedules its
// dictation after a short settle delay. Input stays locked until the
// dictation completes.
func (s *Session) beginPracticeQuestion() {
	s.canAnswer = false
	s.inFeedback = false
	q := s.questions[s.currentIndex]

	s.emit(ws.QuestionEvent{
		Event:   ws.EventQuestion,
		Number:  s.currentIndex + 1,
		Index:   s.currentIndex,
		Total:   len(s.questions),
		Choices: q.Choices,
		Mode:    model.ModePractice,
	})

	s.slot.schedule(settleDelay, s.speakCurrent)
}

func (s *Session) speakCurrent() {
	if s.phase != PhasePlaying {
		return
	}
	q := s.questions[s.currentIndex]
	s.dispatcher.Speak(q.Sound, s.settings.Speed, func(error) {
		// Engine errors unlock input too; silence must not strand the
		// learner on an unanswerable question.
		s.canAnswer = true
		s.emit(ws.CanAnswerEvent{Event: ws.EventCanAnswer})
	})
}

// handleAnswer scores a tap. Taps while unanswerable, during feedback, or
// in competition mode are expected UI races and are ignored, not errors.
func (s *Session) handleAnswer(choice int) {
	if s.competition() || s.phase != PhasePlaying || !s.canAnswer || s.inFeedback {
		return
	}
	q := s.questions[s.currentIndex]
	if choice < 0 || choice >= len(q.Choices) {
		return
	}

	// Correctness is by choice index, not by string comparison: a bank item
	// with duplicate-looking choices must still score the position tapped.
	correct := choice == q.TargetIdx
	c := correct
	s.appendResult(model.ResultItem{
		QuestionID:     q.ID,
		QuestionNumber: s.currentIndex + 1,
		Sound:          q.Sound,
		IsCompetition:  false,
		Correct:        &c,
		UserAnswer:     q.Choices[choice],
		CorrectAnswer:  q.Choices[q.TargetIdx],
	})

	s.inFeedback = true
	s.emit(ws.FeedbackEvent{
		Event:        ws.EventFeedback,
		Correct:      correct,
		CorrectIndex: q.TargetIdx,
		ChosenIndex:  choice,
	})

	s.slot.schedule(feedbackDelay, func() {
		s.inFeedback = false
		s.canAnswer = false
		if s.currentIndex+1 >= len(s.questions) {
			s.finish()
			return
		}
		s.currentIndex++
		s.beginPracticeQuestion()
	})
}

// handleReplay re-speaks the current word. Replay never interrupts a
// dictation in progress and never re-opens an answered question.
func (s *Session) handleReplay() {
	if s.competition() || s.phase != PhasePlaying {
		return
	}
	if s.dispatcher.Speaking() || !s.canAnswer || s.inFeedback {
		return
	}
	s.speakCurrent()
}
