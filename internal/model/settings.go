package model

// GameMode selects between the two play styles.
type GameMode string

const (
	ModePractice    GameMode = "practice"
	ModeCompetition GameMode = "competition"
)

// GameSettings is the value the settings view hands over at session start.
// It is immutable for the session's duration; an exited session returns an
// equal-valued copy so the settings form can re-seed itself.
type GameSettings struct {
	Mode          GameMode `json:"mode" binding:"required,oneof=practice competition"`
	QuestionCount int      `json:"question_count" binding:"omitempty,min=1,max=100"`
	Speed         float64  `json:"speed" binding:"omitempty,min=0.5,max=1.5"`
	SetLetter     string   `json:"set_letter" binding:"omitempty,len=1"`
}

// Normalized returns a copy with mode-dependent defaults applied:
// competition always runs the full 60-question schedule, practice defaults
// to 10 questions at 0.75x speech speed.
func (s GameSettings) Normalized() GameSettings {
	out := s
	if out.Mode == ModeCompetition {
		out.QuestionCount = 60
	} else {
		out.SetLetter = ""
		if out.QuestionCount == 0 {
			out.QuestionCount = 10
		}
	}
	if out.Speed == 0 {
		out.Speed = 0.75
	}
	return out
}
