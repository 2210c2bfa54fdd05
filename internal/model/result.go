package model

// ResultItem is one entry of the append-only per-session result log.
// QuestionNumber is assigned at presentation time (1-based) and equals the
// item's position in the log; log order is presentation order is display order.
//
// Competition items carry Choices and TargetIdx so the summary view can
// re-derive and re-speak the target word (competition never collects a user
// answer). Practice items carry the correctness fields instead.
type ResultItem struct {
	QuestionID     int    `json:"question_id"`
	QuestionNumber int    `json:"question_number"`
	Sound          string `json:"sound"`
	IsCompetition  bool   `json:"is_competition_mode"`

	// Competition only.
	Choices   []string `json:"choices,omitempty"`
	TargetIdx *int     `json:"target_idx,omitempty"`

	// Practice only.
	Correct       *bool  `json:"correct,omitempty"`
	UserAnswer    string `json:"user_answer,omitempty"`
	CorrectAnswer string `json:"correct_answer,omitempty"`
}
