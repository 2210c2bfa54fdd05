package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/soundsteps/phonics-backend/internal/content"
	"github.com/soundsteps/phonics-backend/internal/response"
)

// ContentHandler serves read-only views of the question bank and the
// per-letter set schedules.
type ContentHandler struct {
	library *content.Library
	log     zerolog.Logger
}

func NewContentHandler(library *content.Library, log zerolog.Logger) *ContentHandler {
	return &ContentHandler{
		library: library,
		log:     log.With().Str("component", "content_handler").Logger(),
	}
}

// GetSets godoc
// GET /api/v1/content/sets
func (h *ContentHandler) GetSets(c *gin.Context) {
	letters := h.library.SetLetters()
	if letters == nil {
		letters = []string{}
	}

	response.Success(c, http.StatusOK, gin.H{
		"sets":              letters,
		"questions_per_set": content.QuestionsPerSet,
	})
}

// sheetRow is one printable-sheet line: the choices a learner taps between,
// with the dictated target withheld so the sheet can be handed out before
// the session.
type sheetRow struct {
	Number  int      `json:"number"`
	Choices []string `json:"choices"`
}

// GetSheet godoc
// GET /api/v1/content/sets/:letter/sheet
// Returns the exact question sequence a competition session for this letter
// will follow. Resolution is deterministic, so the sheet printed today
// matches the session run tomorrow.
func (h *ContentHandler) GetSheet(c *gin.Context) {
	letter := c.Param("letter")
	if !h.library.HasSet(letter) {
		response.Fail(c, http.StatusNotFound, response.ErrUnknownSet)
		return
	}

	seq, err := h.library.ResolveSet(letter)
	if err != nil {
		h.log.Error().Err(err).Str("set", letter).Msg("Sheet resolution failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	rows := make([]sheetRow, len(seq))
	for i, q := range seq {
		rows[i] = sheetRow{Number: i + 1, Choices: q.Choices}
	}

	response.Success(c, http.StatusOK, gin.H{
		"set":   letter,
		"rows":  rows,
		"total": len(rows),
	})
}

// GetQuestions godoc
// GET /api/v1/content/questions
func (h *ContentHandler) GetQuestions(c *gin.Context) {
	questions := h.library.Questions()
	if questions == nil {
		questions = []content.Question{}
	}

	response.Success(c, http.StatusOK, gin.H{
		"questions": questions,
		"total":     len(questions),
	})
}
