package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/soundsteps/phonics-backend/internal/game"
	"github.com/soundsteps/phonics-backend/internal/model"
	"github.com/soundsteps/phonics-backend/internal/response"
	"github.com/soundsteps/phonics-backend/internal/validator"
)

// SessionHandler manages the session lifecycle over HTTP. The live game
// itself runs over the WebSocket stream; these endpoints create sessions,
// expose snapshots, and hand out results once a session finishes.
type SessionHandler struct {
	manager *game.Manager
	log     zerolog.Logger
}

func NewSessionHandler(manager *game.Manager, log zerolog.Logger) *SessionHandler {
	return &SessionHandler{
		manager: manager,
		log:     log.With().Str("component", "session_handler").Logger(),
	}
}

// Create godoc
// POST /api/v1/sessions
func (h *SessionHandler) Create(c *gin.Context) {
	var req model.GameSettings
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	session, err := h.manager.Start(req)
	if err != nil {
		switch {
		case errors.Is(err, game.ErrSetRequired):
			response.Fail(c, http.StatusBadRequest, response.ErrSetRequired)
		case errors.Is(err, game.ErrUnknownSet):
			response.Fail(c, http.StatusNotFound, response.ErrUnknownSet)
		case errors.Is(err, game.ErrNoQuestions):
			response.Fail(c, http.StatusUnprocessableEntity, response.ErrNoQuestions)
		default:
			h.log.Error().Err(err).Msg("Session start failed")
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	h.log.Info().
		Str("session_id", session.ID.String()).
		Str("mode", string(session.Settings().Mode)).
		Msg("Session created")

	response.Success(c, http.StatusCreated, gin.H{"session": session.Snapshot()})
}

// Get godoc
// GET /api/v1/sessions/:id
func (h *SessionHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	session, ok := h.manager.Get(id)
	if !ok {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"session": session.Snapshot()})
}

// Results godoc
// GET /api/v1/sessions/:id/results
// Results are only released once the session reaches its terminal state;
// a mid-game read would expose answers the learner has not heard yet.
func (h *SessionHandler) Results(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	session, ok := h.manager.Get(id)
	if !ok {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	snap := session.Snapshot()
	if snap.Phase != game.PhaseFinished {
		response.Fail(c, http.StatusConflict, response.ErrResultsNotReady)
		return
	}

	results := session.Results()
	if results == nil {
		results = []model.ResultItem{}
	}

	response.Success(c, http.StatusOK, gin.H{
		"session": snap,
		"results": results,
	})
}

// Delete godoc
// DELETE /api/v1/sessions/:id
func (h *SessionHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	settings, ok := h.manager.Remove(id)
	if !ok {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	h.log.Info().
		Str("session_id", id.String()).
		Str("mode", string(settings.Mode)).
		Msg("Session deleted")

	response.Success(c, http.StatusOK, gin.H{"message": "session deleted successfully"})
}
