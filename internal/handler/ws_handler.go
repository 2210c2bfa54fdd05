package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/soundsteps/phonics-backend/internal/game"
	"github.com/soundsteps/phonics-backend/internal/response"
	ws "github.com/soundsteps/phonics-backend/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// replyBuffer bounds read-loop replies waiting on the writer goroutine;
// when it is full the pong or error frame is shed rather than stalling
// the read loop.
const replyBuffer = 16

// WSHandler streams a live game session. The connected client is both the
// session's view and its speech engine: speak/cancel commands flow out,
// speech completions and taps flow back in.
type WSHandler struct {
	manager  *game.Manager
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(manager *game.Manager, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		manager:  manager,
		log:      log.With().Str("component", "ws_handler").Logger(),
		upgrader: buildUpgrader(allowedOrigins),
	}
}

// SessionStream godoc
// WS /ws/v1/sessions/:id/stream
// Upgrades to WebSocket and attaches the client to its session's event loop.
// Only one client may be attached at a time.
func (h *WSHandler) SessionStream(c *gin.Context) {
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

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	if !session.Attach() {
		ws.WriteError(conn, "another client is attached to this session")
		return
	}
	defer session.Detach()

	wsLog := h.log.With().Str("session_id", id.String()).Logger()
	wsLog.Info().Msg("Client connected")

	// Writer goroutine: pump session events and read-loop replies onto the
	// wire. It is the connection's only writer once it starts; the read
	// loop hands pongs and error frames over instead of writing them
	// itself. Closing the connection when the session ends also unblocks
	// the read loop below.
	replies := make(chan interface{}, replyBuffer)
	readerDone := make(chan struct{})
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		write := func(payload interface{}) bool {
			if err := ws.WriteTyped(conn, payload); err != nil {
				wsLog.Debug().Err(err).Msg("Write failed, dropping connection")
				conn.Close()
				return false
			}
			return true
		}
		for {
			select {
			case <-readerDone:
				return
			case <-session.Done():
				conn.Close()
				return
			case reply := <-replies:
				if !write(reply) {
					return
				}
			case event, ok := <-session.Events():
				if !ok {
					conn.Close()
					return
				}
				if !write(event) {
					return
				}
			}
		}
	}()

	h.readLoop(conn, session, replies, wsLog)
	close(readerDone)
	<-writerDone

	wsLog.Info().Msg("Client disconnected")
}

// readLoop decodes inbound actions and forwards them to the session's
// event loop until the connection drops or the session ends. It never
// writes the connection; pongs and error frames go through replies so
// the writer goroutine stays the single writer.
func (h *WSHandler) readLoop(conn *websocket.Conn, session *game.Session, replies chan<- interface{}, wsLog zerolog.Logger) {
	for {
		var msg ws.ClientRequest
		err := ws.ReadJSON(conn, &msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			return
		}

		var ev game.ClientEvent
		switch msg.Action {
		case ws.ActionPing:
			select {
			case replies <- ws.PongResponse{Event: ws.EventPong}:
			default:
			}
			continue
		case ws.ActionReady:
			ev = game.ClientEvent{Kind: game.EvReady, Voices: msg.Voices}
		case ws.ActionVoices:
			ev = game.ClientEvent{Kind: game.EvVoices, Voices: msg.Voices}
		case ws.ActionSpeechEnd:
			ev = game.ClientEvent{Kind: game.EvSpeechEnd, Utterance: msg.Utterance}
		case ws.ActionSpeechError:
			ev = game.ClientEvent{Kind: game.EvSpeechError, Utterance: msg.Utterance}
		case ws.ActionAnswer:
			ev = game.ClientEvent{Kind: game.EvAnswer, Choice: msg.Choice}
		case ws.ActionReplay:
			ev = game.ClientEvent{Kind: game.EvReplay}
		case ws.ActionExit:
			ev = game.ClientEvent{Kind: game.EvExit}
		case ws.ActionExitConfirm:
			ev = game.ClientEvent{Kind: game.EvExitConfirm}
		case ws.ActionExitCancel:
			ev = game.ClientEvent{Kind: game.EvExitCancel}
		default:
			wsLog.Warn().Str("action", string(msg.Action)).Msg("Unknown action")
			select {
			case replies <- ws.ErrorResponse{Event: ws.EventError, Error: "unknown action: " + string(msg.Action)}:
			default:
			}
			continue
		}

		if !session.Deliver(ev) {
			// Session loop has stopped; nothing more to forward.
			return
		}
	}
}
