package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/agentstation/uispec"
	"github.com/agentstation/uispec/internal/server/response"
	ws "github.com/agentstation/uispec/internal/server/websocket"
	"github.com/agentstation/uispec/pkg/logging"
	"github.com/agentstation/uispec/pkg/pipeline"
	"github.com/agentstation/uispec/pkg/spec"
)

// HandleSession handles WebSocket connections at /api/v1/session/ws. Each
// connection is one conversation with its own engine.
func (h *Handlers) HandleSession(w http.ResponseWriter, r *http.Request) {
	engine, err := h.app.Engine()
	if err != nil {
		h.logger.Error().Err(err).Msg("Engine not available")
		response.ServiceUnavailable(w, "Engine not available")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	id := uuid.NewString()
	sess := newSession(id, engine, h.logger)
	client := ws.NewClient(id, h.wsHub, conn, sess.handle)
	if !h.wsHub.Register(client) {
		_ = conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump(h.ctx)
}

// session answers the messages of one connection. The client's read pump
// calls handle sequentially, so session fields need no locking.
type session struct {
	id     string
	engine uispec.Engine
	logger zerolog.Logger

	// last is the latest streaming snapshot of the open turn, nil between turns
	last spec.Raw
}

func newSession(id string, engine uispec.Engine, logger *zerolog.Logger) *session {
	return &session{
		id:     id,
		engine: engine,
		logger: logger.With().Str("session_id", id).Logger(),
	}
}

// handle processes one inbound message.
func (s *session) handle(ctx context.Context, in ws.Inbound) ws.Message {
	ctx = logging.WithLogger(ctx, &s.logger)

	switch in.Type {
	case ws.TypeSnapshot:
		if in.Tree == nil {
			return ws.ErrorMessage("snapshot has no tree")
		}
		return s.snapshot(ctx, in.Tree, in.Final)

	case ws.TypeInteract:
		if in.Path == "" {
			return ws.ErrorMessage("interaction has no path")
		}
		s.engine.Interact(in.Path, in.Value)
		// re-render the open turn, or the previous tree between turns
		return s.render(ctx, s.last, false)

	default:
		return ws.ErrorMessage(fmt.Sprintf("unsupported message type %q", in.Type))
	}
}

func (s *session) snapshot(ctx context.Context, raw spec.Raw, final bool) ws.Message {
	if !final {
		s.last = raw
		return s.render(ctx, raw, false)
	}

	s.last = nil
	result, err := s.engine.Finalize(ctx, raw)
	if err != nil {
		return ws.ErrorMessage(err.Error())
	}
	return treeMessage(result, true)
}

func (s *session) render(ctx context.Context, raw spec.Raw, final bool) ws.Message {
	result, err := s.engine.Update(ctx, raw)
	if err != nil {
		return ws.ErrorMessage(err.Error())
	}
	return treeMessage(result, final)
}

func treeMessage(result *pipeline.Result, final bool) ws.Message {
	if !result.HasTree() {
		return ws.ErrorMessage("no tree could be produced")
	}
	payload := result.Payload()
	payload.Final = final
	return ws.Message{
		Type:      ws.TypeTree,
		Timestamp: time.Now(),
		Data:      payload,
	}
}
