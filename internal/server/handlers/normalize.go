package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/agentstation/uispec/internal/server/response"
	"github.com/agentstation/uispec/pkg/constants"
	"github.com/agentstation/uispec/pkg/pipeline"
	"github.com/agentstation/uispec/pkg/spec"
	"github.com/agentstation/uispec/pkg/state"
)

// NormalizeRequest is the body of POST /api/v1/normalize.
type NormalizeRequest struct {
	// Tree is the snapshot to process.
	Tree spec.Raw `json:"tree"`

	// Previous is the last finalized tree, if any.
	Previous spec.Raw `json:"previous,omitempty"`

	// Live holds interactions recorded since Previous, in order.
	Live []state.Write `json:"live,omitempty"`
}

// HandleNormalize handles POST /api/v1/normalize. It runs one stateless
// pipeline pass and answers with a tree payload.
func (h *Handlers) HandleNormalize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		response.MethodNotAllowed(w, r.Method)
		return
	}

	var req NormalizeRequest
	body := http.MaxBytesReader(w, r.Body, constants.MaxMessageSize)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", err.Error())
		return
	}

	input := pipeline.Input{Next: req.Tree, Live: state.NewLive(req.Live...)}
	if req.Previous != nil {
		previous, err := spec.FromRaw(req.Previous)
		if err != nil {
			response.ErrorFromType(w, err)
			return
		}
		input.Previous = previous
	}

	p, err := h.app.Pipeline()
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	result, err := p.Run(r.Context(), input)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	response.OK(w, result.Payload())
}
