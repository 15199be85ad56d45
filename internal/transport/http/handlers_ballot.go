package httptransport

import (
	"encoding/json"
	"net/http"

	"civicred/internal/platform/middleware"
	id "civicred/pkg/domain"
	dErrors "civicred/pkg/domain-errors"
	"civicred/pkg/platform/httputil"
)

type consumeRequest struct {
	Commitment string `json:"commitment"`
}

func (h *Handler) handleConsume(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req consumeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid request body"))
		return
	}

	if err := h.ballot.Consume(ctx, id.Commitment(req.Commitment)); err != nil {
		h.logger.WarnContext(ctx, "ballot consumption rejected",
			"request_id", middleware.GetRequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
