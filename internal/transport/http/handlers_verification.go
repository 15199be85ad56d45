package httptransport

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"civicred/internal/oracle"
	"civicred/internal/platform/middleware"
	id "civicred/pkg/domain"
	dErrors "civicred/pkg/domain-errors"
	"civicred/pkg/platform/httputil"
)

type requestAcceptedResponse struct {
	OracleRequestID id.RequestID `json:"oracle_request_id"`
}

func (h *Handler) handleRequestVerification(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	regID, err := id.ParseRegistrationID(chi.URLParam(r, "registrationID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid registration id"))
		return
	}

	requestID, err := h.verification.RequestVerification(ctx, regID)
	if err != nil {
		h.logger.WarnContext(ctx, "verification request rejected",
			"request_id", middleware.GetRequestID(ctx),
			"registration_id", regID,
			"registrar", middleware.GetRegistrar(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusAccepted, requestAcceptedResponse{OracleRequestID: requestID})
}

// handleVerificationCallback is the HTTP twin of the NATS result consumer.
// The proof inside the body is the authentication; a rejected callback gets
// its protocol error back so the oracle can alert on it.
func (h *Handler) handleVerificationCallback(w http.ResponseWriter, r *http.Request) {
	h.handleCallback(w, r, h.verification.HandleResult)
}

func (h *Handler) handleIssuanceCallback(w http.ResponseWriter, r *http.Request) {
	h.handleCallback(w, r, h.issuance.HandleResult)
}

func (h *Handler) handleCallback(
	w http.ResponseWriter,
	r *http.Request,
	handle func(ctx context.Context, requestID id.RequestID, clearResult, proof []byte) error,
) {
	ctx := r.Context()

	var msg oracle.CallbackMessage
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid callback body"))
		return
	}
	if msg.RequestID == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "request_id is required"))
		return
	}

	if err := handle(ctx, id.RequestID(msg.RequestID), msg.ClearResult, msg.Proof); err != nil {
		httputil.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
