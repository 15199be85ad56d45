package httptransport

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"civicred/internal/platform/middleware"
	id "civicred/pkg/domain"
	dErrors "civicred/pkg/domain-errors"
	"civicred/pkg/platform/httputil"
)

type requestIssuanceRequest struct {
	Commitment string `json:"commitment"`
}

func (h *Handler) handleRequestIssuance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	regID, err := id.ParseRegistrationID(chi.URLParam(r, "registrationID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid registration id"))
		return
	}

	var req requestIssuanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid request body"))
		return
	}

	requestID, err := h.issuance.RequestIssuance(ctx, regID, id.Commitment(req.Commitment))
	if err != nil {
		h.logger.WarnContext(ctx, "issuance request rejected",
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
