package httptransport

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"civicred/internal/platform/middleware"
	"civicred/internal/registration/models"
	id "civicred/pkg/domain"
	dErrors "civicred/pkg/domain-errors"
	"civicred/pkg/platform/httputil"
)

// submitRegistrationRequest carries the four opaque ciphertext handles,
// base64 on the wire. The service never decodes them.
type submitRegistrationRequest struct {
	NationalID       []byte `json:"national_id"`
	DateOfBirth      []byte `json:"date_of_birth"`
	AddressHash      []byte `json:"address_hash"`
	EligibilityFlags []byte `json:"eligibility_flags"`
}

type submitRegistrationResponse struct {
	RegistrationID id.RegistrationID `json:"registration_id"`
}

func (h *Handler) handleSubmitRegistration(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req submitRegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid request body"))
		return
	}

	regID, err := h.registrations.Submit(ctx, models.CiphertextBundle{
		NationalID:       id.Ciphertext(req.NationalID),
		DateOfBirth:      id.Ciphertext(req.DateOfBirth),
		AddressHash:      id.Ciphertext(req.AddressHash),
		EligibilityFlags: id.Ciphertext(req.EligibilityFlags),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "registration rejected",
			"request_id", middleware.GetRequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, submitRegistrationResponse{RegistrationID: regID})
}

type credentialResponse struct {
	Credential string `json:"credential,omitempty"`
	Issued     bool   `json:"issued"`
}

func (h *Handler) handleGetCredential(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	regID, err := id.ParseRegistrationID(chi.URLParam(r, "registrationID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid registration id"))
		return
	}

	value, issued, err := h.issuance.GetCredential(ctx, regID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, credentialResponse{Credential: value, Issued: issued})
}
