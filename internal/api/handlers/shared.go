package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/api/middleware"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/api/response"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/apperrors"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/validation"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// parseJSON decodes the request body into T. Unknown fields are rejected.
func parseJSON[T any](r *http.Request) (T, error) {
	var v T
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return v, err
	}
	return v, nil
}

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	var vErr *validation.Error
	switch {
	case errors.As(err, &vErr):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrPortfolioNotFound),
		errors.Is(err, apperrors.ErrAllocationNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, apperrors.ErrMissingCaller),
		errors.Is(err, apperrors.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrRebalanceTooFrequent):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrInsufficientBalance),
		errors.Is(err, apperrors.ErrInvalidAllocation),
		errors.Is(err, apperrors.ErrInvalidAsset),
		errors.Is(err, apperrors.ErrRiskThresholdExceeded),
		errors.Is(err, apperrors.ErrCapacityExceeded),
		errors.Is(err, apperrors.ErrAmountOverflow),
		errors.Is(err, apperrors.ErrFeeOutOfRange),
		errors.Is(err, apperrors.ErrInvalidPortfolioID):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondServiceError writes err with its mapped status and, for ledger
// errors, the ledger error code.
func respondServiceError(w http.ResponseWriter, message string, err error) {
	var vErr *validation.Error
	if errors.As(err, &vErr) {
		response.RespondError(w, http.StatusBadRequest, "validation failed", vErr.Fields)
		return
	}

	code := ""
	if c, ok := apperrors.Code(err); ok {
		code = fmt.Sprintf("u%d", c)
	}
	response.RespondCodedError(w, statusFor(err), message, code, err.Error())
}

// callerOrReject returns the authenticated principal or writes 401.
func callerOrReject(w http.ResponseWriter, r *http.Request) (string, bool) {
	caller, ok := middleware.CallerFrom(r.Context())
	if !ok {
		respondServiceError(w, "authentication required", apperrors.ErrMissingCaller)
		return "", false
	}
	return caller, true
}

// portfolioIDOrReject parses the {id} path parameter or writes 400.
func portfolioIDOrReject(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	id, err := validation.ParsePortfolioID(chi.URLParam(r, "id"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid portfolio ID", err.Error())
		return 0, false
	}
	return id, true
}
