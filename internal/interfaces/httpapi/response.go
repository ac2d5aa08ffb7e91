package httpapi

import (
	"context"
	"errors"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/challenge-league/internal/usecase"
)

const (
	googleAPIVersion = "2.0"
	errorDomain      = "challenge-league"
)

type googleResponseEnvelope struct {
	APIVersion string           `json:"apiVersion"`
	Data       any              `json:"data,omitempty"`
	Error      *googleErrorBody `json:"error,omitempty"`
}

type googleErrorBody struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Status  string            `json:"status"`
	Errors  []googleErrorItem `json:"errors,omitempty"`
}

type googleErrorItem struct {
	Domain  string `json:"domain"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type errorClass struct {
	target     error
	httpStatus int
	status     string
	reason     string
}

// errorClasses is checked in order; the first errors.Is match wins.
var errorClasses = []errorClass{
	{usecase.ErrInvalidInput, http.StatusBadRequest, "INVALID_ARGUMENT", "invalidInput"},
	{usecase.ErrInvalidState, http.StatusConflict, "FAILED_PRECONDITION", "failedPrecondition"},
	{usecase.ErrConflict, http.StatusConflict, "ABORTED", "concurrentModification"},
	{usecase.ErrNotFound, http.StatusNotFound, "NOT_FOUND", "notFound"},
	{usecase.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHENTICATED", "unauthorized"},
	{usecase.ErrDependencyUnavailable, http.StatusServiceUnavailable, "UNAVAILABLE", "dependencyUnavailable"},
}

var internalErrorClass = errorClass{
	httpStatus: http.StatusInternalServerError,
	status:     "INTERNAL",
	reason:     "internalError",
}

func classifyError(err error) errorClass {
	for _, class := range errorClasses {
		if errors.Is(err, class.target) {
			return class
		}
	}
	return internalErrorClass
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

func writeSuccess(_ context.Context, w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, googleResponseEnvelope{APIVersion: googleAPIVersion, Data: data})
}

// writeError renders err in the Google JSON style. Unclassified errors are
// answered with a generic message so storage details never reach clients.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	class := classifyError(err)
	markSpanFailed(ctx, class.httpStatus, err)

	message := "internal server error"
	if class.httpStatus != http.StatusInternalServerError {
		message = err.Error()
	}
	writeJSON(w, class.httpStatus, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Error: &googleErrorBody{
			Code:    class.httpStatus,
			Message: message,
			Status:  class.status,
			Errors:  []googleErrorItem{{Domain: errorDomain, Reason: class.reason, Message: message}},
		},
	})
}
