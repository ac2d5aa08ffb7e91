package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/challenge-league/internal/usecase"
)

func TestWriteSuccess_GoogleEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeSuccess(context.Background(), rec, http.StatusOK, map[string]string{"status": "ok"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	if got, _ := body["apiVersion"].(string); got != "2.0" {
		t.Fatalf("expected apiVersion=2.0, got %v", body["apiVersion"])
	}
	if _, ok := body["data"]; !ok {
		t.Fatalf("expected data key in success response")
	}
	if _, ok := body["error"]; ok {
		t.Fatalf("did not expect error key in success response")
	}
}

func TestWriteError_StatusMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantCode   int
		wantStatus string
		wantReason string
	}{
		{"invalid input", fmt.Errorf("%w: bad payload", usecase.ErrInvalidInput), http.StatusBadRequest, "INVALID_ARGUMENT", "invalidInput"},
		{"invalid state", fmt.Errorf("%w: challenge is not pending", usecase.ErrInvalidState), http.StatusConflict, "FAILED_PRECONDITION", "failedPrecondition"},
		{"conflict", fmt.Errorf("%w: version", usecase.ErrConflict), http.StatusConflict, "ABORTED", "concurrentModification"},
		{"not found", fmt.Errorf("%w: challenge=x", usecase.ErrNotFound), http.StatusNotFound, "NOT_FOUND", "notFound"},
		{"unauthorized", usecase.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHENTICATED", "unauthorized"},
		{"dependency", fmt.Errorf("%w: account service", usecase.ErrDependencyUnavailable), http.StatusServiceUnavailable, "UNAVAILABLE", "dependencyUnavailable"},
		{"unclassified", errors.New("pq: connection reset"), http.StatusInternalServerError, "INTERNAL", "internalError"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			writeError(context.Background(), rec, tc.err)
			if rec.Code != tc.wantCode {
				t.Fatalf("expected status %d, got %d", tc.wantCode, rec.Code)
			}

			var body googleResponseEnvelope
			if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("unmarshal response body: %v", err)
			}
			if body.APIVersion != "2.0" || body.Error == nil {
				t.Fatalf("expected error envelope, got %s", rec.Body.String())
			}
			if body.Error.Status != tc.wantStatus {
				t.Fatalf("expected error status %s, got %s", tc.wantStatus, body.Error.Status)
			}
			if len(body.Error.Errors) != 1 || body.Error.Errors[0].Reason != tc.wantReason {
				t.Fatalf("expected reason %s, got %+v", tc.wantReason, body.Error.Errors)
			}
		})
	}
}

func TestWriteError_InternalHidesCause(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, errors.New("dial tcp 10.0.0.3:5432: connect: refused"))

	var body googleResponseEnvelope
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	if body.Error == nil || body.Error.Message != "internal server error" {
		t.Fatalf("expected generic message, got %s", rec.Body.String())
	}
}
