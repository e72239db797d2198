package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/octobees/vc-scout/internal/gemini"
)

type stubModelLister struct {
	models []gemini.ModelInfo
	err    error
}

func (s *stubModelLister) ListModels(ctx context.Context) ([]gemini.ModelInfo, error) {
	return s.models, s.err
}

func TestModelsHandler_List(t *testing.T) {
	tests := map[string]struct {
		lister  ModelLister
		status  int
		message string
	}{
		"missing key":    {lister: nil, status: http.StatusInternalServerError, message: "Missing GEMINI_API_KEY"},
		"upstream error": {lister: &stubModelLister{err: errors.New("403")}, status: http.StatusBadGateway, message: "failed to list models"},
		"success": {
			lister:  &stubModelLister{models: []gemini.ModelInfo{{Name: "models/gemini-2.5-flash"}}},
			status:  http.StatusOK,
			message: "models retrieved",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/models", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			if err := NewModelsHandler(tc.lister).List(c); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, rec.Code)
			}

			var payload APIResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if payload.Message != tc.message {
				t.Fatalf("expected message %q, got %q", tc.message, payload.Message)
			}
		})
	}
}
