package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/roberto3101/LibroReclamacionesCodePlex/internal/testutil"
)

// failingResponseWriter is a ResponseWriter that can simulate write failures
type failingResponseWriter struct {
	http.ResponseWriter
	failOnWrite bool
}

func (f *failingResponseWriter) Write(p []byte) (int, error) {
	if f.failOnWrite {
		// Return an error to simulate write failure
		return 0, &json.MarshalerError{}
	}
	return f.ResponseWriter.Write(p)
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name           string
		statusCode     int
		message        string
		detail         string
		withLogger     bool
		expectedStatus int
	}{
		{
			name:           "validation error",
			statusCode:     http.StatusBadRequest,
			message:        "Tipo de solicitud inválido",
			withLogger:     true,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "not found",
			statusCode:     http.StatusNotFound,
			message:        "Reclamo no encontrado",
			withLogger:     false,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "internal error with detail",
			statusCode:     http.StatusInternalServerError,
			message:        "Error al registrar el reclamo",
			detail:         "connection refused",
			withLogger:     true,
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			var logger *slog.Logger
			if tt.withLogger {
				logger = testutil.NewTestLogger()
			}

			WriteError(w, tt.statusCode, tt.message, tt.detail, logger)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status code %d, got %d", tt.expectedStatus, w.Code)
			}

			contentType := w.Header().Get("Content-Type")
			if contentType != "application/json" {
				t.Errorf("expected Content-Type application/json, got %s", contentType)
			}

			var response ErrorResponse
			if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}

			if response.Success {
				t.Error("expected success=false in error envelope")
			}

			if response.Message != tt.message {
				t.Errorf("expected message %q, got %q", tt.message, response.Message)
			}

			if response.Error != tt.detail {
				t.Errorf("expected detail %q, got %q", tt.detail, response.Error)
			}
		})
	}
}

func TestWriteError_WithNilLogger(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, http.StatusBadRequest, "Test", "", nil)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status code %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	payload := SuccessResponse{
		Success: true,
		Message: "Reclamo registrado exitosamente",
		Data:    map[string]any{"codigo_reclamo": "CODEPLEX-2026-00001"},
	}

	WriteJSON(w, http.StatusCreated, payload, testutil.NewTestLogger())

	if w.Code != http.StatusCreated {
		t.Errorf("expected status code 201, got %d", w.Code)
	}

	var decoded SuccessResponse
	if err := json.NewDecoder(w.Body).Decode(&decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if !decoded.Success {
		t.Error("expected success=true")
	}
}

// TestWriteError_JSONEncodingError tests the error path when JSON encoding fails
// This is difficult to test directly, but we can verify the function handles it gracefully
func TestWriteError_JSONEncodingError(t *testing.T) {
	// Create a response writer that will fail on Write
	w := &failingResponseWriter{
		ResponseWriter: httptest.NewRecorder(),
		failOnWrite:    true,
	}

	logger := testutil.NewTestLogger()
	WriteError(w, http.StatusBadRequest, "Test", "", logger)

	// Function should not panic even if encoding fails
	// The error is logged but the function completes
}
