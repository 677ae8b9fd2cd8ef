package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hongminglow/auth-smoke/internal/models/dto"
)

// JSON writes payload as the response body.
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("respond: encode payload failed", "err", err)
	}
}

// Error writes {"error": message}.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, dto.ErrorResponse{Error: message})
}

// Validation writes a 400 listing the offending fields.
func Validation(w http.ResponseWriter, details []dto.FieldDetail) {
	JSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "validation failed", Details: details})
}
