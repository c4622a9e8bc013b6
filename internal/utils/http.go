package utils

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/MKhiriev/agricheck/models"
)

// WriteJSON serializes data to JSON and writes it with statusCode and a
// "Content-Type: application/json" header.
//
// If marshaling fails it responds with 500 Internal Server Error and returns
// a wrapped error.
//
//	WriteJSON(w, models.HealthResponse{Status: "ok"}, http.StatusOK)
func WriteJSON(w http.ResponseWriter, data any, statusCode int) (int, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		http.Error(w, "error writing data to JSON", http.StatusInternalServerError)
		return 0, fmt.Errorf("error writing data to JSON: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	return w.Write(jsonData)
}

// WriteError writes the uniform error body {"status": code, "message": msg}.
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	_, _ = WriteJSON(w, models.ErrorResponse{Status: statusCode, Message: message}, statusCode)
}

// WriteBytes writes raw data with the given media type and a 200 status.
func WriteBytes(w http.ResponseWriter, data []byte, mediaType string) (int, error) {
	w.Header().Set("Content-Type", mediaType)
	w.WriteHeader(http.StatusOK)
	return w.Write(data)
}
