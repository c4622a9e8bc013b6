package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MKhiriev/agricheck/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	tests := []struct {
		name     string
		data     any
		status   int
		wantBody string
	}{
		{name: "object", data: map[string]string{"status": "healthy"}, status: http.StatusOK, wantBody: `{"status":"healthy"}`},
		{name: "created", data: models.MessageResponse{Message: "ok"}, status: http.StatusCreated, wantBody: `{"message":"ok"}`},
		{name: "empty list", data: []string{}, status: http.StatusOK, wantBody: `[]`},
		{name: "nil", data: nil, status: http.StatusOK, wantBody: `null`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			n, err := WriteJSON(w, tt.data, tt.status)

			require.NoError(t, err)
			assert.Equal(t, len(tt.wantBody), n)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestWriteJSON_Unmarshalable(t *testing.T) {
	w := httptest.NewRecorder()

	_, err := WriteJSON(w, make(chan int), http.StatusOK)

	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()

	WriteError(w, http.StatusUnauthorized, "Invalid email or password")

	var body models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, models.ErrorResponse{Status: http.StatusUnauthorized, Message: "Invalid email or password"}, body)
}

func TestWriteBytes(t *testing.T) {
	w := httptest.NewRecorder()
	jpeg := []byte{0xFF, 0xD8, 0xFF, 0xE0}

	n, err := WriteBytes(w, jpeg, "image/jpeg")

	require.NoError(t, err)
	assert.Equal(t, len(jpeg), n)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/jpeg", w.Header().Get("Content-Type"))
	assert.Equal(t, jpeg, w.Body.Bytes())
}
