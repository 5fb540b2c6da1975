package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// Endpoints enumerates the routes served by the API, in the fallback response order.
var Endpoints = []string{
	"POST   /order",
	"GET    /order/:orderId",
	"GET    /order/list",
	"PUT    /order/:orderId",
	"DELETE /order/:orderId",
	"GET    /health",
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Success            bool              `json:"success"`
	Error              string            `json:"error"`
	Required           []string          `json:"required,omitempty"`
	Missing            []string          `json:"missing,omitempty"`
	Fields             map[string]string `json:"fields,omitempty"`
	Details            string            `json:"details,omitempty"`
	AvailableEndpoints []string          `json:"availableEndpoints,omitempty"`
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, status int, data interface{}, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// WriteError writes an error response in JSON format
func WriteError(w http.ResponseWriter, status int, body ErrorResponse, logger *zap.Logger) {
	body.Success = false
	WriteJSON(w, status, body, logger)
}

// NotFound answers requests that match no route.
func NotFound(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger.Warn("endpoint not found", zap.String("method", r.Method), zap.String("path", r.URL.Path))
		WriteError(w, http.StatusNotFound, ErrorResponse{
			Error:              "Endpoint not found",
			AvailableEndpoints: Endpoints,
		}, logger)
	}
}
