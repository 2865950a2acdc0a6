package response

import (
	"encoding/json"
	"net/http"

	"github.com/tair/alcohol-tracker/pkg/logger"
)

// Response is the envelope every JSON endpoint answers with
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func JSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to encode response")
	}
}

func OK(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusOK, Response{Success: true, Data: data})
}

func Fail(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Response{Success: false, Error: message})
}
