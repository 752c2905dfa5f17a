package web

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/woozymasta/tour-content/internal/vars"
)

// BuildInfoHandler returns application build information as JSON.
func BuildInfoHandler(w http.ResponseWriter, _ *http.Request) {
	buildInfo := vars.Info()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(buildInfo); err != nil {
		log.Warn().Err(err).Msg("Failed to encode build info")
	}
}
