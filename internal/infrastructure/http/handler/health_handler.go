package handler

import (
	"net/http"

	"github.com/mrops-br/catalog-api/internal/infrastructure/http/response"
)

// Health handles GET /api/health. It reports liveness only.
func Health(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, map[string]bool{"ok": true})
}
