package httpx

import "net/http"

// healthHandler reports process liveness.
// GET /healthz.
func healthHandler(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
