package api

import "net/http"

// serviceName appears in the health payload and matches the name the
// assistant reports to chat integrations.
const serviceName = "Coda AI Assistant"

// health is a simple health check endpoint for Docker/Kubernetes probes.
// Returns 200 OK with {"status":"healthy","service":"Coda AI Assistant"}.
func health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": serviceName,
	})
}

// root returns the service banner for GET /.
func root(version string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"message": "Coda AI Assistant API is running!",
			"status":  "active",
			"version": version,
		})
	}
}
