package handler

import "net/http"

const livenessMessage = "learncards API is running!"

// Root answers GET / with a plain liveness string
func Root(w http.ResponseWriter, r *http.Request) {
	writeText(w, livenessMessage)
}

// Health answers GET /health for container probes
func Health(w http.ResponseWriter, r *http.Request) {
	writeText(w, "ok")
}

func writeText(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}
