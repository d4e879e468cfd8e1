// internal/api/routes.go
package api

import "net/http"

// RegisterRoutes mounts every API route on mux. Session and profile routes
// require a bearer token.
func RegisterRoutes(mux *http.ServeMux, h *Handler, auth *Auth) {
	secured := func(fn http.HandlerFunc) http.Handler {
		return auth.Require(fn)
	}

	// Subjects
	mux.HandleFunc("POST /subjects", h.createSubject)
	mux.HandleFunc("GET /subjects", h.listSubjects)

	// Questions
	mux.HandleFunc("POST /questions", h.createQuestion)
	mux.HandleFunc("GET /questions", h.listQuestions)
	mux.HandleFunc("GET /questions/{questionID}", h.getQuestion)

	// Sessions
	mux.Handle("POST /sessions", secured(h.startSession))
	mux.Handle("GET /sessions/{sessionID}", secured(h.getSession))
	mux.Handle("POST /sessions/{sessionID}/answers", secured(h.submitAnswer))
	mux.Handle("POST /sessions/{sessionID}/complete", secured(h.completeSession))
	mux.Handle("POST /sessions/{sessionID}/abandon", secured(h.abandonSession))
	mux.Handle("GET /sessions/{sessionID}/recommendations", secured(h.getRecommendations))
	mux.Handle("GET /sessions/{sessionID}/export", secured(h.exportSession))

	// Profiles
	mux.Handle("GET /profiles/me", secured(h.getProfile))
}
