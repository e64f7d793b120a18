package gateway

import "net/http"

type notFoundResponse struct {
	Error  errorBody `json:"error"`
	Routes []string  `json:"routes"`
}

// handleNotFound answers unknown paths with the known route list so the API
// stays discoverable without separate docs.
func (rt *Router) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, notFoundResponse{
		Error: errorBody{
			Category: "not_found",
			Message:  "unknown route: " + r.Method + " " + r.URL.Path,
		},
		Routes: knownRoutes,
	})
}
