package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/dcode-github/property_listing_web/client"
	"github.com/dcode-github/property_listing_web/middleware"
	"github.com/dcode-github/property_listing_web/models"
	"github.com/dcode-github/property_listing_web/session"
)

type Response struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Message: message})
}

// errorStatus maps a local or backend error to the status shown to the browser.
func errorStatus(err error) (int, string) {
	var se *client.StatusError
	switch {
	case errors.As(err, &se):
		return se.Status, se.Message
	case client.IsNetwork(err):
		return http.StatusBadGateway, client.ErrNetwork.Error()
	case errors.Is(err, client.ErrShape):
		return http.StatusBadGateway, "unexpected response from server"
	case errors.Is(err, session.ErrNotAuthenticated):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, session.ErrForbiddenRole):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, session.ErrInvalidRole),
		errors.Is(err, models.ErrInvalidProperty),
		errors.Is(err, models.ErrInvalidFilter),
		errors.Is(err, models.ErrInvalidMessage):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, "something went wrong"
	}
}

// writeError reports err to the browser. A 401 from the backend also ends
// the session, since its token is no longer accepted.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	if s, ok := middleware.SessionFrom(r.Context()); ok {
		s.Reject(r.Context(), err)
	}
	status, message := errorStatus(err)
	log.Printf("%s %s failed with %d: %v", r.Method, r.URL.Path, status, err)
	writeMessage(w, status, message)
}

func currentSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	s, ok := middleware.SessionFrom(r.Context())
	if !ok {
		log.Printf("Session missing in context for %s %s", r.Method, r.URL.Path)
		writeMessage(w, http.StatusUnauthorized, session.ErrNotAuthenticated.Error())
		return nil, false
	}
	return s, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		log.Printf("Invalid request body for %s %s: %v", r.Method, r.URL.Path, err)
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
