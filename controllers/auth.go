package controllers

import (
	"log"
	"net/http"

	"github.com/dcode-github/property_listing_web/models"
)

type userResponse struct {
	User *models.User `json:"user"`
}

func RegisterUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := currentSession(w, r)
		if !ok {
			return
		}

		var reg models.Registration
		if !decodeBody(w, r, &reg) {
			return
		}
		if reg.Email == "" || reg.Password == "" {
			writeMessage(w, http.StatusBadRequest, "Email and password are required")
			return
		}

		user, err := s.Register(r.Context(), reg)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, userResponse{User: user})
	}
}

func LoginUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := currentSession(w, r)
		if !ok {
			return
		}

		var creds models.Credentials
		if !decodeBody(w, r, &creds) {
			return
		}
		if creds.Email == "" || creds.Password == "" {
			writeMessage(w, http.StatusBadRequest, "Email and password are required")
			return
		}

		user, err := s.Login(r.Context(), creds.Email, creds.Password)
		if err != nil {
			log.Printf("Login failed for %s: %v", creds.Email, err)
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, userResponse{User: user})
	}
}

func LogoutUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := currentSession(w, r)
		if !ok {
			return
		}
		if err := s.Logout(r.Context()); err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, Response{Message: "Logged out"})
	}
}

// CurrentUser reports the logged in user, or a null user when logged out.
func CurrentUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := currentSession(w, r)
		if !ok {
			return
		}
		user, _ := s.User()
		writeJSON(w, http.StatusOK, userResponse{User: user})
	}
}

func UpdateProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := currentSession(w, r)
		if !ok {
			return
		}

		var upd models.ProfileUpdate
		if !decodeBody(w, r, &upd) {
			return
		}

		user, err := s.UpdateProfile(r.Context(), upd)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, userResponse{User: user})
	}
}
