package controllers

import (
	"net/http"

	"github.com/dcode-github/property_listing_web/models"
)

func GetMessages() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := currentSession(w, r)
		if !ok {
			return
		}
		propertyID := r.URL.Query().Get("propertyId")
		if propertyID == "" {
			writeMessage(w, http.StatusBadRequest, "propertyId is required")
			return
		}

		msgs, err := s.Client().Messages().ByProperty(r.Context(), propertyID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, msgs)
	}
}

func SendMessage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := currentSession(w, r)
		if !ok {
			return
		}

		var msg models.NewMessage
		if !decodeBody(w, r, &msg) {
			return
		}
		if err := msg.Validate(); err != nil {
			writeError(w, r, err)
			return
		}

		sent, err := s.Client().Messages().Send(r.Context(), msg)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, sent)
	}
}
