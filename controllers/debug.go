package controllers

import (
	"net/http"

	"github.com/dcode-github/property_listing_web/client"
)

type statusResponse struct {
	BaseURL   string               `json:"baseUrl"`
	Endpoints []client.EndpointResult `json:"endpoints"`
}

// DebugStatus checks the backend endpoints and reports each outcome.
func DebugStatus(c *client.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		results := c.CheckEndpoints(r.Context(), client.DefaultEndpoints)
		writeJSON(w, http.StatusOK, statusResponse{BaseURL: c.BaseURL(), Endpoints: results})
	}
}

func Healthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
