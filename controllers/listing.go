package controllers

import (
	"log"
	"net/http"

	"github.com/dcode-github/property_listing_web/fallback"
	"github.com/dcode-github/property_listing_web/models"
)

// HomeLimit is how many recent listings the home view shows.
const HomeLimit = 6

type listingsResponse struct {
	Properties []models.Property     `json:"properties"`
	Live       bool                  `json:"live"`
	DemoMode   bool                  `json:"demoMode"`
	Reason     string                `json:"reason,omitempty"`
	Filters    *models.SearchFilters `json:"filters,omitempty"`
	Ignored    []string              `json:"ignored,omitempty"`
}

func newListingsResponse(res fallback.Result) listingsResponse {
	props := res.Properties
	if props == nil {
		props = []models.Property{}
	}
	return listingsResponse{
		Properties: props,
		Live:       res.Live,
		DemoMode:   !res.Live,
		Reason:     res.Reason,
	}
}

// Home serves the newest listings. It never fails on a backend outage.
func Home(f *fallback.Fetcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res := f.Recent(r.Context(), HomeLimit)
		writeJSON(w, http.StatusOK, newListingsResponse(res))
	}
}

// Search serves filtered listings, echoing the filters it applied. Invalid
// query parameters are dropped and listed under "ignored"; like Home it never
// fails on a bad query or a backend outage.
func Search(f *fallback.Fetcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters, problems := models.ParseFilters(r.URL.Query())

		resp := newListingsResponse(f.Listings(r.Context(), filters))
		resp.Filters = &filters
		for _, p := range problems {
			log.Printf("Ignoring search parameter in %q: %v", r.URL.RawQuery, p)
			resp.Ignored = append(resp.Ignored, p.Error())
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
