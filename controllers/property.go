package controllers

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/dcode-github/property_listing_web/client"
	"github.com/dcode-github/property_listing_web/models"
)

const maxUploadBytes = 32 << 20

type DashboardStats struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Inquiries int `json:"inquiries"`
}

type dashboardResponse struct {
	Properties []models.Property `json:"properties"`
	Stats      DashboardStats    `json:"stats"`
}

func computeStats(props []models.Property) DashboardStats {
	stats := DashboardStats{Total: len(props)}
	for _, p := range props {
		if p.IsActive {
			stats.Active++
		}
		stats.Inquiries += p.Inquiries()
	}
	return stats
}

func GetProperty() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := currentSession(w, r)
		if !ok {
			return
		}
		id := mux.Vars(r)["id"]

		p, err := s.Client().Properties().Get(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

// CreateProperty accepts a multipart listing form or a JSON body. Only owners
// may list; the role is checked before anything is sent to the backend.
func CreateProperty() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := currentSession(w, r)
		if !ok {
			return
		}
		if err := s.RequireRole(models.RoleOwner); err != nil {
			writeError(w, r, err)
			return
		}

		in, images, err := parsePropertyForm(r)
		if err != nil {
			log.Printf("Invalid property form: %v", err)
			writeMessage(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := in.Validate(); err != nil {
			writeError(w, r, err)
			return
		}

		form, err := client.NewPropertyForm(in, images)
		if err != nil {
			writeError(w, r, err)
			return
		}
		p, err := s.Client().Properties().Create(r.Context(), form)
		if err != nil {
			writeError(w, r, err)
			return
		}
		log.Printf("Session %s created property %s", s.ID(), p.ID)
		writeJSON(w, http.StatusCreated, p)
	}
}

func UpdateProperty() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := currentSession(w, r)
		if !ok {
			return
		}
		id := mux.Vars(r)["id"]

		var in models.PropertyInput
		if !decodeBody(w, r, &in) {
			return
		}
		if err := in.Validate(); err != nil {
			writeError(w, r, err)
			return
		}

		p, err := s.Client().Properties().Update(r.Context(), id, in)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

func PatchProperty() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := currentSession(w, r)
		if !ok {
			return
		}
		id := mux.Vars(r)["id"]

		var fields map[string]any
		if !decodeBody(w, r, &fields) {
			return
		}
		if len(fields) == 0 {
			writeMessage(w, http.StatusBadRequest, "No fields to update")
			return
		}

		p, err := s.Client().Properties().Patch(r.Context(), id, fields)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

func DeleteProperty() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := currentSession(w, r)
		if !ok {
			return
		}
		id := mux.Vars(r)["id"]

		if err := s.Client().Properties().Delete(r.Context(), id); err != nil {
			writeError(w, r, err)
			return
		}
		log.Printf("Session %s deleted property %s", s.ID(), id)
		writeJSON(w, http.StatusOK, Response{Message: "Property deleted successfully"})
	}
}

func ToggleStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := currentSession(w, r)
		if !ok {
			return
		}
		id := mux.Vars(r)["id"]

		var body struct {
			IsActive *bool `json:"isActive"`
		}
		if !decodeBody(w, r, &body) {
			return
		}
		if body.IsActive == nil {
			writeMessage(w, http.StatusBadRequest, "isActive is required")
			return
		}

		if err := s.Client().Properties().ToggleStatus(r.Context(), id, *body.IsActive); err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"id": id, "isActive": *body.IsActive})
	}
}

// MyProperties serves the owner dashboard: the owner's listings and totals.
func MyProperties() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := currentSession(w, r)
		if !ok {
			return
		}
		if err := s.RequireRole(models.RoleOwner); err != nil {
			writeError(w, r, err)
			return
		}

		props, err := s.Client().Properties().Mine(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, dashboardResponse{Properties: props, Stats: computeStats(props)})
	}
}

func parsePropertyForm(r *http.Request) (models.PropertyInput, []models.ImageUpload, error) {
	var in models.PropertyInput

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			return in, nil, fmt.Errorf("invalid request body: %w", err)
		}
		return in, nil, nil
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return in, nil, fmt.Errorf("invalid multipart form: %w", err)
	}

	in.Title = r.FormValue("title")
	in.Description = r.FormValue("description")
	in.Type = models.ListingType(r.FormValue("type"))
	in.PropertyType = models.PropertyCategory(r.FormValue("propertyType"))
	in.Location = r.FormValue("location")

	var err error
	if in.Price, err = formInt(r, "price"); err != nil {
		return in, nil, err
	}
	bedrooms, err := formInt(r, "bedrooms")
	if err != nil {
		return in, nil, err
	}
	bathrooms, err := formInt(r, "bathrooms")
	if err != nil {
		return in, nil, err
	}
	in.Bedrooms, in.Bathrooms = int(bedrooms), int(bathrooms)
	if v := r.FormValue("area"); v != "" {
		if in.Area, err = strconv.ParseFloat(v, 64); err != nil {
			return in, nil, fmt.Errorf("area must be a number")
		}
	}
	in.Amenities = parseAmenities(r.FormValue("amenities"))

	var images []models.ImageUpload
	for _, fh := range r.MultipartForm.File["images"] {
		f, err := fh.Open()
		if err != nil {
			return in, nil, fmt.Errorf("failed to open image %s: %w", fh.Filename, err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return in, nil, fmt.Errorf("failed to read image %s: %w", fh.Filename, err)
		}
		images = append(images, models.ImageUpload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}
	return in, images, nil
}

func formInt(r *http.Request, key string) (int64, error) {
	v := strings.TrimSpace(r.FormValue(key))
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a whole number", key)
	}
	return n, nil
}

// parseAmenities accepts a JSON array or a comma separated list.
func parseAmenities(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var list []string
	if strings.HasPrefix(raw, "[") && json.Unmarshal([]byte(raw), &list) == nil {
		return list
	}
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			list = append(list, p)
		}
	}
	return list
}
