package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strconv"

	"github.com/dcode-github/property_listing_web/models"
)

// Multipart is a pre-encoded multipart/form-data body. It is sent untouched;
// ContentType carries the boundary chosen by the writer.
type Multipart struct {
	ContentType string
	Body        []byte
}

// NewMultipart wraps an already encoded form, e.g. one received from a browser.
func NewMultipart(contentType string, body []byte) *Multipart {
	return &Multipart{ContentType: contentType, Body: body}
}

// NewPropertyForm encodes a create-listing submission: scalar fields as text
// parts, amenities as a JSON array and every image as an "images" file part.
func NewPropertyForm(in models.PropertyInput, images []models.ImageUpload) (*Multipart, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	amenities := in.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	amenitiesJSON, err := json.Marshal(amenities)
	if err != nil {
		return nil, fmt.Errorf("failed to encode amenities: %w", err)
	}

	fields := []struct{ key, value string }{
		{"title", in.Title},
		{"description", in.Description},
		{"type", string(in.Type)},
		{"propertyType", string(in.PropertyType)},
		{"location", in.Location},
		{"price", strconv.FormatInt(in.Price, 10)},
		{"bedrooms", strconv.Itoa(in.Bedrooms)},
		{"bathrooms", strconv.Itoa(in.Bathrooms)},
		{"area", strconv.FormatFloat(in.Area, 'f', -1, 64)},
		{"amenities", string(amenitiesJSON)},
	}
	for _, f := range fields {
		if err := w.WriteField(f.key, f.value); err != nil {
			return nil, fmt.Errorf("failed to write field %s: %w", f.key, err)
		}
	}

	for _, img := range images {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="images"; filename=%q`, img.Filename))
		ct := img.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, fmt.Errorf("failed to create image part %s: %w", img.Filename, err)
		}
		if _, err := part.Write(img.Data); err != nil {
			return nil, fmt.Errorf("failed to write image %s: %w", img.Filename, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish multipart body: %w", err)
	}
	return &Multipart{ContentType: w.FormDataContentType(), Body: buf.Bytes()}, nil
}
