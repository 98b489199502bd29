package client

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/url"

	"github.com/dcode-github/property_listing_web/models"
)

type PropertiesAPI struct {
	c *Client
}

func (c *Client) Properties() PropertiesAPI {
	return PropertiesAPI{c: c}
}

func propertyPath(id string) string {
	return "/properties/" + url.PathEscape(id)
}

// DecodeProperties normalizes a listing payload: a JSON array is the list,
// an object contributes its "properties" field, anything else is empty.
func DecodeProperties(body []byte) ([]models.Property, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return []models.Property{}, nil
	}

	switch body[0] {
	case '[':
		return decodeList(body)
	case '{':
		var wrapped struct {
			Properties json.RawMessage `json:"properties"`
		}
		if err := json.Unmarshal(body, &wrapped); err != nil {
			return nil, shapeError("invalid property envelope: %v", err)
		}
		if len(wrapped.Properties) == 0 || wrapped.Properties[0] != '[' {
			return []models.Property{}, nil
		}
		return decodeList(wrapped.Properties)
	}

	if !json.Valid(body) {
		return nil, shapeError("invalid json body")
	}
	return []models.Property{}, nil
}

// decodeList decodes a JSON array of listings. An element that does not fit
// the Property shape is logged and skipped so one bad record cannot hide the
// rest of the list.
func decodeList(data []byte) ([]models.Property, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, shapeError("invalid property list: %v", err)
	}
	list := make([]models.Property, 0, len(raw))
	for i, elem := range raw {
		var p models.Property
		if err := json.Unmarshal(elem, &p); err != nil {
			log.Printf("Skipping malformed property at index %d: %v", i, err)
			continue
		}
		list = append(list, p)
	}
	return list, nil
}

func (api PropertiesAPI) list(ctx context.Context, path string, auth bool) ([]models.Property, error) {
	resp, err := api.c.Do(ctx, path, Request{RequireAuth: auth})
	if err != nil {
		return nil, err
	}
	if !resp.IsJSON() {
		return nil, shapeError("expected application/json, got %q", resp.Header.Get("Content-Type"))
	}
	return DecodeProperties(resp.Body)
}

func (api PropertiesAPI) List(ctx context.Context, f models.SearchFilters) ([]models.Property, error) {
	path := "/properties"
	if q := f.Query().Encode(); q != "" {
		path += "?" + q
	}
	return api.list(ctx, path, false)
}

func (api PropertiesAPI) Get(ctx context.Context, id string) (*models.Property, error) {
	var p models.Property
	if err := api.c.get(ctx, propertyPath(id), false, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create submits a multipart listing form.
func (api PropertiesAPI) Create(ctx context.Context, form *Multipart) (*models.Property, error) {
	var p models.Property
	err := api.c.call(ctx, "/properties", Request{Method: http.MethodPost, Body: form, RequireAuth: true}, &p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (api PropertiesAPI) Update(ctx context.Context, id string, in models.PropertyInput) (*models.Property, error) {
	var p models.Property
	err := api.c.call(ctx, propertyPath(id), Request{Method: http.MethodPut, Body: in, RequireAuth: true}, &p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Patch sends a partial update with only the given fields.
func (api PropertiesAPI) Patch(ctx context.Context, id string, fields map[string]any) (*models.Property, error) {
	var p models.Property
	err := api.c.call(ctx, propertyPath(id), Request{Method: http.MethodPatch, Body: fields, RequireAuth: true}, &p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (api PropertiesAPI) Delete(ctx context.Context, id string) error {
	_, err := api.c.Do(ctx, propertyPath(id), Request{Method: http.MethodDelete, RequireAuth: true})
	return err
}

func (api PropertiesAPI) Mine(ctx context.Context) ([]models.Property, error) {
	return api.list(ctx, "/properties/my-properties", true)
}

func (api PropertiesAPI) ToggleStatus(ctx context.Context, id string, active bool) error {
	_, err := api.c.Do(ctx, propertyPath(id)+"/toggle-status", Request{
		Method:      http.MethodPatch,
		Body:        map[string]bool{"isActive": active},
		RequireAuth: true,
	})
	return err
}

func (api PropertiesAPI) Favorites(ctx context.Context) ([]models.Property, error) {
	return api.list(ctx, "/properties/favorites", true)
}
