package client

import (
	"bytes"
	"encoding/json"
	"mime"
	"net/http"
	"strings"
)

// Response is a successful backend reply with its body fully read.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// IsJSON reports whether the declared content type is JSON.
func (r *Response) IsJSON() bool {
	return isJSONContentType(r.Header.Get("Content-Type"))
}

func isJSONContentType(ct string) bool {
	if ct == "" {
		return false
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return strings.Contains(strings.ToLower(ct), "application/json")
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}

func (r *Response) Text() string {
	return string(r.Body)
}

// Value returns the parsed JSON body when the response declares JSON and the
// raw text otherwise.
func (r *Response) Value() (any, error) {
	if !r.IsJSON() {
		return r.Text(), nil
	}
	if len(bytes.TrimSpace(r.Body)) == 0 {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal(r.Body, &v); err != nil {
		return nil, shapeError("invalid json body: %v", err)
	}
	return v, nil
}

// Decode unmarshals a JSON body into v.
func (r *Response) Decode(v any) error {
	if !r.IsJSON() {
		return shapeError("expected application/json, got %q", r.Header.Get("Content-Type"))
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return shapeError("invalid json body: %v", err)
	}
	return nil
}
