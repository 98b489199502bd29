package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Endpoint is one connectivity check target. Root paths are resolved against the
// backend's origin instead of the API base.
type Endpoint struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Root bool   `json:"root,omitempty"`
}

// DefaultEndpoints are checked by the connectivity report.
var DefaultEndpoints = []Endpoint{
	{Name: "Health Check", Path: "/health", Root: true},
	{Name: "Properties API", Path: "/properties"},
	{Name: "Auth API", Path: "/auth/test"},
}

type EndpointResult struct {
	Name    string `json:"name"`
	URL     string `json:"url"`
	OK      bool   `json:"ok"`
	Status  int    `json:"status,omitempty"`
	Message string `json:"message"`
}

// CheckEndpoints issues one GET per endpoint and reports how each one answered.
// Failures are part of the report, never returned.
func (c *Client) CheckEndpoints(ctx context.Context, endpoints []Endpoint) []EndpointResult {
	results := make([]EndpointResult, 0, len(endpoints))
	for _, ep := range endpoints {
		target := c.URL(ep.Path)
		if ep.Root {
			target = c.RootURL(ep.Path)
		}
		res := EndpointResult{Name: ep.Name, URL: target}
		resp, err := c.Do(ctx, target, Request{Headers: map[string]string{"Accept": "application/json"}})

		var serr *StatusError
		switch {
		case err == nil:
			res.OK = true
			res.Status = resp.StatusCode
			res.Message = fmt.Sprintf("Success (%d)", resp.StatusCode)
		case errors.As(err, &serr):
			res.Status = serr.Status
			res.Message = fmt.Sprintf("Error %d: %s", serr.Status, http.StatusText(serr.Status))
		default:
			res.Message = "Network Error"
		}
		results = append(results, res)
	}
	return results
}
