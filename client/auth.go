package client

import (
	"context"
	"net/http"

	"github.com/dcode-github/property_listing_web/models"
)

type AuthAPI struct {
	c *Client
}

func (c *Client) Auth() AuthAPI {
	return AuthAPI{c: c}
}

func (api AuthAPI) Register(ctx context.Context, reg models.Registration) (*models.AuthResponse, error) {
	var out models.AuthResponse
	if err := api.c.call(ctx, "/auth/register", Request{Method: http.MethodPost, Body: reg}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (api AuthAPI) Login(ctx context.Context, creds models.Credentials) (*models.AuthResponse, error) {
	var out models.AuthResponse
	if err := api.c.call(ctx, "/auth/login", Request{Method: http.MethodPost, Body: creds}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me fetches the profile behind the current bearer token.
func (api AuthAPI) Me(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := api.c.get(ctx, "/auth/me", true, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (api AuthAPI) UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (*models.User, error) {
	var u models.User
	if err := api.c.call(ctx, "/auth/profile", Request{Method: http.MethodPut, Body: upd, RequireAuth: true}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
