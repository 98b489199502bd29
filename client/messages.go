package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dcode-github/property_listing_web/models"
)

type MessagesAPI struct {
	c *Client
}

func (c *Client) Messages() MessagesAPI {
	return MessagesAPI{c: c}
}

func (api MessagesAPI) ByProperty(ctx context.Context, propertyID string) ([]models.Message, error) {
	path := "/messages?" + url.Values{"propertyId": {propertyID}}.Encode()
	var msgs []models.Message
	if err := api.c.get(ctx, path, true, &msgs); err != nil {
		return nil, err
	}
	if msgs == nil {
		msgs = []models.Message{}
	}
	return msgs, nil
}

func (api MessagesAPI) Send(ctx context.Context, msg models.NewMessage) (*models.Message, error) {
	var out models.Message
	if err := api.c.call(ctx, "/messages", Request{Method: http.MethodPost, Body: msg, RequireAuth: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
