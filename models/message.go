package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidMessage = errors.New("invalid message")

type Message struct {
	ID         string    `json:"id"`
	PropertyID string    `json:"propertyId"`
	SenderID   string    `json:"senderId"`
	ReceiverID string    `json:"receiverId"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
}

type NewMessage struct {
	PropertyID string `json:"propertyId"`
	ReceiverID string `json:"receiverId"`
	Content    string `json:"content"`
}

func (m NewMessage) Validate() error {
	switch {
	case m.PropertyID == "":
		return fmt.Errorf("%w: propertyId is required", ErrInvalidMessage)
	case m.ReceiverID == "":
		return fmt.Errorf("%w: receiverId is required", ErrInvalidMessage)
	case strings.TrimSpace(m.Content) == "":
		return fmt.Errorf("%w: content must not be empty", ErrInvalidMessage)
	}
	return nil
}
