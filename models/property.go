package models

import (
	"errors"
	"fmt"
	"strings"
)

type ListingType string

const (
	ListingRent ListingType = "rent"
	ListingSale ListingType = "sale"
)

func (t ListingType) Valid() bool {
	return t == ListingRent || t == ListingSale
}

type PropertyCategory string

const (
	CategoryApartment PropertyCategory = "apartment"
	CategoryHouse     PropertyCategory = "house"
	CategoryVilla     PropertyCategory = "villa"
	CategoryOffice    PropertyCategory = "office"
)

func (c PropertyCategory) Valid() bool {
	switch c {
	case CategoryApartment, CategoryHouse, CategoryVilla, CategoryOffice:
		return true
	}
	return false
}

type Owner struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Email string `json:"email" yaml:"email"`
	Phone string `json:"phone,omitempty" yaml:"phone,omitempty"`
}

// Counts mirrors the backend's aggregate block on owner listings.
type Counts struct {
	Messages int `json:"messages" yaml:"messages"`
}

// Property is a read-only copy of a backend listing.
type Property struct {
	ID           string           `json:"id" yaml:"id"`
	Title        string           `json:"title" yaml:"title"`
	Description  string           `json:"description" yaml:"description"`
	Price        float64          `json:"price" yaml:"price"`
	Location     string           `json:"location" yaml:"location"`
	Type         ListingType      `json:"type" yaml:"type"`
	PropertyType PropertyCategory `json:"propertyType" yaml:"propertyType"`
	Images       []string         `json:"images" yaml:"images"`
	Bedrooms     int              `json:"bedrooms" yaml:"bedrooms"`
	Bathrooms    int              `json:"bathrooms" yaml:"bathrooms"`
	Area         float64          `json:"area" yaml:"area"`
	Amenities    []string         `json:"amenities,omitempty" yaml:"amenities,omitempty"`
	IsActive     bool             `json:"isActive" yaml:"isActive"`
	CreatedAt    Timestamp        `json:"createdAt" yaml:"createdAt"`
	Owner        Owner            `json:"owner" yaml:"owner"`
	Count        *Counts          `json:"_count,omitempty" yaml:"-"`
}

// HasAmenity reports whether the amenity is listed, ignoring case.
func (p Property) HasAmenity(name string) bool {
	for _, a := range p.Amenities {
		if strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(name)) {
			return true
		}
	}
	return false
}

// Inquiries is the number of messages the backend counted for the listing.
func (p Property) Inquiries() int {
	if p.Count == nil {
		return 0
	}
	return p.Count.Messages
}

var ErrInvalidProperty = errors.New("invalid property")

// PropertyInput is the create/update form for a listing.
type PropertyInput struct {
	Title        string           `json:"title"`
	Description  string           `json:"description"`
	Type         ListingType      `json:"type"`
	PropertyType PropertyCategory `json:"propertyType"`
	Location     string           `json:"location"`
	Price        int64            `json:"price"`
	Bedrooms     int              `json:"bedrooms"`
	Bathrooms    int              `json:"bathrooms"`
	Area         float64          `json:"area"`
	Amenities    []string         `json:"amenities"`
}

func (in PropertyInput) Validate() error {
	switch {
	case strings.TrimSpace(in.Title) == "":
		return fmt.Errorf("%w: title is required", ErrInvalidProperty)
	case strings.TrimSpace(in.Location) == "":
		return fmt.Errorf("%w: location is required", ErrInvalidProperty)
	case !in.Type.Valid():
		return fmt.Errorf("%w: unknown listing type %q", ErrInvalidProperty, in.Type)
	case !in.PropertyType.Valid():
		return fmt.Errorf("%w: unknown property type %q", ErrInvalidProperty, in.PropertyType)
	case in.Price < 0:
		return fmt.Errorf("%w: price must not be negative", ErrInvalidProperty)
	case in.Bedrooms < 0 || in.Bathrooms < 0:
		return fmt.Errorf("%w: room counts must not be negative", ErrInvalidProperty)
	case in.Area <= 0:
		return fmt.Errorf("%w: area must be positive", ErrInvalidProperty)
	}
	return nil
}

// ImageUpload is one image file attached to a create request.
type ImageUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}
