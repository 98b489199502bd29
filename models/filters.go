package models

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

var ErrInvalidFilter = errors.New("invalid search filter")

// SearchFilters is the query shape of a listing or search view.
// Zero values mean "not filtered".
type SearchFilters struct {
	Location     string           `json:"location,omitempty"`
	Type         ListingType      `json:"type,omitempty"`
	PropertyType PropertyCategory `json:"propertyType,omitempty"`
	MinPrice     int64            `json:"minPrice,omitempty"`
	MaxPrice     int64            `json:"maxPrice,omitempty"`
	Bedrooms     int              `json:"bedrooms,omitempty"`
	Bathrooms    int              `json:"bathrooms,omitempty"`
	Amenities    []string         `json:"amenities,omitempty"`
	Limit        int              `json:"limit,omitempty"`
}

func (f SearchFilters) IsZero() bool {
	return f.Location == "" && f.Type == "" && f.PropertyType == "" &&
		f.MinPrice == 0 && f.MaxPrice == 0 && f.Bedrooms == 0 && f.Bathrooms == 0 &&
		len(f.Amenities) == 0 && f.Limit == 0
}

// Query encodes the non-empty fields as backend query parameters.
func (f SearchFilters) Query() url.Values {
	q := url.Values{}
	if loc := strings.TrimSpace(f.Location); loc != "" {
		q.Set("location", loc)
	}
	if f.Type != "" {
		q.Set("type", string(f.Type))
	}
	if f.PropertyType != "" {
		q.Set("propertyType", string(f.PropertyType))
	}
	if f.MinPrice > 0 {
		q.Set("minPrice", strconv.FormatInt(f.MinPrice, 10))
	}
	if f.MaxPrice > 0 {
		q.Set("maxPrice", strconv.FormatInt(f.MaxPrice, 10))
	}
	if f.Bedrooms > 0 {
		q.Set("bedrooms", strconv.Itoa(f.Bedrooms))
	}
	if f.Bathrooms > 0 {
		q.Set("bathrooms", strconv.Itoa(f.Bathrooms))
	}
	if len(f.Amenities) > 0 {
		q.Set("amenities", strings.Join(f.Amenities, ","))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	return q
}

// FiltersFromQuery parses view query parameters. Unknown keys are ignored.
// Invalid parameters are left out of the returned filters and reported
// together in the error, so callers may still use the valid part.
func FiltersFromQuery(q url.Values) (SearchFilters, error) {
	f, problems := ParseFilters(q)
	return f, errors.Join(problems...)
}

// ParseFilters is FiltersFromQuery with the dropped parameters listed one by
// one. Every problem wraps ErrInvalidFilter.
func ParseFilters(q url.Values) (SearchFilters, []error) {
	var (
		f        SearchFilters
		problems []error
	)
	f.Location = strings.TrimSpace(q.Get("location"))

	if v := q.Get("type"); v != "" {
		if t := ListingType(strings.ToLower(v)); t.Valid() {
			f.Type = t
		} else {
			problems = append(problems, fmt.Errorf("%w: type %q", ErrInvalidFilter, v))
		}
	}
	if v := q.Get("propertyType"); v != "" {
		if c := PropertyCategory(strings.ToLower(v)); c.Valid() {
			f.PropertyType = c
		} else {
			problems = append(problems, fmt.Errorf("%w: propertyType %q", ErrInvalidFilter, v))
		}
	}

	for _, b := range []struct {
		key string
		dst *int64
	}{{"minPrice", &f.MinPrice}, {"maxPrice", &f.MaxPrice}} {
		n, err := parseBound(q, b.key)
		if err != nil {
			problems = append(problems, err)
			continue
		}
		*b.dst = n
	}
	if f.MinPrice > 0 && f.MaxPrice > 0 && f.MinPrice > f.MaxPrice {
		problems = append(problems, fmt.Errorf("%w: minPrice exceeds maxPrice", ErrInvalidFilter))
		f.MinPrice, f.MaxPrice = 0, 0
	}

	for _, b := range []struct {
		key string
		dst *int
	}{{"bedrooms", &f.Bedrooms}, {"bathrooms", &f.Bathrooms}, {"limit", &f.Limit}} {
		n, err := parseBound(q, b.key)
		if err != nil {
			problems = append(problems, err)
			continue
		}
		*b.dst = int(n)
	}

	for _, raw := range q["amenities"] {
		for _, term := range strings.Split(raw, ",") {
			if t := strings.TrimSpace(term); t != "" {
				f.Amenities = append(f.Amenities, t)
			}
		}
	}
	return f, problems
}

func parseBound(q url.Values, key string) (int64, error) {
	v := strings.TrimSpace(q.Get(key))
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", ErrInvalidFilter, key)
	}
	return n, nil
}

// Match applies the filters to a single property. It is the only predicate
// used for filtering locally held listings.
func (f SearchFilters) Match(p Property) bool {
	if f.Type != "" && p.Type != f.Type {
		return false
	}
	if f.PropertyType != "" && p.PropertyType != f.PropertyType {
		return false
	}
	if loc := strings.TrimSpace(f.Location); loc != "" &&
		!strings.Contains(strings.ToLower(p.Location), strings.ToLower(loc)) {
		return false
	}
	if f.MinPrice > 0 && p.Price < float64(f.MinPrice) {
		return false
	}
	if f.MaxPrice > 0 && p.Price > float64(f.MaxPrice) {
		return false
	}
	if p.Bedrooms < f.Bedrooms || p.Bathrooms < f.Bathrooms {
		return false
	}
	for _, a := range f.Amenities {
		if !p.HasAmenity(a) {
			return false
		}
	}
	return true
}

// Apply returns the matching properties in order, honoring Limit.
func (f SearchFilters) Apply(props []Property) []Property {
	out := make([]Property, 0, len(props))
	for _, p := range props {
		if !f.Match(p) {
			continue
		}
		out = append(out, p)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out
}
