package models

import (
	"encoding/json"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestFiltersFromQuery(t *testing.T) {
	f, err := FiltersFromQuery(url.Values{
		"location":  {" Pune "},
		"type":      {"SALE"},
		"minPrice":  {"100"},
		"maxPrice":  {"500"},
		"bedrooms":  {"2"},
		"amenities": {"Gym, Pool", "Lift"},
		"unknown":   {"x"},
	})
	require.NoError(t, err)
	assert.Equal(t, SearchFilters{
		Location: "Pune", Type: ListingSale, MinPrice: 100, MaxPrice: 500, Bedrooms: 2,
		Amenities: []string{"Gym", "Pool", "Lift"},
	}, f)

	empty, err := FiltersFromQuery(url.Values{})
	require.NoError(t, err)
	assert.True(t, empty.IsZero())
}

func TestFiltersFromQuery_Errors(t *testing.T) {
	for _, q := range []url.Values{
		{"type": {"lease"}},
		{"propertyType": {"castle"}},
		{"minPrice": {"-1"}},
		{"bedrooms": {"two"}},
		{"minPrice": {"500"}, "maxPrice": {"100"}},
	} {
		_, err := FiltersFromQuery(q)
		assert.ErrorIs(t, err, ErrInvalidFilter, q.Encode())
	}
}

func TestParseFilters_KeepsValidPart(t *testing.T) {
	f, problems := ParseFilters(url.Values{
		"type":      {"commercial"},
		"location":  {"Goa"},
		"minPrice":  {"abc"},
		"maxPrice":  {"900"},
		"bathrooms": {"-2"},
	})
	assert.Equal(t, SearchFilters{Location: "Goa", MaxPrice: 900}, f)
	require.Len(t, problems, 3)
	for _, p := range problems {
		assert.ErrorIs(t, p, ErrInvalidFilter)
	}

	f, problems = ParseFilters(url.Values{"minPrice": {"500"}, "maxPrice": {"100"}, "bedrooms": {"2"}})
	assert.Equal(t, SearchFilters{Bedrooms: 2}, f)
	assert.Len(t, problems, 1)
}

func TestTimestampDecoding(t *testing.T) {
	var p Property
	require.NoError(t, json.Unmarshal([]byte(`{"createdAt":"2024-01-15","price":99.5}`), &p))
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), p.CreatedAt.Time)
	assert.Equal(t, 99.5, p.Price)

	require.NoError(t, json.Unmarshal([]byte(`{"createdAt":null}`), &p))
	assert.True(t, p.CreatedAt.IsZero())

	var props []Property
	require.NoError(t, yaml.Unmarshal([]byte("- id: a\n  createdAt: 2024-01-15T10:00:00Z\n"), &props))
	assert.Equal(t, 10, props[0].CreatedAt.Hour())

	out, err := json.Marshal(Property{CreatedAt: Timestamp{time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)}})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"createdAt":"2024-01-15T10:00:00Z"`)
}

func TestFiltersQuery(t *testing.T) {
	f := SearchFilters{Location: "Goa", PropertyType: CategoryVilla, MaxPrice: 9000, Amenities: []string{"Pool", "Garden"}}
	q := f.Query()
	assert.Equal(t, "Goa", q.Get("location"))
	assert.Equal(t, "villa", q.Get("propertyType"))
	assert.Equal(t, "9000", q.Get("maxPrice"))
	assert.Equal(t, "Pool,Garden", q.Get("amenities"))
	assert.False(t, q.Has("type"))
	assert.False(t, q.Has("minPrice"))

	assert.Empty(t, SearchFilters{}.Query())
}

func TestFiltersMatch(t *testing.T) {
	p := Property{
		Type: ListingRent, PropertyType: CategoryApartment, Location: "Koramangala, Bangalore",
		Price: 35000, Bedrooms: 2, Bathrooms: 2, Amenities: []string{"Parking", "Gym"},
	}
	tests := []struct {
		name string
		f    SearchFilters
		want bool
	}{
		{"no filters", SearchFilters{}, true},
		{"type", SearchFilters{Type: ListingSale}, false},
		{"category", SearchFilters{PropertyType: CategoryApartment}, true},
		{"location substring ignores case", SearchFilters{Location: "bangalore"}, true},
		{"location miss", SearchFilters{Location: "Delhi"}, false},
		{"price in range", SearchFilters{MinPrice: 30000, MaxPrice: 40000}, true},
		{"price too low", SearchFilters{MinPrice: 40000}, false},
		{"bedroom minimum", SearchFilters{Bedrooms: 3}, false},
		{"amenity ignores case", SearchFilters{Amenities: []string{"gym"}}, true},
		{"missing amenity", SearchFilters{Amenities: []string{"Pool"}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.f.Match(p))
		})
	}
}

func TestFiltersApply_Limit(t *testing.T) {
	props := []Property{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	out := SearchFilters{Limit: 2}.Apply(props)
	require.Len(t, out, 2)
	assert.Equal(t, "a", out[0].ID)

	assert.NotNil(t, SearchFilters{Type: ListingSale}.Apply(props))
}

func TestPropertyInputValidate(t *testing.T) {
	valid := PropertyInput{
		Title: "Flat", Location: "Pune", Type: ListingRent, PropertyType: CategoryApartment, Price: 1, Area: 10,
	}
	assert.NoError(t, valid.Validate())

	for name, mutate := range map[string]func(*PropertyInput){
		"title":    func(in *PropertyInput) { in.Title = " " },
		"location": func(in *PropertyInput) { in.Location = "" },
		"type":     func(in *PropertyInput) { in.Type = "lease" },
		"category": func(in *PropertyInput) { in.PropertyType = "" },
		"price":    func(in *PropertyInput) { in.Price = -1 },
		"rooms":    func(in *PropertyInput) { in.Bedrooms = -1 },
		"area":     func(in *PropertyInput) { in.Area = 0 },
	} {
		t.Run(name, func(t *testing.T) {
			in := valid
			mutate(&in)
			assert.ErrorIs(t, in.Validate(), ErrInvalidProperty)
		})
	}
}

func TestNewMessageValidate(t *testing.T) {
	assert.NoError(t, NewMessage{PropertyID: "p", ReceiverID: "u", Content: "Hi"}.Validate())
	assert.ErrorIs(t, NewMessage{PropertyID: "p", ReceiverID: "u", Content: "  "}.Validate(), ErrInvalidMessage)
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleOwner.Valid())
	assert.True(t, RoleSeeker.Valid())
	assert.False(t, Role("admin").Valid())
}
