package fallback

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dcode-github/property_listing_web/models"
)

//go:embed sample.yaml
var sampleYAML []byte

var defaultSample = mustParseSample(sampleYAML)

func mustParseSample(data []byte) []models.Property {
	props, err := ParseSample(data)
	if err != nil {
		panic(err)
	}
	return props
}

// ParseSample decodes a YAML list of properties.
func ParseSample(data []byte) ([]models.Property, error) {
	var props []models.Property
	if err := yaml.Unmarshal(data, &props); err != nil {
		return nil, fmt.Errorf("failed to parse sample dataset: %w", err)
	}
	if len(props) == 0 {
		return nil, fmt.Errorf("sample dataset is empty")
	}
	return props, nil
}

// LoadSample reads a sample dataset from a YAML file.
func LoadSample(path string) ([]models.Property, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sample dataset %s: %w", path, err)
	}
	return ParseSample(data)
}

// Sample returns a copy of the built-in dataset.
func Sample() []models.Property {
	return clone(defaultSample)
}

func clone(props []models.Property) []models.Property {
	out := make([]models.Property, len(props))
	for i, p := range props {
		p.Images = append([]string(nil), p.Images...)
		p.Amenities = append([]string(nil), p.Amenities...)
		out[i] = p
	}
	return out
}
