package models

import (
	"encoding/json"
	"fmt"
)

const (
	DefaultCategory = "Uncategorized"
	DefaultImageURL = "https://via.placeholder.com/400"
)

// ProductMeta holds the optional descriptive fields of a product. Keys it does not know
// about are kept in Extra so older records survive a read-modify-write.
type ProductMeta struct {
	Category    string         `json:"category,omitempty"`
	ImageURL    string         `json:"image_url,omitempty"`
	WeightGrams *int           `json:"weight_grams,omitempty"`
	Featured    bool           `json:"is_featured,omitempty"`
	Extra       map[string]any `json:"-"`
}

var knownMetaKeys = map[string]struct{}{
	"category":     {},
	"image_url":    {},
	"weight_grams": {},
	"is_featured":  {},
}

// CategoryOrDefault returns the category, falling back to DefaultCategory.
func (m ProductMeta) CategoryOrDefault() string {
	if m.Category == "" {
		return DefaultCategory
	}
	return m.Category
}

// ImageURLOrDefault returns the image reference, falling back to a placeholder.
func (m ProductMeta) ImageURLOrDefault() string {
	if m.ImageURL == "" {
		return DefaultImageURL
	}
	return m.ImageURL
}

func (m ProductMeta) MarshalJSON() ([]byte, error) {
	type known ProductMeta
	base, err := json.Marshal(known(m))
	if err != nil {
		return nil, err
	}
	if len(m.Extra) == 0 {
		return base, nil
	}

	merged := make(map[string]any, len(m.Extra)+len(knownMetaKeys))
	for k, v := range m.Extra {
		if _, ok := knownMetaKeys[k]; ok {
			continue
		}
		merged[k] = v
	}
	var fields map[string]any
	if err := json.Unmarshal(base, &fields); err != nil {
		return nil, err
	}
	for k, v := range fields {
		merged[k] = v
	}
	return json.Marshal(merged)
}

func (m *ProductMeta) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*m = ProductMeta{}
		return nil
	}

	type known ProductMeta
	var k known
	if err := json.Unmarshal(data, &k); err != nil {
		return fmt.Errorf("failed to decode product meta: %w", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to decode product meta: %w", err)
	}

	*m = ProductMeta(k)
	for key, v := range raw {
		if _, ok := knownMetaKeys[key]; ok {
			continue
		}
		if m.Extra == nil {
			m.Extra = make(map[string]any)
		}
		m.Extra[key] = v
	}
	return nil
}
