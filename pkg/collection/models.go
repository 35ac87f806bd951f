package collection

import "strings"

// Record is one museum object returned by the search API. Optional fields
// are pointers so that a missing key can be told apart from an empty value.
type Record struct {
	Place          *string `json:"place,omitempty"`
	Title          *string `json:"title,omitempty"`
	Object         *string `json:"object,omitempty"`
	Location       *string `json:"location,omitempty"`
	Artist         *string `json:"artist,omitempty"`
	DateText       *string `json:"date_text,omitempty"`
	ObjectNumber   *string `json:"object_number,omitempty"`
	PrimaryImageID string  `json:"primary_image_id"`
}

// searchResponse is the body of a search call
type searchResponse struct {
	Records []struct {
		Fields Record `json:"fields"`
	} `json:"records"`
}

// Value returns the field value, empty when the key is absent.
func Value(field *string) string {
	if field == nil {
		return ""
	}
	return *field
}

// Present reports whether the key exists and holds a non-blank value.
func Present(field *string) bool {
	return field != nil && strings.TrimSpace(*field) != ""
}

// String is a convenience for building records in code.
func String(s string) *string {
	return &s
}

// PlaceName returns the place, empty when missing.
func (r Record) PlaceName() string {
	return Value(r.Place)
}
