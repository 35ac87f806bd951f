package record

import (
	"strings"

	"github.com/iziplay/gallery/pkg/collection"
)

// AltText describes a record for assistive technology. Each present field
// becomes a short labelled clause terminated by a semicolon.
func AltText(r collection.Record) string {
	clauses := []struct {
		label string
		value *string
	}{
		{"object type: ", r.Object},
		{"found in ", r.Place},
		{"titled ", r.Title},
		{"current location: ", r.Location},
		{"made by: ", r.Artist},
		{"created: ", r.DateText},
	}

	var b strings.Builder
	for _, c := range clauses {
		if !collection.Present(c.value) {
			continue
		}
		b.WriteString(c.label)
		b.WriteString(*c.value)
		b.WriteString(";")
	}
	return b.String()
}

// Tag normalises a place into the category tag matched by filters.
func Tag(place string) string {
	return collection.EncodeURI(strings.TrimSpace(strings.ToLower(place)))
}
