package oid

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "O12345", Normalize("O12345"))
	assert.Equal(t, "O12345", Normalize("  O12345\n"))
	assert.Equal(t, "", Normalize(""))
	assert.Equal(t, "", Normalize("   "))
	assert.Equal(t, "", Normalize("O-12345"))
	assert.Equal(t, "", Normalize("Ö1"))
	assert.Equal(t, strings.Repeat("a", 32), Normalize(strings.Repeat("a", 32)))
	assert.Equal(t, "", Normalize(strings.Repeat("a", 33)))
}
