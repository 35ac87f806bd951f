package category

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuild(t *testing.T) {
	ix := Build([]string{"Leeds", "York", "london", "Egypt", "England"})

	assert.Equal(t, []string{All, "L", "Y", "E"}, ix.Keys())
	assert.Empty(t, ix.Places(All))
	assert.Equal(t, []string{"Leeds", "london"}, ix.Places("L"))
	assert.Equal(t, []string{"Egypt", "England"}, ix.Places("E"))
}

func TestBuildKeepsFirstSeenOrder(t *testing.T) {
	inputs := [][]string{
		{"Zurich", "Athens", "Zagreb", "Berlin"},
		{"b", "a", "B", "c"},
		{"Oslo"},
	}
	for _, in := range inputs {
		ix := Build(in)

		var want []string
		seen := map[string]bool{}
		for _, p := range in {
			k := Key(p)
			if !seen[k] {
				seen[k] = true
				want = append(want, k)
			}
		}
		assert.Equal(t, append([]string{All}, want...), ix.Keys())
		assert.Empty(t, ix.Places(All))
	}
}

func TestBuildKeepsDuplicates(t *testing.T) {
	ix := Build([]string{"York", "York"})
	assert.Equal(t, []string{"York", "York"}, ix.Places("Y"))
}

func TestBuildDropsBlank(t *testing.T) {
	ix := Build([]string{"", "   ", "\t"})
	assert.Equal(t, []string{All}, ix.Keys())
	assert.Equal(t, 1, ix.Len())
}

func TestKey(t *testing.T) {
	assert.Equal(t, "Y", Key("york"))
	assert.Equal(t, "É", Key("égypte"))
	assert.Equal(t, "", Key("  "))
}

func TestDistinct(t *testing.T) {
	assert.Equal(t, []string{"Leeds", "York"}, Distinct([]string{"York", "Leeds", "York", " "}))
	assert.Empty(t, Distinct(nil))
}

func TestEmpty(t *testing.T) {
	ix := Empty()
	assert.Equal(t, []string{All}, ix.Keys())
}
