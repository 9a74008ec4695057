package locale_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathanpasca/manov-sub001/internal/core/locale"
)

func TestResolve(t *testing.T) {
	available := []string{"en", "pt", "id"}

	tests := []struct {
		name       string
		requested  string
		original   string
		resolved   string
		fallback   bool
		translated bool
	}{
		{"nothing requested", "", "ja", "ja", false, false},
		{"original requested", "JA", "ja", "ja", false, false},
		{"exact translation", "en", "ja", "en", false, true},
		{"case insensitive", "ID", "ja", "id", false, true},
		{"regional original", "ja-JP", "ja", "ja", false, false},
		{"base translation", "pt-BR", "ja", "pt", false, true},
		{"missing falls back", "fr", "ja", "ja", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolution := locale.Resolve(tt.requested, tt.original, available)
			assert.Equal(t, tt.resolved, resolution.Resolved)
			assert.Equal(t, tt.fallback, resolution.FallbackUsed)
			assert.Equal(t, tt.translated, resolution.Translated())
			assert.Equal(t, tt.original, resolution.Original)
		})
	}
}

func TestResolve_Available(t *testing.T) {
	resolution := locale.Resolve("", "ko", []string{"id", "en", "ko"})
	assert.Equal(t, []string{"ko", "en", "id"}, resolution.Available)
}

type row struct {
	Code  string
	Title string
}

func TestSelect(t *testing.T) {
	rows := []row{{"en", "Solo Leveling"}, {"id", "Solo Leveling (ID)"}}
	code := func(r row) string { return r.Code }

	chosen, resolution := locale.Select("en", "ko", rows, code)
	require.NotNil(t, chosen)
	assert.Equal(t, "Solo Leveling", chosen.Title)
	assert.False(t, resolution.FallbackUsed)

	chosen, resolution = locale.Select("de", "ko", rows, code)
	assert.Nil(t, chosen)
	assert.True(t, resolution.FallbackUsed)

	chosen, _ = locale.Select("", "ko", rows, code)
	assert.Nil(t, chosen)

	chosen, resolution = locale.Select("en", "ko", []row(nil), code)
	assert.Nil(t, chosen)
	assert.True(t, resolution.FallbackUsed)
}

func TestBase(t *testing.T) {
	assert.Equal(t, "pt", locale.Base("pt-BR"))
	assert.Equal(t, "zh", locale.Base("zh_Hant"))
	assert.Equal(t, "en", locale.Base("en"))
}
