package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nathanpasca/manov-sub001/pkg/slug"
)

func TestFrom(t *testing.T) {
	tests := map[string]string{
		"The Beginning After The End": "the-beginning-after-the-end",
		"  Re:Zero -- Starting Life ": "re-zero-starting-life",
		"Café Crème":                  "cafe-creme",
		"転生したらスライムだった件":               "",
		"Lord of the Mysteries (2)":   "lord-of-the-mysteries-2",
	}

	for input, want := range tests {
		t.Run(input, func(t *testing.T) {
			assert.Equal(t, want, slug.From(input))
		})
	}
}
