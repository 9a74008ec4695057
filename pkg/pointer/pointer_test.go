package pointer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nathanpasca/manov-sub001/pkg/pointer"
)

func TestValAndFallback(t *testing.T) {
	assert.Equal(t, 0, pointer.Val[int](nil))
	assert.Equal(t, 7, pointer.Val(pointer.To(7)))
	assert.Equal(t, "en", pointer.Fallback(nil, "en"))
	assert.Equal(t, "ja", pointer.Fallback(pointer.To("ja"), "en"))
}

func TestTrimmed(t *testing.T) {
	assert.Nil(t, pointer.Trimmed(nil))
	assert.Nil(t, pointer.Trimmed(pointer.To("   ")))
	assert.Equal(t, "Isekai", *pointer.Trimmed(pointer.To("  Isekai ")))
}
