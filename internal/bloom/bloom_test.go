package bloom

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddThenCheck(t *testing.T) {
	f := New(1<<16, 1<<15, 4, 0xabc123)

	f.Add([]byte("src/main.go"))
	assert.True(t, f.Check([]byte("src/main.go")))
}

func TestCheckAbsentIsUsuallyFalse(t *testing.T) {
	f := New(1<<16, 1<<15, 4, 0xabc123)

	f.Add([]byte("src/main.go"))

	falsePositives := 0
	for i := 0; i < 1000; i++ {
		candidate := []byte(fmt.Sprintf("nonexistent/path/%d.go", i))
		if f.Check(candidate) {
			falsePositives++
		}
	}
	// Sparse filter at this load factor should have a very low false
	// positive rate; assert it stays well under 5%.
	require.Less(t, falsePositives, 50)
}

func TestSecondaryIndependentOfPrimary(t *testing.T) {
	f := New(1<<16, 1<<15, 4, 42)

	f.Add([]byte("a.go"))
	assert.True(t, f.Check([]byte("a.go")))
	assert.False(t, f.CheckSecondary([]byte("a.go")))

	f.UpdateSecondary([]byte("a.go"))
	assert.True(t, f.CheckSecondary([]byte("a.go")))
}

func TestClearResetsBothFilters(t *testing.T) {
	f := New(1<<12, 1<<11, 3, 7)

	f.Add([]byte("x"))
	f.UpdateSecondary([]byte("x"))
	require.True(t, f.Check([]byte("x")))
	require.True(t, f.CheckSecondary([]byte("x")))

	f.Clear()
	assert.False(t, f.Check([]byte("x")))
	assert.False(t, f.CheckSecondary([]byte("x")))
}

func TestDifferentSeedsProduceDifferentFilters(t *testing.T) {
	a := New(1<<12, 1<<11, 4, 1)
	b := New(1<<12, 1<<11, 4, 2)

	a.Add([]byte("same-key"))
	b.Add([]byte("same-key"))

	// Both should report membership for their own insert regardless of seed.
	assert.True(t, a.Check([]byte("same-key")))
	assert.True(t, b.Check([]byte("same-key")))
	// The same key lands on different primary bits under different seeds.
	assert.NotEqual(t, a.primary, b.primary)
}
