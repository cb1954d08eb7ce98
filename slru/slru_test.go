package slru

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hintlfu/hintlfu"
)

func TestNew(t *testing.T) {
	assert.Panics(t, func() { New(0, 1) })
	assert.Panics(t, func() { New(1, 0) })
	assert.Equal(t, 5, New(2, 3).Capacity())
}

func TestRecord(t *testing.T) {
	stats := hintlfu.NewStats()
	c := New(1, 1, WithRecorder(stats))

	assert.False(t, c.Record(1))
	assert.False(t, c.Record(2))
	assert.False(t, c.Contains(3), "Contains nonexistent")

	assert.True(t, c.Record(1), "Get first during probation")
	assert.True(t, c.Record(1), "Get first after promotion")
	assert.True(t, c.Record(2), "Get second during probation")
	assert.True(t, c.Record(1), "Get first after demotion")

	assert.Equal(t, uint64(4), stats.Hits())
	assert.Equal(t, uint64(2), stats.Misses())
	assert.Equal(t, uint64(0), stats.Evictions())
}

func TestPromotionDemotes(t *testing.T) {
	stats := hintlfu.NewStats()
	c := New(1, 1, WithRecorder(stats))
	c.Record(1)
	c.Record(2)
	c.Record(1) // Promote the first key.
	c.Record(2) // Promote the second key, demoting the first.

	// The first key is now the oldest probationary entry and makes room for a new key.
	c.Record(3)
	assert.False(t, c.Contains(1))
	assert.True(t, c.Contains(2))
	assert.True(t, c.Contains(3))
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, uint64(1), stats.Evictions())
}

func TestEviction(t *testing.T) {

	tests := []struct {
		Name          string
		Gets          []uint64
		ExpectedEvict uint64
	}{
		{"all_probational", nil, 0},
		{"half_promoted", []uint64{0, 1}, 2},
		{"each_accessed_once", []uint64{0, 1, 2, 3}, 0},
		{"each_accessed_reverse", []uint64{3, 2, 1, 0}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			stats := hintlfu.NewStats()
			c := New(2, 2, WithRecorder(stats))

			for key := uint64(0); key < 4; key++ {
				c.Record(key)
			}
			for _, key := range tt.Gets {
				c.Record(key)
			}

			c.Record(100)
			require.Equal(t, uint64(1), stats.Evictions())
			require.Equal(t, 4, c.Len())
			require.True(t, c.Contains(100))

			for key := uint64(0); key < 4; key++ {
				if key == tt.ExpectedEvict {
					assert.False(t, c.Contains(key))
				} else {
					assert.True(t, c.Contains(key))
				}
			}
		})
	}
}

func TestNoEvictionBelowCapacity(t *testing.T) {
	stats := hintlfu.NewStats()
	c := New(2, 2, WithAdmission(&rejectAll{}), WithRecorder(stats))
	for key := uint64(0); key < 4; key++ {
		c.Record(key)
	}
	assert.Equal(t, 4, c.Len())
	assert.Equal(t, uint64(0), stats.Evictions())
}

type rejectAll struct{ recorded int }

func (r *rejectAll) Record(uint64)              { r.recorded++ }
func (r *rejectAll) Admit(uint64, uint64) bool { return false }

func TestAdmission(t *testing.T) {
	admittor := &rejectAll{}
	stats := hintlfu.NewStats()
	c := New(1, 1, WithAdmission(admittor), WithRecorder(stats))
	c.Record(1)
	c.Record(2)

	assert.False(t, c.Record(3))
	assert.False(t, c.Contains(3))
	assert.True(t, c.Contains(1))
	assert.True(t, c.Contains(2))
	assert.Equal(t, 3, admittor.recorded)
	assert.Equal(t, uint64(0), stats.Evictions())
}

func TestTinyLFUAdmission(t *testing.T) {
	s, err := hintlfu.ParseSettings("maximum-size=4")
	require.NoError(t, err)
	stats := hintlfu.NewStats()
	admittor, err := hintlfu.NewTinyLFU(s, stats)
	require.NoError(t, err)
	c := New(2, 2, WithAdmission(admittor), WithRecorder(stats))

	for i := 0; i < 5; i++ {
		for key := uint64(0); key < 4; key++ {
			c.Record(key)
		}
	}
	// A one-off key is less frequent than any resident victim.
	c.Record(100)
	assert.False(t, c.Contains(100))
	assert.Equal(t, uint64(1), stats.Rejections())
	assert.Equal(t, 4, c.Len())
}
