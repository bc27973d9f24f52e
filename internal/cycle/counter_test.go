package cycle

import (
	"testing"

	"validation/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestCounter_StartsAtZero(t *testing.T) {
	c := NewCounter()
	assert.Equal(t, models.Counts{}, c.Snapshot())
}

func TestCounter_ResetKTimes(t *testing.T) {
	for _, k := range []int{1, 2, 7} {
		c := NewCounter()
		for i := 0; i < k; i++ {
			c.Reset()
		}

		got := c.Snapshot()
		assert.Equal(t, k, got.Total)
		assert.Equal(t, k, got.Incorrect)
		assert.Equal(t, 0, got.Correct)
		assert.Equal(t, ResetStatus, got.Status)
	}
}

func TestCounter_NotifiesAfterEachReset(t *testing.T) {
	c := NewCounter()

	var seen []models.Counts
	c.OnChange(func(counts models.Counts) {
		seen = append(seen, counts)
	})

	c.Reset()
	c.Reset()

	assert.Equal(t, []models.Counts{
		{Total: 1, Incorrect: 1, Status: "Cycle Reset"},
		{Total: 2, Incorrect: 2, Status: "Cycle Reset"},
	}, seen)
}

func TestCounter_ListenerMayReadSnapshot(t *testing.T) {
	c := NewCounter()

	var total int
	c.OnChange(func(models.Counts) {
		total = c.Snapshot().Total
	})

	c.Reset()
	assert.Equal(t, 1, total)
}
