package testimonial

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/rogue-runner/internal/clock"
	"github.com/rovshanmuradov/rogue-runner/internal/content"
)

func newBoard(t *testing.T) (*Board, *clock.Fake) {
	t.Helper()
	clk := clock.NewFake(time.Date(2024, 6, 12, 23, 30, 0, 0, time.UTC))
	return NewBoard(content.MustLoad().Testimonials, clk, zap.NewNop()), clk
}

func TestSeed(t *testing.T) {
	b, _ := newBoard(t)
	items := b.List()
	require.Len(t, items, 3)
	assert.Equal(t, "@crypto_trader_99", items[0].Username)

	s := b.Summary()
	assert.Equal(t, 3, s.Count)
	assert.Equal(t, 4.7, s.Average)
	assert.Equal(t, 5, s.Stars)
}

func TestAddNormalises(t *testing.T) {
	b, _ := newBoard(t)

	got, err := b.Add(Submission{Username: "  moon_boy ", Comment: " to the moon  "})
	require.NoError(t, err)
	assert.Equal(t, "@moon_boy", got.Username)
	assert.Equal(t, "to the moon", got.Comment)
	assert.Equal(t, 5, got.Rating)
	assert.Equal(t, "2024-06-12", got.Date)
	assert.NotEmpty(t, got.ID)

	items := b.List()
	require.Len(t, items, 4)
	assert.Equal(t, got, items[0], "newest first")

	got, err = b.Add(Submission{Username: "@already", Comment: "ok", Rating: 3})
	require.NoError(t, err)
	assert.Equal(t, "@already", got.Username)
	assert.Equal(t, 3, got.Rating)

	assert.Equal(t, 5, b.Summary().Count)
	assert.Equal(t, 4.4, b.Summary().Average)
}

func TestAddValidation(t *testing.T) {
	b, _ := newBoard(t)

	cases := []struct {
		sub  Submission
		want error
	}{
		{Submission{Username: "", Comment: "x"}, ErrMissingUsername},
		{Submission{Username: " @ ", Comment: "x"}, ErrMissingUsername},
		{Submission{Username: "a", Comment: "   "}, ErrMissingComment},
		{Submission{Username: "a", Comment: "x", Rating: 6}, ErrInvalidRating},
		{Submission{Username: "a", Comment: "x", Rating: -1}, ErrInvalidRating},
		{Submission{Username: "a", Comment: string(make([]byte, 501))}, ErrTooLong},
	}
	for _, tc := range cases {
		_, err := b.Add(tc.sub)
		assert.ErrorIs(t, err, tc.want)
		assert.True(t, IsValidationError(err))
	}
	assert.Len(t, b.List(), 3, "rejected submissions are not stored")
}

func TestConcurrentAdd(t *testing.T) {
	b, _ := newBoard(t)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := b.Add(Submission{Username: "u", Comment: "c", Rating: 4})
			assert.NoError(t, err)
			_ = b.Summary()
		}()
	}
	wg.Wait()
	assert.Len(t, b.List(), 23)
}

func TestEmptySummary(t *testing.T) {
	b := NewBoard(nil, clock.NewFake(time.Now()), zap.NewNop())
	assert.Equal(t, Summary{}, b.Summary())
}

func TestStars(t *testing.T) {
	assert.Equal(t, "★★★★☆", Stars(4))
	assert.Equal(t, "☆☆☆☆☆", Stars(-2))
	assert.Equal(t, "★★★★★", Stars(9))
}
