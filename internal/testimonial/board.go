// internal/testimonial/board.go
package testimonial

import (
	"errors"
	"math"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/rogue-runner/internal/clock"
	"github.com/rovshanmuradov/rogue-runner/internal/content"
)

const (
	dateLayout    = "2006-01-02"
	defaultRating = 5
	maxUsername   = 32
	maxComment    = 500
)

var (
	ErrMissingUsername = errors.New("username is required")
	ErrMissingComment  = errors.New("comment is required")
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
	ErrTooLong         = errors.New("username or comment is too long")
)

type Testimonial struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Comment  string `json:"comment"`
	Rating   int    `json:"rating"`
	Date     string `json:"date"`
}

// Submission is what a visitor sends. A zero Rating means the default of 5.
type Submission struct {
	Username string `json:"username"`
	Comment  string `json:"comment"`
	Rating   int    `json:"rating"`
}

type Summary struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
	Stars   int     `json:"stars"`
}

// Board is an in-memory, newest-first list of testimonials.
type Board struct {
	mu     sync.RWMutex
	items  []Testimonial
	clock  clock.Clock
	logger *zap.Logger
}

func NewBoard(seed []content.Testimonial, clk clock.Clock, logger *zap.Logger) *Board {
	items := make([]Testimonial, 0, len(seed))
	for _, s := range seed {
		items = append(items, Testimonial{
			ID:       uuid.NewString(),
			Username: normaliseUsername(s.Username),
			Comment:  s.Comment,
			Rating:   s.Rating,
			Date:     s.Date,
		})
	}
	return &Board{items: items, clock: clk, logger: logger}
}

// Add validates a submission and prepends it.
func (b *Board) Add(sub Submission) (Testimonial, error) {
	username := strings.TrimSpace(sub.Username)
	comment := strings.TrimSpace(sub.Comment)

	switch {
	case username == "" || username == "@":
		return Testimonial{}, ErrMissingUsername
	case comment == "":
		return Testimonial{}, ErrMissingComment
	case len(username) > maxUsername || len(comment) > maxComment:
		return Testimonial{}, ErrTooLong
	}

	rating := sub.Rating
	if rating == 0 {
		rating = defaultRating
	}
	if rating < 1 || rating > 5 {
		return Testimonial{}, ErrInvalidRating
	}

	t := Testimonial{
		ID:       uuid.NewString(),
		Username: normaliseUsername(username),
		Comment:  comment,
		Rating:   rating,
		Date:     b.clock.Now().UTC().Format(dateLayout),
	}

	b.mu.Lock()
	b.items = append([]Testimonial{t}, b.items...)
	count := len(b.items)
	b.mu.Unlock()

	b.logger.Info("Testimonial added",
		zap.String("username", t.Username),
		zap.Int("rating", t.Rating),
		zap.Int("count", count))
	return t, nil
}

func normaliseUsername(u string) string {
	if strings.HasPrefix(u, "@") {
		return u
	}
	return "@" + u
}

// List returns a copy, newest first.
func (b *Board) List() []Testimonial {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Testimonial, len(b.items))
	copy(out, b.items)
	return out
}

// Summary reports the average rating, rounded to one decimal, and the count.
func (b *Board) Summary() Summary {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if len(b.items) == 0 {
		return Summary{}
	}
	total := 0
	for _, t := range b.items {
		total += t.Rating
	}
	avg := float64(total) / float64(len(b.items))
	return Summary{
		Average: math.Round(avg*10) / 10,
		Count:   len(b.items),
		Stars:   int(math.Round(avg)),
	}
}

// IsValidationError reports whether err came from Add's input checks.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrMissingUsername) || errors.Is(err, ErrMissingComment) ||
		errors.Is(err, ErrInvalidRating) || errors.Is(err, ErrTooLong)
}

// Stars renders a rating as filled and empty stars.
func Stars(rating int) string {
	if rating < 0 {
		rating = 0
	}
	if rating > 5 {
		rating = 5
	}
	return strings.Repeat("★", rating) + strings.Repeat("☆", 5-rating)
}

