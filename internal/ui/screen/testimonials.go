package screen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/rogue-runner/internal/testimonial"
	"github.com/rovshanmuradov/rogue-runner/internal/ui"
	"github.com/rovshanmuradov/rogue-runner/internal/ui/component"
	"github.com/rovshanmuradov/rogue-runner/internal/ui/router"
	"github.com/rovshanmuradov/rogue-runner/internal/ui/style"
)

const shownTestimonials = 5

const (
	fieldUsername = iota
	fieldComment
	fieldRating
)

// TestimonialsScreen lists recent reviews and lets the user post one.
type TestimonialsScreen struct {
	board   *testimonial.Board
	logger  *zap.Logger
	keyMap  ui.KeyMap
	helpBar *component.HelpBar
	inputs  []textinput.Model
	focus   int

	status string
	failed bool

	width  int
	height int
}

func NewTestimonialsScreen(services ui.Services) *TestimonialsScreen {
	keyMap := ui.DefaultKeyMap()

	username := textinput.New()
	username.Prompt = "Username: "
	username.Placeholder = "@trader"
	username.CharLimit = 32

	comment := textinput.New()
	comment.Prompt = "Comment:  "
	comment.Placeholder = "How did it go?"
	comment.CharLimit = 500

	rating := textinput.New()
	rating.Prompt = "Rating:   "
	rating.Placeholder = "5"
	rating.CharLimit = 1
	rating.Validate = func(s string) error {
		if s == "" {
			return nil
		}
		if n, err := strconv.Atoi(s); err != nil || n < 1 || n > 5 {
			return testimonial.ErrInvalidRating
		}
		return nil
	}

	s := &TestimonialsScreen{
		board:   services.Board,
		logger:  services.Logger,
		keyMap:  keyMap,
		helpBar: component.NewHelpBar(keyMap.ContextualHelp(ui.RouteTestimonials)),
		inputs:  []textinput.Model{username, comment, rating},
	}
	s.inputs[fieldUsername].Focus()
	return s
}

func (s *TestimonialsScreen) Init() tea.Cmd {
	return textinput.Blink
}

func (s *TestimonialsScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, s.keyMap.Tab):
			s.nextField()
			return s, textinput.Blink
		case key.Matches(msg, s.keyMap.Submit):
			s.Submit()
			return s, nil
		}
	}

	var cmd tea.Cmd
	s.inputs[s.focus], cmd = s.inputs[s.focus].Update(msg)
	return s, cmd
}

func (s *TestimonialsScreen) nextField() {
	s.inputs[s.focus].Blur()
	s.focus = (s.focus + 1) % len(s.inputs)
	s.inputs[s.focus].Focus()
}

// SetField fills one form field: 0 username, 1 comment, 2 rating.
func (s *TestimonialsScreen) SetField(field int, value string) {
	s.inputs[field].SetValue(value)
}

// Submit posts the form. On success the form is cleared.
func (s *TestimonialsScreen) Submit() {
	sub := testimonial.Submission{
		Username: s.inputs[fieldUsername].Value(),
		Comment:  s.inputs[fieldComment].Value(),
	}
	if raw := s.inputs[fieldRating].Value(); raw != "" {
		rating, err := strconv.Atoi(raw)
		if err != nil {
			rating = -1
		}
		sub.Rating = rating
	}

	t, err := s.board.Add(sub)
	if err != nil {
		s.status, s.failed = err.Error(), true
		if !testimonial.IsValidationError(err) {
			s.logger.Error("Failed to add testimonial", zap.Error(err))
		}
		return
	}

	for i := range s.inputs {
		s.inputs[i].Reset()
		s.inputs[i].Blur()
	}
	s.focus = fieldUsername
	s.inputs[s.focus].Focus()
	s.status, s.failed = fmt.Sprintf("Thanks %s, your review was added", t.Username), false
}

// Status is the outcome of the last submission and whether it failed.
func (s *TestimonialsScreen) Status() (string, bool) {
	return s.status, s.failed
}

func (s *TestimonialsScreen) View() string {
	summary := s.board.Summary()
	items := s.board.List()
	if len(items) > shownTestimonials {
		items = items[:shownTestimonials]
	}

	var list []string
	for _, t := range items {
		list = append(list, fmt.Sprintf("%s %s %s\n  %s",
			style.ValueStyle.Render(t.Username),
			style.SuccessStyle.Render(testimonial.Stars(t.Rating)),
			style.LabelStyle.Render(t.Date),
			t.Comment))
	}

	var b strings.Builder
	b.WriteString(style.TitleStyle.Render("Reviews"))
	b.WriteString("\n")
	b.WriteString(style.Row("Average", fmt.Sprintf("%.1f %s from %d reviews",
		summary.Average, testimonial.Stars(summary.Stars), summary.Count)))
	b.WriteString("\n")
	b.WriteString(style.PanelStyle.Render(strings.Join(list, "\n")))
	b.WriteString("\n")
	b.WriteString(style.SubHeaderStyle.Render("Leave a review"))
	b.WriteString("\n")
	for _, in := range s.inputs {
		b.WriteString(in.View())
		b.WriteString("\n")
	}
	if s.status != "" {
		if s.failed {
			b.WriteString(style.ErrorStyle.Render(s.status))
		} else {
			b.WriteString(style.SuccessStyle.Render(s.status))
		}
	}
	b.WriteString(s.helpBar.View())
	return b.String()
}

func (s *TestimonialsScreen) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.helpBar.SetWidth(width)
}
