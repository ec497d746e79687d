package ui

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

const (
	defaultRestartDelay = 2 * time.Second
	defaultMaxRestarts  = 5
)

// ProgramFactory builds a fresh model and its options for every run.
type ProgramFactory func() (tea.Model, []tea.ProgramOption)

// Supervisor runs a bubbletea program and restarts it when it crashes. A
// clean exit or a cancelled context ends supervision.
type Supervisor struct {
	create       ProgramFactory
	logger       *zap.Logger
	restartDelay time.Duration
	maxRestarts  int

	mu       sync.Mutex
	program  *tea.Program
	restarts int
}

func NewSupervisor(create ProgramFactory, logger *zap.Logger) *Supervisor {
	return &Supervisor{
		create:       create,
		logger:       logger,
		restartDelay: defaultRestartDelay,
		maxRestarts:  defaultMaxRestarts,
	}
}

// Run blocks until the program exits cleanly or ctx is cancelled. It fails
// once the restart budget is used up.
func (s *Supervisor) Run(ctx context.Context) error {
	for {
		err := s.runOnce(ctx)
		if err == nil || ctx.Err() != nil {
			return nil
		}

		s.mu.Lock()
		s.restarts++
		restarts := s.restarts
		s.mu.Unlock()

		if restarts > s.maxRestarts {
			return fmt.Errorf("UI crashed %d times, giving up: %w", restarts, err)
		}

		s.logger.Error("UI crashed, restarting",
			zap.Error(err),
			zap.Int("restart_count", restarts),
			zap.Duration("delay", s.restartDelay))

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(s.restartDelay):
		}
	}
}

func (s *Supervisor) runOnce(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			stack := string(debug.Stack())
			s.logger.Error("UI panic recovered", zap.Any("panic", r), zap.String("stack", stack))
			err = fmt.Errorf("UI panic: %v", r)
		}
	}()

	model, opts := s.create()
	program := tea.NewProgram(model, append(opts, tea.WithContext(ctx))...)
	s.mu.Lock()
	s.program = program
	s.mu.Unlock()

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("UI error: %w", err)
	}
	return nil
}

// Stop asks the running program to quit.
func (s *Supervisor) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.program != nil {
		s.program.Quit()
	}
}

// Restarts returns how many times the program was restarted.
func (s *Supervisor) Restarts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.restarts
}
