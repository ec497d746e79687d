package router

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rovshanmuradov/rogue-runner/internal/ui"
)

// Screen represents a screen that can be navigated to
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)
	View() string
	SetSize(width, height int)
}

// Factory builds the screen for a route. It returns nil for unknown routes.
type Factory func(route ui.Route) Screen

// Router manages navigation between screens using a stack. The root route
// always sits at the bottom; navigating to it unwinds the stack.
type Router struct {
	factory Factory
	root    ui.Route
	stack   []Screen
	routes  []ui.Route
	width   int
	height  int
}

func New(factory Factory, root ui.Route) *Router {
	return &Router{
		factory: factory,
		root:    root,
		stack:   []Screen{factory(root)},
		routes:  []ui.Route{root},
	}
}

func (r *Router) Init() tea.Cmd {
	return r.Current().Init()
}

// Update handles navigation and forwards everything else to the top screen.
func (r *Router) Update(msg tea.Msg) (*Router, tea.Cmd) {
	switch msg := msg.(type) {
	case ui.RouterMsg:
		return r, r.Navigate(msg.To)

	case tea.WindowSizeMsg:
		r.SetSize(msg.Width, msg.Height)
		return r, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc && r.CanGoBack() {
			return r, r.Pop()
		}
	}

	updated, cmd := r.Current().Update(msg)
	r.stack[len(r.stack)-1] = updated
	return r, cmd
}

func (r *Router) View() string {
	return r.Current().View()
}

func (r *Router) SetSize(width, height int) {
	r.width = width
	r.height = height
	r.Current().SetSize(width, height)
}

// Navigate opens route. The root route clears the stack; the current route
// is a no-op.
func (r *Router) Navigate(route ui.Route) tea.Cmd {
	if route == r.root {
		return r.Clear()
	}
	if route == r.CurrentRoute() {
		return nil
	}
	screen := r.factory(route)
	if screen == nil {
		return nil
	}
	return r.Push(route, screen)
}

// Push adds a new screen to the navigation stack
func (r *Router) Push(route ui.Route, screen Screen) tea.Cmd {
	screen.SetSize(r.width, r.height)
	r.stack = append(r.stack, screen)
	r.routes = append(r.routes, route)
	return screen.Init()
}

// Pop removes the current screen unless it is the root.
func (r *Router) Pop() tea.Cmd {
	if !r.CanGoBack() {
		return nil
	}
	r.stack = r.stack[:len(r.stack)-1]
	r.routes = r.routes[:len(r.routes)-1]

	current := r.Current()
	current.SetSize(r.width, r.height)
	return current.Init()
}

// Clear removes all screens except the root.
func (r *Router) Clear() tea.Cmd {
	if !r.CanGoBack() {
		return nil
	}
	r.stack = r.stack[:1]
	r.routes = r.routes[:1]

	root := r.Current()
	root.SetSize(r.width, r.height)
	return root.Init()
}

func (r *Router) Current() Screen {
	return r.stack[len(r.stack)-1]
}

func (r *Router) CurrentRoute() ui.Route {
	return r.routes[len(r.routes)-1]
}

func (r *Router) Depth() int {
	return len(r.stack)
}

func (r *Router) CanGoBack() bool {
	return len(r.stack) > 1
}
