package todolist

import (
	"errors"

	"todoclient/internal/todo"
)

// ErrClosed is returned by operations started after Close.
var ErrClosed = errors.New("todo list is closed")

// State is a point-in-time copy of everything the view renders.
type State struct {
	Todos      []todo.Todo
	Paged      []todo.Todo
	Query      string
	Mode       Mode
	Results    int
	Page       int
	TotalPages int
	Loading    bool
}

// Searching reports whether the paged view comes from search results.
func (s State) Searching() bool { return s.Mode == Searching }

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	active := c.active()
	s := State{
		Todos:      clone(c.todos),
		Paged:      window(active, c.page),
		Query:      c.query,
		Mode:       Browsing,
		Page:       c.page,
		TotalPages: pageCount(len(active)),
		Loading:    c.loading,
	}
	if c.search != nil {
		s.Mode = Searching
		s.Results = len(c.search.results)
	}
	return s
}

func window(todos []todo.Todo, page int) []todo.Todo {
	start := (page - 1) * TodosPerPage
	if start < 0 || start >= len(todos) {
		return []todo.Todo{}
	}
	end := start + TodosPerPage
	if end > len(todos) {
		end = len(todos)
	}
	return clone(todos[start:end])
}
