package todoapi

import (
	"context"

	"todoclient/internal/todo"
)

// Lister is the part of the API used for the initial fetch.
type Lister interface {
	List(ctx context.Context) ([]todo.Todo, error)
}

// Initial is the result of the one-time fetch that seeds the view. A failed
// fetch yields an empty list with Err set so the screen can still render.
type Initial struct {
	Todos []todo.Todo
	Err   error
}

// LoadInitial fetches the collection once, absorbing any failure into the
// returned value.
func LoadInitial(ctx context.Context, l Lister) Initial {
	todos, err := l.List(ctx)
	if err != nil {
		return Initial{Todos: []todo.Todo{}, Err: err}
	}
	return Initial{Todos: todos}
}
