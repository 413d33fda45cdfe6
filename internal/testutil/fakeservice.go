// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"todoclient/internal/todo"
)

// ErrNotFound is returned when an item is not found.
var ErrNotFound = errors.New("not found")

// FakeService is an in-memory implementation of todolist.Service for testing.
type FakeService struct {
	mu     sync.Mutex
	todos  []todo.Todo
	nextID int
	calls  []string

	// SearchResults is returned by Search regardless of the query.
	SearchResults []todo.Todo

	// Error injection for testing
	SearchErr error
	UpdateErr error
	CreateErr error
	DeleteErr error

	// Gate, when set, makes every call wait for a value (or a close) before
	// doing anything. Started receives the operation name first, if set.
	Gate    chan struct{}
	Started chan string
}

// NewFakeService creates a FakeService holding a copy of todos.
func NewFakeService(todos ...todo.Todo) *FakeService {
	f := &FakeService{nextID: 1000}
	f.todos = append(f.todos, todos...)
	return f
}

// Calls returns the operation names seen so far, in order.
func (f *FakeService) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

// Todos returns the server-side collection.
func (f *FakeService) Todos() []todo.Todo {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]todo.Todo, len(f.todos))
	copy(out, f.todos)
	return out
}

func (f *FakeService) enter(op string) {
	f.mu.Lock()
	f.calls = append(f.calls, op)
	f.mu.Unlock()
	if f.Started != nil {
		f.Started <- op
	}
	if f.Gate != nil {
		<-f.Gate
	}
}

// List implements todoapi.Lister.
func (f *FakeService) List(ctx context.Context) ([]todo.Todo, error) {
	f.enter("list")
	return f.Todos(), nil
}

// Search implements todolist.Service.
func (f *FakeService) Search(ctx context.Context, query string) ([]todo.Todo, error) {
	f.enter("search")
	if f.SearchErr != nil {
		return nil, f.SearchErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]todo.Todo, len(f.SearchResults))
	copy(out, f.SearchResults)
	return out, nil
}

// Update implements todolist.Service.
func (f *FakeService) Update(ctx context.Context, id todo.ID, task string, completed bool) (todo.Todo, error) {
	f.enter("update")
	if f.UpdateErr != nil {
		return todo.Todo{}, f.UpdateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.todos {
		if f.todos[i].ID == id {
			f.todos[i].Task = task
			f.todos[i].Completed = completed
			return f.todos[i], nil
		}
	}
	return todo.Todo{}, ErrNotFound
}

// Create implements todolist.Service.
func (f *FakeService) Create(ctx context.Context, task string) (todo.Todo, error) {
	f.enter("create")
	if f.CreateErr != nil {
		return todo.Todo{}, f.CreateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	t := todo.Todo{
		ID:    todo.ID(fmt.Sprintf("srv-%d", f.nextID)),
		Task:  task,
		Image: fmt.Sprintf("https://images.example.test/%d.png", f.nextID),
	}
	f.todos = append(f.todos, t)
	return t, nil
}

// Delete implements todolist.Service.
func (f *FakeService) Delete(ctx context.Context, id todo.ID) error {
	f.enter("delete")
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.todos {
		if t.ID == id {
			f.todos = append(f.todos[:i], f.todos[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// MakeTodos builds n todos with ids "1".."n" and tasks "Task 1".."Task n".
func MakeTodos(n int) []todo.Todo {
	out := make([]todo.Todo, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, todo.Todo{
			ID:    todo.ID(fmt.Sprintf("%d", i)),
			Task:  fmt.Sprintf("Task %d", i),
			Image: fmt.Sprintf("https://images.example.test/%d.png", i),
		})
	}
	return out
}
