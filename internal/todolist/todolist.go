// Package todolist owns the in-memory state behind the TODO screen: the
// collection, the pagination window and the search session. Every mutation
// that needs the remote API goes through a Service.
//
// The controller guards its fields with a mutex so snapshots are consistent,
// but it does not serialize operations. Two calls may be in flight at once;
// each applies its result when it completes, so the last completion wins.
// Loading is advisory only: it is set when a call starts and cleared when
// that call finishes, even if another call is still running.
package todolist

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"todoclient/internal/todo"
)

// TodosPerPage is the fixed page size of the grid.
const TodosPerPage = 9

// Service is the remote API as seen by the controller.
type Service interface {
	Search(ctx context.Context, query string) ([]todo.Todo, error)
	Update(ctx context.Context, id todo.ID, task string, completed bool) (todo.Todo, error)
	Create(ctx context.Context, task string) (todo.Todo, error)
	Delete(ctx context.Context, id todo.ID) error
}

// Recorder receives the outcome of every operation. opErr is nil on success.
type Recorder interface {
	Record(ctx context.Context, op string, id todo.ID, task string, opErr error) error
}

// Operation names passed to the Recorder.
const (
	OpSearch = "search"
	OpUpdate = "update"
	OpCreate = "create"
	OpDelete = "delete"
)

// Mode is the search state tag.
type Mode int

const (
	Browsing Mode = iota
	Searching
)

func (m Mode) String() string {
	if m == Searching {
		return "searching"
	}
	return "browsing"
}

// searchSession exists only while searching; a nil session means browsing.
type searchSession struct {
	results []todo.Todo
}

type Controller struct {
	svc      Service
	logger   *log.Logger
	recorder Recorder

	mu      sync.Mutex
	todos   []todo.Todo
	query   string
	search  *searchSession
	page    int
	loading bool
	closed  bool
}

type Option func(*Controller)

func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

func WithRecorder(r Recorder) Option {
	return func(c *Controller) { c.recorder = r }
}

// New creates a controller seeded with a copy of initial.
func New(svc Service, initial []todo.Todo, opts ...Option) *Controller {
	c := &Controller{
		svc:    svc,
		logger: log.New(io.Discard),
		todos:  clone(initial),
		page:   1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Reseed replaces the collection with a copy of initial. Search session and
// page are left as they are.
func (c *Controller) Reseed(initial []todo.Todo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.todos = clone(initial)
}

// Close marks the controller as torn down. Calls still in flight return their
// results but no longer change state.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// SetSearchQuery stores the search input buffer.
func (c *Controller) SetSearchQuery(q string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.query = q
}

// SearchTodos runs a search and switches to search mode. A blank query leaves
// search mode without a network call. If the API fails, or answers with no
// matches, the current collection is filtered locally instead; no error
// escapes. The returned slice is what the API answered, or the local matches
// when the API failed.
func (c *Controller) SearchTodos(ctx context.Context, query string) []todo.Todo {
	if strings.TrimSpace(query) == "" {
		c.mu.Lock()
		if !c.closed {
			c.search = nil
		}
		c.mu.Unlock()
		return nil
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.loading = true
	if c.search == nil {
		c.search = &searchSession{results: []todo.Todo{}}
	}
	c.mu.Unlock()

	results, err := c.svc.Search(ctx, query)
	c.record(ctx, OpSearch, "", query, err)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return results
	}
	c.loading = false

	if err != nil {
		c.logger.Warn("remote search failed, filtering locally", "query", query, "err", err)
		local := todo.Filter(c.todos, query)
		c.search = &searchSession{results: local}
		return clone(local)
	}

	if len(results) == 0 {
		c.logger.Debug("remote search empty, filtering locally", "query", query)
		c.search = &searchSession{results: todo.Filter(c.todos, query)}
	} else {
		c.search = &searchSession{results: clone(results)}
	}
	c.page = 1
	return results
}

// ClearSearch leaves search mode and resets the query and page.
func (c *Controller) ClearSearch() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.query = ""
	c.search = nil
	c.page = 1
}

// UpdateTodoStatus sends the full task/completed pair for id. On success only
// the returned completed flag is merged into the local entry, and into the
// matching search result while searching.
func (c *Controller) UpdateTodoStatus(ctx context.Context, id todo.ID, task string, completed bool) error {
	if !c.begin() {
		return ErrClosed
	}
	updated, err := c.svc.Update(ctx, id, task, completed)
	c.record(ctx, OpUpdate, id, task, err)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return err
	}
	c.loading = false
	if err != nil {
		c.logger.Error("update todo failed", "id", id, "err", err)
		return err
	}
	c.todos = withCompleted(c.todos, id, updated.Completed)
	if c.search != nil {
		c.search = &searchSession{results: withCompleted(c.search.results, id, updated.Completed)}
	}
	c.logger.Info("todo updated", "id", id, "completed", updated.Completed)
	return nil
}

// CreateTodo posts a new todo and appends the server's copy. The page moves
// to the new last page unless the user was already on the last page, or the
// list still fits on one page.
func (c *Controller) CreateTodo(ctx context.Context, task string) (todo.Todo, error) {
	if !c.begin() {
		return todo.Todo{}, ErrClosed
	}
	created, err := c.svc.Create(ctx, task)
	c.record(ctx, OpCreate, created.ID, task, err)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return created, err
	}
	c.loading = false
	if err != nil {
		c.logger.Error("create todo failed", "err", err)
		return todo.Todo{}, err
	}

	before := len(c.todos)
	next := make([]todo.Todo, 0, before+1)
	next = append(next, c.todos...)
	c.todos = append(next, created)

	total := pageCount(before + 1)
	if c.page != pageCount(before) && total != 1 {
		c.page = total
	}
	c.logger.Info("todo created", "id", created.ID, "page", c.page)
	return created, nil
}

// DeleteTodo removes id remotely and then locally. If the current page no
// longer exists it steps back one page.
func (c *Controller) DeleteTodo(ctx context.Context, id todo.ID) error {
	if !c.begin() {
		return ErrClosed
	}
	err := c.svc.Delete(ctx, id)
	c.record(ctx, OpDelete, id, "", err)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return err
	}
	c.loading = false
	if err != nil {
		c.logger.Error("delete todo failed", "id", id, "err", err)
		return err
	}

	kept := make([]todo.Todo, 0, len(c.todos))
	for _, t := range c.todos {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	c.todos = kept

	if c.page > pageCount(len(kept)) && c.page > 1 {
		c.page--
	}
	c.logger.Info("todo deleted", "id", id, "page", c.page)
	return nil
}

// PreviousPage moves back one page; no-op on the first page.
func (c *Controller) PreviousPage() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.page > 1 {
		c.page--
	}
}

// NextPage moves forward one page; no-op on the last page of the active
// collection.
func (c *Controller) NextPage() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.page < pageCount(len(c.active())) {
		c.page++
	}
}

func (c *Controller) begin() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	c.loading = true
	return true
}

func (c *Controller) record(ctx context.Context, op string, id todo.ID, task string, opErr error) {
	if c.recorder == nil {
		return
	}
	if err := c.recorder.Record(ctx, op, id, task, opErr); err != nil {
		c.logger.Warn("journal write failed", "op", op, "err", err)
	}
}

// active must be called with mu held.
func (c *Controller) active() []todo.Todo {
	if c.search != nil {
		return c.search.results
	}
	return c.todos
}

// withCompleted returns a copy of todos with id's completed flag set, or
// todos itself when id is absent.
func withCompleted(todos []todo.Todo, id todo.ID, completed bool) []todo.Todo {
	i := todo.Index(todos, id)
	if i < 0 {
		return todos
	}
	next := clone(todos)
	next[i].Completed = completed
	return next
}

func pageCount(n int) int {
	return (n + TodosPerPage - 1) / TodosPerPage
}

func clone(todos []todo.Todo) []todo.Todo {
	out := make([]todo.Todo, len(todos))
	copy(out, todos)
	return out
}
