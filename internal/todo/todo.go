// Package todo holds the TODO item model shared by the API client, the list
// controller and the view.
package todo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ID is an opaque item identifier. The API may send it as a JSON string or a
// JSON number; either way it is kept in its textual form.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("todo id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

type Todo struct {
	ID        ID     `json:"id"`
	Task      string `json:"task"`
	Completed bool   `json:"completed"`
	Image     string `json:"image,omitempty"`
}

// Filter returns the todos whose task text contains query, compared
// case-insensitively. The query is used as given; callers decide whether a
// blank query means "no search".
func Filter(todos []Todo, query string) []Todo {
	needle := strings.ToLower(query)
	matches := []Todo{}
	for _, t := range todos {
		if strings.Contains(strings.ToLower(t.Task), needle) {
			matches = append(matches, t)
		}
	}
	return matches
}

// Index returns the position of the todo with the given id, or -1.
func Index(todos []Todo, id ID) int {
	for i, t := range todos {
		if t.ID == id {
			return i
		}
	}
	return -1
}
