package todo

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterIsCaseInsensitiveSubstring(t *testing.T) {
	todos := []Todo{
		{ID: "1", Task: "Buy milk"},
		{ID: "2", Task: "Walk the dog"},
		{ID: "3", Task: "MILKSHAKE run"},
	}

	got := Filter(todos, "milk")
	require.Len(t, got, 2)
	assert.Equal(t, ID("1"), got[0].ID)
	assert.Equal(t, ID("3"), got[1].ID)

	assert.Len(t, Filter(todos, "DOG"), 1)
}

func TestFilterNoMatchesReturnsEmptySlice(t *testing.T) {
	got := Filter([]Todo{{ID: "1", Task: "Buy milk"}}, "bread")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFilterKeepsOrder(t *testing.T) {
	todos := []Todo{
		{ID: "a", Task: "task three"},
		{ID: "b", Task: "task one"},
		{ID: "c", Task: "task two"},
	}
	got := Filter(todos, "task")
	require.Len(t, got, 3)
	assert.Equal(t, []ID{"a", "b", "c"}, []ID{got[0].ID, got[1].ID, got[2].ID})
}

func TestIDUnmarshalAcceptsStringsAndNumbers(t *testing.T) {
	var items []Todo
	payload := `[{"id":"abc-1","task":"a"},{"id":42,"task":"b"},{"id":null,"task":"c"}]`
	require.NoError(t, json.Unmarshal([]byte(payload), &items))

	assert.Equal(t, ID("abc-1"), items[0].ID)
	assert.Equal(t, ID("42"), items[1].ID)
	assert.Equal(t, ID(""), items[2].ID)
}

func TestIDUnmarshalRejectsObjects(t *testing.T) {
	var item Todo
	err := json.Unmarshal([]byte(`{"id":{"x":1}}`), &item)
	assert.Error(t, err)
}

func TestIndex(t *testing.T) {
	todos := []Todo{{ID: "1"}, {ID: "2"}}
	assert.Equal(t, 1, Index(todos, "2"))
	assert.Equal(t, -1, Index(todos, "9"))
}
