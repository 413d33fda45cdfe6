package todoapi

import (
	"bytes"
	"encoding/json"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// Only what the client consumes is required: list items need an id and task,
// an update answer needs completed, a created item needs its server id.
const (
	listSchemaJSON = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "task"],
    "properties": {
      "id": {"type": ["string", "integer"]},
      "task": {"type": "string"},
      "completed": {"type": "boolean"},
      "image": {"type": ["string", "null"]}
    }
  }
}`

	updateSchemaJSON = `{
  "type": "object",
  "required": ["completed"],
  "properties": {
    "completed": {"type": "boolean"}
  }
}`

	createSchemaJSON = `{
  "type": "object",
  "required": ["id", "task"],
  "properties": {
    "id": {"type": ["string", "integer"]},
    "task": {"type": "string"},
    "completed": {"type": "boolean"},
    "image": {"type": ["string", "null"]}
  }
}`
)

var (
	listSchema   = jsonschema.MustCompileString("list.json", listSchemaJSON)
	updateSchema = jsonschema.MustCompileString("update.json", updateSchemaJSON)
	createSchema = jsonschema.MustCompileString("create.json", createSchemaJSON)
)

func validate(schema *jsonschema.Schema, data []byte) error {
	if schema == nil {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return err
	}
	return schema.Validate(doc)
}
