package store

import (
	"fmt"
	"strconv"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// documentSchemaJSON describes the structural shape of a task document.
// Every task key except id is optional and values are checked by type only;
// defaults for bad values are applied later in parseTask.
const documentSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "tasks": {
      "type": ["array", "null"],
      "items": { "$ref": "#/$defs/task" }
    },
    "next_id": { "type": ["integer", "null"] }
  },
  "$defs": {
    "task": {
      "type": "object",
      "required": ["id"],
      "properties": {
        "id": { "type": "integer" },
        "title": { "type": ["string", "null"] },
        "description": { "type": ["string", "null"] },
        "completed": { "type": ["boolean", "null"] },
        "created_at": { "type": ["string", "null"] },
        "priority": { "type": ["string", "null"] },
        "tags": { "type": ["array", "null"], "items": { "type": "string" } },
        "due_date": { "type": ["string", "null"] },
        "is_recurring": { "type": ["boolean", "null"] },
        "recurrence_pattern": { "type": ["string", "null"] },
        "series_id": { "type": ["integer", "null"] },
        "status": { "type": ["string", "null"] },
        "date_added": { "type": ["string", "null"] }
      }
    }
  }
}`

var documentSchema = jsonschema.MustCompileString("tick-tasks.schema.json", documentSchemaJSON)

// validateShape checks a decoded JSON value against the document schema
func validateShape(v interface{}) error {
	err := documentSchema.Validate(v)
	if err == nil {
		return nil
	}

	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return &DocumentError{Err: err}
	}

	// Report the first leaf cause; one location is enough to explain a reset
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return &DocumentError{
		Path: jsonPointerToPath(ve.InstanceLocation),
		Err:  fmt.Errorf("%s", ve.Message),
	}
}

func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	path := ""
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			path += fmt.Sprintf("[%d]", idx)
			continue
		}
		if path == "" {
			path = part
		} else {
			path += "." + part
		}
	}
	return path
}
