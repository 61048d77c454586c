package store

import (
	"encoding/json"
	"fmt"

	"doto/internal/model"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// stateSchema describes the persisted record. Colors are plain strings; the store does not
// restrict them to the palette.
const stateSchema = `{
  "type": "object",
  "required": ["categories", "todos"],
  "properties": {
    "categories": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name", "color"],
        "properties": {
          "name": {"type": "string"},
          "color": {"type": "string"}
        }
      }
    },
    "todos": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "content", "categoryIndex"],
        "properties": {
          "id": {"type": "string"},
          "content": {"type": "string"},
          "categoryIndex": {"type": "integer"}
        }
      }
    },
    "activeCategoryIndex": {"type": ["integer", "null"]}
  }
}`

var compiledStateSchema = jsonschema.MustCompileString("doto-state.schema.json", stateSchema)

// decodeState validates raw JSON against the state schema and decodes it.
func decodeState(b []byte) (model.State, error) {
	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return model.State{}, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	if err := compiledStateSchema.Validate(doc); err != nil {
		return model.State{}, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	var st model.State
	if err := json.Unmarshal(b, &st); err != nil {
		return model.State{}, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	return st.Clone(), nil
}

func encodeState(st model.State) ([]byte, error) {
	return json.Marshal(st.Clone())
}

// ValidateState re-checks an in-memory state against the schema.
func ValidateState(st model.State) error {
	b, err := encodeState(st)
	if err != nil {
		return err
	}
	_, err = decodeState(b)
	return err
}
