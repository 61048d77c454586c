package store

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"doto/internal/model"

	"github.com/fxamacker/cbor/v2"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// cborEnc uses Core Deterministic Encoding: the same state always yields identical bytes,
// which keeps snapshot digests stable.
var (
	cborEnc cbor.EncMode
	cborDec cbor.DecMode
)

func init() {
	var err error
	cborEnc, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("store: CBOR encoder initialization failed: " + err.Error())
	}
	cborDec, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("store: CBOR decoder initialization failed: " + err.Error())
	}
}

func MarshalCBOR(st model.State) ([]byte, error) {
	return cborEnc.Marshal(st.Clone())
}

// DecodeState parses an exported state in the given format (json|yaml|cbor) and checks it
// against the state schema. JSON input may contain comments and trailing commas.
func DecodeState(b []byte, format string) (model.State, error) {
	var normalized []byte
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json", "jsonc":
		normalized = jsonc.ToJSON(b)
	case "yaml", "yml":
		var doc any
		if err := yaml.Unmarshal(b, &doc); err != nil {
			return model.State{}, fmt.Errorf("%w: %v", ErrCorruptState, err)
		}
		js, err := json.Marshal(doc)
		if err != nil {
			return model.State{}, fmt.Errorf("%w: %v", ErrCorruptState, err)
		}
		normalized = js
	case "cbor":
		var doc any
		if err := cborDec.Unmarshal(b, &doc); err != nil {
			return model.State{}, fmt.Errorf("%w: %v", ErrCorruptState, err)
		}
		js, err := json.Marshal(doc)
		if err != nil {
			return model.State{}, fmt.Errorf("%w: %v", ErrCorruptState, err)
		}
		normalized = js
	default:
		return model.State{}, fmt.Errorf("unknown import format: %s", format)
	}
	return decodeState(normalized)
}

// FormatFromPath guesses an import format from a file extension.
func FormatFromPath(path string) string {
	p := strings.ToLower(path)
	switch {
	case strings.HasSuffix(p, ".yaml"), strings.HasSuffix(p, ".yml"):
		return "yaml"
	case strings.HasSuffix(p, ".cbor"):
		return "cbor"
	default:
		return "json"
	}
}
