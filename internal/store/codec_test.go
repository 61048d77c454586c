package store

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"doto/internal/model"
)

func TestSnapshot_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, want := range []model.State{model.SeedState(), sampleState()} {
		var buf bytes.Buffer
		if err := WriteSnapshot(&buf, want); err != nil {
			t.Fatalf("WriteSnapshot: %v", err)
		}
		if !strings.HasPrefix(buf.String(), snapshotMagic+" 1 blake3:") {
			t.Fatalf("unexpected header: %q", strings.SplitN(buf.String(), "\n", 2)[0])
		}
		got, err := ReadSnapshot(&buf)
		if err != nil {
			t.Fatalf("ReadSnapshot: %v", err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("snapshot roundtrip mismatch:\n got: %#v\nwant: %#v", got, want)
		}
	}
}

func TestSnapshot_DetectsTamperedDigest(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := WriteSnapshot(&buf, sampleState()); err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}
	header, body, _ := strings.Cut(buf.String(), "\n")
	// Flip the last hex digit of the digest.
	last := header[len(header)-1]
	flipped := byte('0')
	if last == '0' {
		flipped = '1'
	}
	tampered := header[:len(header)-1] + string(flipped) + "\n" + body

	if _, err := ReadSnapshot(strings.NewReader(tampered)); !errors.Is(err, ErrSnapshotChecksum) {
		t.Fatalf("expected ErrSnapshotChecksum; got %v", err)
	}
}

func TestSnapshot_RejectsBadHeader(t *testing.T) {
	t.Parallel()

	if _, err := ReadSnapshot(strings.NewReader("hello world\n")); !errors.Is(err, ErrCorruptState) {
		t.Fatalf("expected ErrCorruptState; got %v", err)
	}
}

func TestDecodeState_Formats(t *testing.T) {
	t.Parallel()

	want := model.State{
		Categories:          []model.Category{{Name: "Home", Color: model.ColorGreen}},
		Todos:               []model.Todo{{ID: "a", Content: "water plants", CategoryIndex: 0}},
		ActiveCategoryIndex: model.IntPtr(0),
	}
	cborBytes, err := MarshalCBOR(want)
	if err != nil {
		t.Fatalf("MarshalCBOR: %v", err)
	}

	tests := []struct {
		name   string
		format string
		in     []byte
	}{
		{
			name:   "jsonc",
			format: "json",
			in: []byte(`{
  // exported by hand
  "categories": [{"name": "Home", "color": "green"},],
  "todos": [{"id": "a", "content": "water plants", "categoryIndex": 0}],
  "activeCategoryIndex": 0,
}`),
		},
		{
			name:   "yaml",
			format: "yaml",
			in: []byte(`categories:
  - name: Home
    color: green
todos:
  - id: a
    content: water plants
    categoryIndex: 0
activeCategoryIndex: 0
`),
		},
		{name: "cbor", format: "cbor", in: cborBytes},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := DecodeState(tt.in, tt.format)
			if err != nil {
				t.Fatalf("DecodeState: %v", err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Fatalf("decoded mismatch:\n got: %#v\nwant: %#v", got, want)
			}
		})
	}
}

func TestDecodeState_UnsetActiveIndex(t *testing.T) {
	t.Parallel()

	got, err := DecodeState([]byte(`{"categories":[],"todos":[],"activeCategoryIndex":null}`), "json")
	if err != nil {
		t.Fatalf("DecodeState: %v", err)
	}
	if got.ActiveCategoryIndex != nil {
		t.Fatalf("expected unset active index; got %v", *got.ActiveCategoryIndex)
	}
}

func TestDecodeState_SchemaViolations(t *testing.T) {
	t.Parallel()

	for name, in := range map[string]string{
		"missing todos":        `{"categories":[]}`,
		"fractional index":     `{"categories":[],"todos":[{"id":"a","content":"x","categoryIndex":1.5}]}`,
		"active index string":  `{"categories":[],"todos":[],"activeCategoryIndex":"1"}`,
		"category missing key": `{"categories":[{"name":"x"}],"todos":[]}`,
	} {
		if _, err := DecodeState([]byte(in), "json"); !errors.Is(err, ErrCorruptState) {
			t.Fatalf("%s: expected ErrCorruptState; got %v", name, err)
		}
	}
}

func TestFormatFromPath(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]string{
		"state.json":  "json",
		"state.jsonc": "json",
		"state.YAML":  "yaml",
		"state.yml":   "yaml",
		"state.cbor":  "cbor",
	} {
		if got := FormatFromPath(in); got != want {
			t.Fatalf("FormatFromPath(%q) = %q, want %q", in, got, want)
		}
	}
}
