package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// SchemaVersion is the catalog schema version the planner understands.
const SchemaVersion = "5.0"

func readFile(kind, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Catalog: kind, Err: fmt.Errorf("read %s: %w", path, err)}
	}
	return data, nil
}

// decodeStrict decodes data into out, rejecting keys out does not declare.
func decodeStrict(kind string, data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return &Error{Catalog: kind, Err: fmt.Errorf("%w: empty document", ErrInvalidEntry)}
		}
		return &Error{Catalog: kind, Err: err}
	}
	return nil
}

// decodeNodeStrict re-encodes an inline catalog node so it gets the same
// strict decoding as a standalone file.
func decodeNodeStrict(kind string, n *yaml.Node, out any) error {
	data, err := yaml.Marshal(n)
	if err != nil {
		return &Error{Catalog: kind, Line: n.Line, Column: n.Column, Err: err}
	}
	return decodeStrict(kind, data, out)
}

func checkVersion(kind, version string) error {
	if version != SchemaVersion {
		return &Error{Catalog: kind, Err: fmt.Errorf("%w: %q", ErrUnsupportedVersion, version)}
	}
	return nil
}
