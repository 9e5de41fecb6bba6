package patch

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/buger/jsonparser"
)

// PropResult is the outcome of PatchPropDefault. PreviousValue is the JSON
// encoding of the replaced default when Found is true.
type PropResult struct {
	Content       []byte
	PreviousValue string
	Found         bool
	Outcome       Outcome
	Err           error
}

// PatchPropDefault sets components.<component>.defaultProps.<prop> in a
// manifest, creating the defaultProps object when needed. The document keeps
// its key order and is re-indented with two spaces. An unknown component
// fails with ErrComponentNotFound.
func PatchPropDefault(manifest []byte, component, prop string, value any) PropResult {
	fail := func(err error) PropResult {
		return PropResult{Content: manifest, Outcome: OutcomeFailed, Err: err}
	}
	if component == "" || prop == "" {
		return fail(fmt.Errorf("%w: component and prop names are required", ErrInvalidRequest))
	}
	if !json.Valid(manifest) {
		return fail(fmt.Errorf("%w: manifest is not valid JSON", ErrMalformedInput))
	}

	_, typ, _, err := jsonparser.Get(manifest, "components", component)
	if err != nil || typ != jsonparser.Object {
		return fail(fmt.Errorf("%w: %s", ErrComponentNotFound, component))
	}
	if _, typ, _, err := jsonparser.Get(manifest, "components", component, "defaultProps"); err == nil && typ != jsonparser.Object {
		return fail(fmt.Errorf("%w: defaultProps of %s is not an object", ErrMalformedInput, component))
	}

	encoded, err := encodeValue(value)
	if err != nil {
		return fail(fmt.Errorf("%w: %v", ErrInvalidRequest, err))
	}

	path := []string{"components", component, "defaultProps", prop}
	res := PropResult{Outcome: OutcomePatched}
	if raw, typ, _, err := jsonparser.Get(manifest, path...); err == nil {
		res.Found = true
		res.PreviousValue = literal(raw, typ)
	}

	updated, err := jsonparser.Set(manifest, encoded, path...)
	if err != nil {
		return fail(fmt.Errorf("%w: %v", ErrMalformedInput, err))
	}
	if err := verifySet(updated, encoded, path); err != nil {
		return fail(err)
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(updated), "", "  "); err != nil {
		return fail(fmt.Errorf("%w: %v", ErrMalformedInput, err))
	}
	buf.WriteByte('\n')
	res.Content = buf.Bytes()
	return res
}

// ReadPropDefault returns the JSON encoding of a component's default for
// prop.
func ReadPropDefault(manifest []byte, component, prop string) (string, bool) {
	raw, typ, _, err := jsonparser.Get(manifest, "components", component, "defaultProps", prop)
	if err != nil {
		return "", false
	}
	return literal(raw, typ), true
}

func encodeValue(value any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(value); err != nil {
		return nil, err
	}
	return bytes.TrimSpace(buf.Bytes()), nil
}

// literal turns a jsonparser value back into JSON text. Strings come back
// without their quotes but still escaped.
func literal(raw []byte, typ jsonparser.ValueType) string {
	if typ == jsonparser.String {
		return `"` + string(raw) + `"`
	}
	return string(raw)
}

// verifySet checks that the edited document is valid JSON and holds the
// new value at path.
func verifySet(updated, encoded []byte, path []string) error {
	if !json.Valid(updated) {
		return fmt.Errorf("%w: edit produced invalid JSON", ErrMalformedInput)
	}
	raw, typ, _, err := jsonparser.Get(updated, path...)
	if err != nil {
		return fmt.Errorf("%w: edit not found after write: %v", ErrMalformedInput, err)
	}
	var got, want bytes.Buffer
	if err := errors.Join(json.Compact(&got, []byte(literal(raw, typ))), json.Compact(&want, encoded)); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	if !bytes.Equal(got.Bytes(), want.Bytes()) {
		return fmt.Errorf("%w: edit did not apply", ErrMalformedInput)
	}
	return nil
}
