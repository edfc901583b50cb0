package caso

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Field is one property of a JSON request body. It distinguishes a key that
// was absent from one that was explicitly null from one carrying a value.
type Field struct {
	raw     json.RawMessage
	present bool
}

var jsonNull = []byte("null")

// String returns a Field holding the JSON string s.
func String(s string) Field {
	raw, _ := json.Marshal(s) //nolint:errcheck // marshalling a string cannot fail
	return Field{raw: raw, present: true}
}

// Null returns a Field that was present with a JSON null.
func Null() Field {
	return Field{raw: jsonNull, present: true}
}

// Raw returns a Field holding arbitrary JSON, e.g. Raw(`42`).
func Raw(js string) Field {
	return Field{raw: json.RawMessage(js), present: true}
}

// Present reports whether the key appeared in the body at all.
func (f Field) Present() bool { return f.present }

// IsNull reports whether the key was present with a JSON null.
func (f Field) IsNull() bool {
	return f.present && bytes.Equal(bytes.TrimSpace(f.raw), jsonNull)
}

// Missing reports whether the key was absent or null.
func (f Field) Missing() bool { return !f.present || f.IsNull() }

// Str returns the value when it is a JSON string.
func (f Field) Str() (string, bool) {
	if f.Missing() {
		return "", false
	}
	var s string
	if err := json.Unmarshal(f.raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// isEmpty reports the "should not be empty" condition: absent, null or "".
func (f Field) isEmpty() bool {
	if f.Missing() {
		return true
	}
	s, ok := f.Str()
	return ok && s == ""
}

// CreateInput is the body of POST /casos.
type CreateInput struct {
	Nombre      Field
	Descripcion Field
	Prioridad   Field
	Responsable Field
	Estado      Field
}

// UpdateInput is the body of PUT /casos/{id}.
type UpdateInput struct {
	Nombre      Field
	Descripcion Field
	Prioridad   Field
	Estado      Field
	Responsable Field
}

// DecodeCreateInput parses a request body into a CreateInput.
// Unknown keys are ignored.
func DecodeCreateInput(body []byte) (CreateInput, error) {
	obj, err := decodeObject(body)
	if err != nil {
		return CreateInput{}, err
	}
	return CreateInput{
		Nombre:      lookup(obj, "nombre"),
		Descripcion: lookup(obj, "descripcion"),
		Prioridad:   lookup(obj, "prioridad"),
		Responsable: lookup(obj, "responsable"),
		Estado:      lookup(obj, "estado"),
	}, nil
}

// DecodeUpdateInput parses a request body into an UpdateInput.
// Unknown keys, including "id", are ignored.
func DecodeUpdateInput(body []byte) (UpdateInput, error) {
	obj, err := decodeObject(body)
	if err != nil {
		return UpdateInput{}, err
	}
	return UpdateInput{
		Nombre:      lookup(obj, "nombre"),
		Descripcion: lookup(obj, "descripcion"),
		Prioridad:   lookup(obj, "prioridad"),
		Estado:      lookup(obj, "estado"),
		Responsable: lookup(obj, "responsable"),
	}, nil
}

// decodeObject parses body as a JSON object. An empty body is an empty object.
func decodeObject(body []byte) (map[string]json.RawMessage, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return map[string]json.RawMessage{}, nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBody, err)
	}
	// A literal null decodes without error into a nil map.
	if obj == nil {
		return nil, ErrInvalidBody
	}
	return obj, nil
}

func lookup(obj map[string]json.RawMessage, key string) Field {
	raw, ok := obj[key]
	if !ok {
		return Field{}
	}
	return Field{raw: raw, present: true}
}
