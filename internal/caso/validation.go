package caso

import (
	"strings"
)

// Violation lists the failed constraints of one body field.
type Violation struct {
	Field       string   `json:"field"`
	Constraints []string `json:"constraints"`
}

// Violations is the result of validating a request body. It implements
// error so the store can return it directly.
type Violations []Violation

// Error renders the violations as
// "Validation failed: nombre: nombre should not be empty; prioridad: ...".
func (v Violations) Error() string {
	parts := make([]string, 0, len(v))
	for _, fv := range v {
		parts = append(parts, fv.Field+": "+strings.Join(fv.Constraints, ", "))
	}
	return "Validation failed: " + strings.Join(parts, "; ")
}

// Fields returns the names of the offending fields in order.
func (v Violations) Fields() []string {
	names := make([]string, len(v))
	for i, fv := range v {
		names[i] = fv.Field
	}
	return names
}

// rule checks one constraint and returns its message, or "" when satisfied.
type rule func(name string, f Field) string

func notEmpty(name string, f Field) string {
	if f.isEmpty() {
		return name + " should not be empty"
	}
	return ""
}

func isString(name string, f Field) string {
	if _, ok := f.Str(); !ok {
		return name + " must be a string"
	}
	return ""
}

var prioridadMessage = func() string {
	values := make([]string, len(Prioridades))
	for i, p := range Prioridades {
		values[i] = string(p)
	}
	return "must be one of the following values: " + strings.Join(values, ", ")
}()

func isPrioridad(name string, f Field) string {
	if s, ok := f.Str(); ok && Prioridad(s).Valid() {
		return ""
	}
	return name + " " + prioridadMessage
}

// fieldRules ties a field to its constraints. Optional fields skip every
// rule when the key is absent or null.
type fieldRules struct {
	name     string
	field    Field
	optional bool
	rules    []rule
}

func check(fields ...fieldRules) Violations {
	var out Violations
	for _, fr := range fields {
		if fr.optional && fr.field.Missing() {
			continue
		}
		var failed []string
		for _, r := range fr.rules {
			if msg := r(fr.name, fr.field); msg != "" {
				failed = append(failed, msg)
			}
		}
		if len(failed) > 0 {
			out = append(out, Violation{Field: fr.name, Constraints: failed})
		}
	}
	return out
}

// ValidateCreate checks a create body. nombre must be a non-empty string,
// prioridad one of baja/media/alta, and the optional text fields strings.
func ValidateCreate(in CreateInput) Violations {
	return check(
		fieldRules{name: "nombre", field: in.Nombre, rules: []rule{notEmpty, isString}},
		fieldRules{name: "descripcion", field: in.Descripcion, optional: true, rules: []rule{isString}},
		fieldRules{name: "prioridad", field: in.Prioridad, rules: []rule{notEmpty, isPrioridad}},
		fieldRules{name: "responsable", field: in.Responsable, optional: true, rules: []rule{isString}},
		fieldRules{name: "estado", field: in.Estado, optional: true, rules: []rule{isString}},
	)
}

// ValidateUpdate checks an update body. Every field is optional; present
// text fields must be strings and a present prioridad must be allowed.
func ValidateUpdate(in UpdateInput) Violations {
	return check(
		fieldRules{name: "nombre", field: in.Nombre, optional: true, rules: []rule{isString}},
		fieldRules{name: "descripcion", field: in.Descripcion, optional: true, rules: []rule{isString}},
		fieldRules{name: "prioridad", field: in.Prioridad, optional: true, rules: []rule{isPrioridad}},
		fieldRules{name: "estado", field: in.Estado, optional: true, rules: []rule{isString}},
		fieldRules{name: "responsable", field: in.Responsable, optional: true, rules: []rule{isString}},
	)
}
