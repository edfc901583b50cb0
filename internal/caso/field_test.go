package caso

import (
	"errors"
	"testing"
)

func TestField_Presence(t *testing.T) {
	tests := []struct {
		name        string
		field       Field
		wantPresent bool
		wantNull    bool
		wantMissing bool
		wantStr     string
		wantIsStr   bool
	}{
		{name: "absent", field: Field{}, wantMissing: true},
		{name: "null", field: Null(), wantPresent: true, wantNull: true, wantMissing: true},
		{name: "string", field: String("Ana"), wantPresent: true, wantStr: "Ana", wantIsStr: true},
		{name: "empty string", field: String(""), wantPresent: true, wantIsStr: true},
		{name: "number", field: Raw(`42`), wantPresent: true},
		{name: "object", field: Raw(`{"a":1}`), wantPresent: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.field.Present(); got != tt.wantPresent {
				t.Errorf("Present() = %v, want %v", got, tt.wantPresent)
			}
			if got := tt.field.IsNull(); got != tt.wantNull {
				t.Errorf("IsNull() = %v, want %v", got, tt.wantNull)
			}
			if got := tt.field.Missing(); got != tt.wantMissing {
				t.Errorf("Missing() = %v, want %v", got, tt.wantMissing)
			}
			s, ok := tt.field.Str()
			if s != tt.wantStr || ok != tt.wantIsStr {
				t.Errorf("Str() = (%q, %v), want (%q, %v)", s, ok, tt.wantStr, tt.wantIsStr)
			}
		})
	}
}

func TestDecodeUpdateInput_KeepsPresence(t *testing.T) {
	in, err := DecodeUpdateInput([]byte(`{"nombre":"Nuevo","responsable":null,"id":"ignored","extra":true}`))
	if err != nil {
		t.Fatalf("DecodeUpdateInput() error = %v", err)
	}

	if v, ok := in.Nombre.Str(); !ok || v != "Nuevo" {
		t.Errorf("Nombre = (%q, %v), want Nuevo", v, ok)
	}
	if !in.Responsable.IsNull() {
		t.Error("Responsable should be present-as-null")
	}
	if in.Estado.Present() || in.Prioridad.Present() || in.Descripcion.Present() {
		t.Error("keys not in the body should be absent")
	}
}

func TestDecodeCreateInput(t *testing.T) {
	in, err := DecodeCreateInput([]byte(`{"nombre":"X","prioridad":"alta"}`))
	if err != nil {
		t.Fatalf("DecodeCreateInput() error = %v", err)
	}
	if v, _ := in.Nombre.Str(); v != "X" {
		t.Errorf("Nombre = %q, want X", v)
	}
	if v, _ := in.Prioridad.Str(); v != "alta" {
		t.Errorf("Prioridad = %q, want alta", v)
	}
	if in.Responsable.Present() {
		t.Error("Responsable should be absent")
	}
}

func TestDecode_InvalidBody(t *testing.T) {
	bodies := []string{
		`not json`,
		`{"nombre":`,
		`null`,
		`[]`,
		`"string"`,
		`42`,
	}

	for _, body := range bodies {
		t.Run(body, func(t *testing.T) {
			if _, err := DecodeCreateInput([]byte(body)); !errors.Is(err, ErrInvalidBody) {
				t.Errorf("DecodeCreateInput(%q) error = %v, want ErrInvalidBody", body, err)
			}
			if _, err := DecodeUpdateInput([]byte(body)); !errors.Is(err, ErrInvalidBody) {
				t.Errorf("DecodeUpdateInput(%q) error = %v, want ErrInvalidBody", body, err)
			}
		})
	}
}

func TestDecode_EmptyBodyIsEmptyObject(t *testing.T) {
	for _, body := range []string{``, "  \n\t"} {
		in, err := DecodeCreateInput([]byte(body))
		if err != nil {
			t.Fatalf("DecodeCreateInput(%q) error = %v", body, err)
		}
		if in.Nombre.Present() || in.Prioridad.Present() {
			t.Errorf("DecodeCreateInput(%q) reported present fields: %+v", body, in)
		}
		if v := ValidateCreate(in); len(v) != 2 {
			t.Errorf("ValidateCreate(empty) violations = %v, want nombre and prioridad", v)
		}

		up, err := DecodeUpdateInput([]byte(body))
		if err != nil {
			t.Fatalf("DecodeUpdateInput(%q) error = %v", body, err)
		}
		if up.Responsable.Present() {
			t.Errorf("DecodeUpdateInput(%q) responsable present", body)
		}
		if v := ValidateUpdate(up); len(v) != 0 {
			t.Errorf("ValidateUpdate(empty) violations = %v, want none", v)
		}
	}
}
