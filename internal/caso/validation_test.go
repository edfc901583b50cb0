package caso

import (
	"testing"
)

func TestValidateCreate(t *testing.T) {
	tests := []struct {
		name    string
		input   CreateInput
		wantMsg string
	}{
		{
			name:  "minimal valid",
			input: CreateInput{Nombre: String("X"), Prioridad: String("alta")},
		},
		{
			name: "all fields",
			input: CreateInput{
				Nombre:      String("X"),
				Descripcion: String("d"),
				Prioridad:   String("baja"),
				Responsable: String("Ana"),
				Estado:      String("en progreso"),
			},
		},
		{
			name:  "optional nulls are skipped",
			input: CreateInput{Nombre: String("X"), Prioridad: String("media"), Descripcion: Null(), Responsable: Null(), Estado: Null()},
		},
		{
			name:    "empty nombre and unknown prioridad",
			input:   CreateInput{Nombre: String(""), Prioridad: String("urgente")},
			wantMsg: "Validation failed: nombre: nombre should not be empty; prioridad: prioridad must be one of the following values: baja, media, alta",
		},
		{
			name:    "missing required fields",
			input:   CreateInput{},
			wantMsg: "Validation failed: nombre: nombre should not be empty, nombre must be a string; prioridad: prioridad should not be empty, prioridad must be one of the following values: baja, media, alta",
		},
		{
			name:    "null nombre",
			input:   CreateInput{Nombre: Null(), Prioridad: String("alta")},
			wantMsg: "Validation failed: nombre: nombre should not be empty, nombre must be a string",
		},
		{
			name:    "numeric nombre",
			input:   CreateInput{Nombre: Raw(`7`), Prioridad: String("alta")},
			wantMsg: "Validation failed: nombre: nombre must be a string",
		},
		{
			name:    "non-string optional fields",
			input:   CreateInput{Nombre: String("X"), Prioridad: String("alta"), Descripcion: Raw(`true`), Responsable: Raw(`1`), Estado: Raw(`[]`)},
			wantMsg: "Validation failed: descripcion: descripcion must be a string; responsable: responsable must be a string; estado: estado must be a string",
		},
		{
			name:    "prioridad is case sensitive",
			input:   CreateInput{Nombre: String("X"), Prioridad: String("Alta")},
			wantMsg: "Validation failed: prioridad: prioridad must be one of the following values: baja, media, alta",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := ValidateCreate(tt.input)
			if tt.wantMsg == "" {
				if len(v) != 0 {
					t.Fatalf("ValidateCreate() = %v, want no violations", v)
				}
				return
			}
			if len(v) == 0 {
				t.Fatal("ValidateCreate() returned no violations")
			}
			if got := v.Error(); got != tt.wantMsg {
				t.Errorf("Error() =\n  %q\nwant\n  %q", got, tt.wantMsg)
			}
		})
	}
}

func TestValidateUpdate(t *testing.T) {
	tests := []struct {
		name       string
		input      UpdateInput
		wantFields []string
	}{
		{name: "empty body", input: UpdateInput{}},
		{name: "empty nombre allowed", input: UpdateInput{Nombre: String("")}},
		{name: "nulls allowed", input: UpdateInput{Nombre: Null(), Prioridad: Null(), Responsable: Null()}},
		{name: "valid prioridad", input: UpdateInput{Prioridad: String("media")}},
		{name: "empty prioridad rejected", input: UpdateInput{Prioridad: String("")}, wantFields: []string{"prioridad"}},
		{name: "unknown prioridad", input: UpdateInput{Prioridad: String("urgente")}, wantFields: []string{"prioridad"}},
		{
			name:       "declaration order",
			input:      UpdateInput{Responsable: Raw(`5`), Estado: Raw(`5`), Nombre: Raw(`5`)},
			wantFields: []string{"nombre", "estado", "responsable"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateUpdate(tt.input).Fields()
			if len(got) != len(tt.wantFields) {
				t.Fatalf("fields = %v, want %v", got, tt.wantFields)
			}
			for i := range got {
				if got[i] != tt.wantFields[i] {
					t.Errorf("fields[%d] = %q, want %q", i, got[i], tt.wantFields[i])
				}
			}
		})
	}
}
