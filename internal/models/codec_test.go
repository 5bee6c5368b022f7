package models

import (
	"reflect"
	"testing"
	"time"
)

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func TestClienteRoundTrip(t *testing.T) {
	created := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)
	c := &Cliente{
		ID:             "cli-001",
		Codigo:         "CLI-20250310-0001",
		Nombre:         "Constructora Andina",
		Rut:            strPtr("76.123.456-7"),
		Ciudad:         strPtr("Bogotá"),
		ContactoNombre: strPtr("María Pérez"),
		Activo:         true,
		DriveFolderID:  strPtr("drive-folder-abc"),
		CreatedAt:      created,
		UpdatedAt:      created.Add(time.Hour),
	}
	row := c.ToRow()
	if len(row) != clienteColumns {
		t.Fatalf("ToRow produced %d cells, want %d", len(row), clienteColumns)
	}
	got, ok := ClienteFromRow(row)
	if !ok {
		t.Fatal("decode of encoded row failed")
	}
	if !reflect.DeepEqual(got, c) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, c)
	}
}

func TestClienteFromRowShort(t *testing.T) {
	if _, ok := ClienteFromRow(make([]string, clienteColumns-1)); ok {
		t.Error("expected short row to be rejected")
	}
}

func TestEnsayoRoundTrip(t *testing.T) {
	created := time.Date(2025, 5, 2, 14, 0, 0, 0, time.UTC)
	e := &Ensayo{
		ID:                "ens-042",
		Codigo:            "ENS-20250502-0042",
		Tipo:              "triaxial",
		PerforacionID:     "perf-007",
		ProyectoID:        "proy-003",
		Muestra:           "mue-015",
		Norma:             "ASTM D4767",
		WorkflowState:     StateE6,
		FechaSolicitud:    "2025-05-02",
		FechaProgramacion: strPtr("2025-05-05"),
		TecnicoID:         strPtr("per-002"),
		TecnicoNombre:     strPtr("Luis Rojas"),
		SheetID:           strPtr("sheet-xyz"),
		SheetURL:          strPtr("https://docs.google.com/spreadsheets/d/sheet-xyz"),
		EquiposUtilizados: StringList{"EQ-001", "EQ-014"},
		Urgente:           true,
		CreatedAt:         created,
		UpdatedAt:         created.Add(30 * time.Minute),
	}
	row := e.ToRow()
	if len(row) != ensayoColumns {
		t.Fatalf("ToRow produced %d cells, want %d", len(row), ensayoColumns)
	}
	got, ok := EnsayoFromRow(row)
	if !ok {
		t.Fatal("decode of encoded row failed")
	}
	if !reflect.DeepEqual(got, e) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, e)
	}
}

// A corrupt workflow_state cell must not abort the row; it decodes to
// StateUnknown.
func TestEnsayoFromRowBadState(t *testing.T) {
	e := &Ensayo{ID: "ens-001", Codigo: "ENS-20250101-0001", WorkflowState: StateE1}
	row := e.ToRow()
	row[7] = "E99"
	got, ok := EnsayoFromRow(row)
	if !ok {
		t.Fatal("row with bad state should still decode")
	}
	if got.WorkflowState != StateUnknown {
		t.Errorf("WorkflowState = %s, want %s", got.WorkflowState, StateUnknown)
	}
}

func TestEnsayoRowOmitsServerFields(t *testing.T) {
	e := &Ensayo{
		ID:         "ens-001",
		PdfDriveID: strPtr("pdf-abc"),
		PdfURL:     strPtr("https://drive.google.com/file/d/pdf-abc"),
	}
	for i, cell := range e.ToRow() {
		if cell == "pdf-abc" || cell == "https://drive.google.com/file/d/pdf-abc" {
			t.Errorf("server-only PDF field leaked into sheet cell %d", i)
		}
	}
}

func TestMuestraRoundTrip(t *testing.T) {
	m := &Muestra{
		ID:                "mue-001",
		Codigo:            "MUE-20250401-0001",
		PerforacionID:     "perf-002",
		ProfundidadInicio: 1.5,
		ProfundidadFin:    2.25,
		TipoMuestra:       "inalterado",
		Descripcion:       strPtr("arcilla limosa gris"),
		CreatedAt:         time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC),
		UpdatedAt:         time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC),
	}
	row := m.ToRow()
	got, ok := MuestraFromRow(row)
	if !ok {
		t.Fatal("decode of encoded row failed")
	}
	if !reflect.DeepEqual(got, m) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, m)
	}
}

func TestEquipoRoundTrip(t *testing.T) {
	q := &Equipo{
		ID:            "eq-001",
		Codigo:        "EQ-001",
		Nombre:        "Prensa triaxial",
		Serie:         "TX-9912",
		Marca:         strPtr("Controls"),
		Estado:        EquipoEstadoOperativo,
		Incertidumbre: floatPtr(0.05),
		ErrorMaximo:   floatPtr(0.1),
		Activo:        true,
		CreatedAt:     time.Date(2024, 11, 20, 10, 0, 0, 0, time.UTC),
		UpdatedAt:     time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC),
	}
	row := q.ToRow()
	if len(row) != equipoColumns {
		t.Fatalf("ToRow produced %d cells, want %d", len(row), equipoColumns)
	}
	got, ok := EquipoFromRow(row)
	if !ok {
		t.Fatal("decode of encoded row failed")
	}
	if !reflect.DeepEqual(got, q) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, q)
	}
}

// The sensor-equipment link is database-only state: decoding a sheet row must
// always leave it empty.
func TestSensorFromRowIgnoresEquipoLink(t *testing.T) {
	s := &Sensor{
		ID:          "sen-001",
		Codigo:      "SEN-001",
		Tipo:        "presion",
		NumeroSerie: "PS-7731",
		Estado:      "operativo",
		Activo:      true,
		EquipoID:    strPtr("eq-001"),
		CreatedAt:   time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC),
		UpdatedAt:   time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC),
	}
	got, ok := SensorFromRow(s.ToRow())
	if !ok {
		t.Fatal("decode of encoded row failed")
	}
	if got.EquipoID != nil {
		t.Errorf("EquipoID = %q, want nil after sheet decode", *got.EquipoID)
	}
}

func TestBoolCell(t *testing.T) {
	cases := []struct {
		raw  string
		def  bool
		want bool
	}{
		{"true", false, true},
		{"1", false, true},
		{"false", true, false},
		{"0", true, false},
		{"", true, true},
		{"", false, false},
		{"yes", true, false},
	}
	for _, c := range cases {
		if got := boolCell([]string{c.raw}, 0, c.def); got != c.want {
			t.Errorf("boolCell(%q, def=%v) = %v, want %v", c.raw, c.def, got, c.want)
		}
	}
}

func TestListCell(t *testing.T) {
	got := listCell([]string{"EQ-001, EQ-002 ,EQ-003"}, 0)
	want := StringList{"EQ-001", "EQ-002", "EQ-003"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("listCell = %v, want %v", got, want)
	}
	if got := listCell([]string{""}, 0); len(got) != 0 {
		t.Errorf("empty cell decoded to %v", got)
	}
}

func TestTimeCellLenient(t *testing.T) {
	if got := timeCell([]string{"not a date"}, 0); !got.IsZero() {
		t.Errorf("bad timestamp decoded to %v, want zero", got)
	}
	want := time.Date(2025, 6, 1, 17, 45, 0, 0, time.UTC)
	if got := timeCell([]string{"2025-06-01 17:45:00"}, 0); !got.Equal(want) {
		t.Errorf("timeCell = %v, want %v", got, want)
	}
}
