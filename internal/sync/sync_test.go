package sync

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rulos-nico/17025/internal/models"
)

// fakeRows is an in-memory RowStore. Rows are keyed by tab name; column A is
// the record id, as in the real spreadsheet.
type fakeRows struct {
	tabs      map[string][][]string
	readErr   map[string]error
	appendErr error
	updateErr error
}

func newFakeRows() *fakeRows {
	return &fakeRows{tabs: map[string][][]string{}, readErr: map[string]error{}}
}

func (f *fakeRows) ReadAll(_ context.Context, sheet string) ([][]string, error) {
	if err := f.readErr[sheet]; err != nil {
		return nil, err
	}
	return f.tabs[sheet], nil
}

func (f *fakeRows) Append(_ context.Context, sheet string, row []string) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.tabs[sheet] = append(f.tabs[sheet], row)
	return nil
}

func (f *fakeRows) UpdateByID(_ context.Context, sheet, id string, row []string) (bool, error) {
	if f.updateErr != nil {
		return false, f.updateErr
	}
	for i, existing := range f.tabs[sheet] {
		if len(existing) > 0 && existing[0] == id {
			f.tabs[sheet][i] = row
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRows) ReplaceAll(_ context.Context, sheet string, rows [][]string) error {
	f.tabs[sheet] = rows
	return nil
}

// fakeKindStore is a generic in-memory entity store for one kind.
type fakeKindStore[T any] struct {
	all       []T
	modified  []T
	upserts   []T
	upsertErr func(*T) error
	listErr   error
	lastSince time.Time
}

func (f *fakeKindStore[T]) FindAll() ([]T, error) {
	return f.all, f.listErr
}

func (f *fakeKindStore[T]) FindModifiedSince(since time.Time) ([]T, error) {
	f.lastSince = since
	return f.modified, f.listErr
}

func (f *fakeKindStore[T]) UpsertFromSheets(v *T) error {
	if f.upsertErr != nil {
		if err := f.upsertErr(v); err != nil {
			return err
		}
	}
	f.upserts = append(f.upserts, *v)
	return nil
}

type fakeStores struct {
	clientes      *fakeKindStore[models.Cliente]
	proyectos     *fakeKindStore[models.Proyecto]
	perforaciones *fakeKindStore[models.Perforacion]
	ensayos       *fakeKindStore[models.Ensayo]
	equipos       *fakeKindStore[models.Equipo]
}

func newFakeStores() *fakeStores {
	return &fakeStores{
		clientes:      &fakeKindStore[models.Cliente]{},
		proyectos:     &fakeKindStore[models.Proyecto]{},
		perforaciones: &fakeKindStore[models.Perforacion]{},
		ensayos:       &fakeKindStore[models.Ensayo]{},
		equipos:       &fakeKindStore[models.Equipo]{},
	}
}

func (f *fakeStores) stores() Stores {
	return Stores{
		Clientes:      f.clientes,
		Proyectos:     f.proyectos,
		Perforaciones: f.perforaciones,
		Ensayos:       f.ensayos,
		Equipos:       f.equipos,
	}
}

func clienteRow(id, nombre string) []string {
	c := models.Cliente{ID: id, Codigo: "CLI-" + id, Nombre: nombre, Activo: true}
	return c.ToRow()
}

func TestSheetsToDBSyncAll(t *testing.T) {
	rows := newFakeRows()
	rows.tabs[SheetClientes] = [][]string{
		clienteRow("cli-1", "Constructora Uno"),
		{"cli-short"}, // malformed, must be skipped without an error
		clienteRow("cli-2", "Constructora Dos"),
	}
	e := models.Ensayo{ID: "ens-1", Codigo: "ENS-20250101-0001", WorkflowState: models.StateE1}
	rows.tabs[SheetEnsayos] = [][]string{e.ToRow()}

	fakes := newFakeStores()
	summary := NewSheetsToDB(rows, fakes.stores()).SyncAll(context.Background())

	if !summary.IsSuccess() {
		t.Fatalf("expected clean run, got errors: %+v", summary.Results)
	}
	if got := summary.TotalProcessed(); got != 3 {
		t.Errorf("TotalProcessed = %d, want 3 (short row not counted)", got)
	}
	if len(fakes.clientes.upserts) != 2 {
		t.Errorf("clientes upserted = %d, want 2", len(fakes.clientes.upserts))
	}
	if len(fakes.ensayos.upserts) != 1 {
		t.Errorf("ensayos upserted = %d, want 1", len(fakes.ensayos.upserts))
	}
	if len(summary.Results) != 5 {
		t.Errorf("expected a result per entity kind, got %d", len(summary.Results))
	}
}

func TestSheetsToDBRowFailureIsolation(t *testing.T) {
	rows := newFakeRows()
	rows.tabs[SheetClientes] = [][]string{
		clienteRow("cli-1", "Uno"),
		clienteRow("cli-bad", "Dos"),
		clienteRow("cli-3", "Tres"),
	}

	fakes := newFakeStores()
	fakes.clientes.upsertErr = func(c *models.Cliente) error {
		if c.ID == "cli-bad" {
			return errors.New("constraint violation")
		}
		return nil
	}

	result := NewSheetsToDB(rows, fakes.stores()).SyncClientes(context.Background())

	if result.TotalProcessed != 3 {
		t.Errorf("TotalProcessed = %d, want 3", result.TotalProcessed)
	}
	if result.Inserted != 2 {
		t.Errorf("Inserted = %d, want 2", result.Inserted)
	}
	if len(result.Errors) != 1 || result.Errors[0].EntityID != "cli-bad" {
		t.Errorf("expected one error keyed cli-bad, got %+v", result.Errors)
	}
	if len(fakes.clientes.upserts) != 2 {
		t.Errorf("surviving upserts = %d, want 2", len(fakes.clientes.upserts))
	}
}

func TestSheetsToDBReadFailure(t *testing.T) {
	rows := newFakeRows()
	rows.readErr[SheetClientes] = errors.New("quota exceeded")

	result := NewSheetsToDB(rows, newFakeStores().stores()).SyncClientes(context.Background())

	if result.TotalProcessed != 0 {
		t.Errorf("TotalProcessed = %d, want 0", result.TotalProcessed)
	}
	if len(result.Errors) != 1 || result.Errors[0].EntityID != "sheet" {
		t.Errorf("expected one synthetic sheet error, got %+v", result.Errors)
	}
	if result.IsSuccess() {
		t.Error("pass with a bulk read failure must not be a success")
	}
}

// Pulling the same tab twice must converge: same upserted records, no errors.
func TestSheetsToDBIdempotent(t *testing.T) {
	rows := newFakeRows()
	rows.tabs[SheetClientes] = [][]string{clienteRow("cli-1", "Uno")}

	fakes := newFakeStores()
	svc := NewSheetsToDB(rows, fakes.stores())
	first := svc.SyncClientes(context.Background())
	second := svc.SyncClientes(context.Background())

	if !first.IsSuccess() || !second.IsSuccess() {
		t.Fatal("expected both passes clean")
	}
	if first.TotalProcessed != second.TotalProcessed {
		t.Errorf("passes diverged: %d vs %d", first.TotalProcessed, second.TotalProcessed)
	}
}

func TestDBToSheetsUpdateThenAppendFallback(t *testing.T) {
	rows := newFakeRows()
	rows.tabs[SheetClientes] = [][]string{clienteRow("cli-1", "Uno, viejo nombre")}

	fakes := newFakeStores()
	fakes.clientes.modified = []models.Cliente{
		{ID: "cli-1", Codigo: "CLI-cli-1", Nombre: "Uno, renombrado", Activo: true, SyncSource: models.SyncSourceDB},
		{ID: "cli-9", Codigo: "CLI-cli-9", Nombre: "Nuevo", Activo: true, SyncSource: models.SyncSourceDB},
	}

	summary := NewDBToSheets(rows, fakes.stores()).
		SyncChangesSince(context.Background(), time.Now().Add(-time.Hour))

	if !summary.IsSuccess() {
		t.Fatalf("expected clean run, got %+v", summary.Results)
	}
	var clientes *Result
	for _, r := range summary.Results {
		if r.EntityType == "clientes" {
			clientes = r
		}
	}
	if clientes == nil {
		t.Fatal("no clientes result")
	}
	if clientes.Updated != 1 || clientes.Inserted != 1 {
		t.Errorf("Updated/Inserted = %d/%d, want 1/1", clientes.Updated, clientes.Inserted)
	}
	if len(rows.tabs[SheetClientes]) != 2 {
		t.Errorf("tab has %d rows, want 2", len(rows.tabs[SheetClientes]))
	}
	if rows.tabs[SheetClientes][0][2] != "Uno, renombrado" {
		t.Errorf("existing row not updated in place: %v", rows.tabs[SheetClientes][0])
	}
}

func TestDBToSheetsDoubleFailureRecorded(t *testing.T) {
	rows := newFakeRows()
	rows.updateErr = errors.New("update denied")
	rows.appendErr = errors.New("append denied")

	fakes := newFakeStores()
	fakes.clientes.modified = []models.Cliente{{ID: "cli-1", Nombre: "Uno"}}

	summary := NewDBToSheets(rows, fakes.stores()).
		SyncChangesSince(context.Background(), time.Now().Add(-time.Hour))

	if summary.IsSuccess() {
		t.Fatal("expected errors")
	}
	for _, r := range summary.Results {
		if r.EntityType != "clientes" {
			continue
		}
		if len(r.Errors) != 1 || r.Errors[0].EntityID != "cli-1" {
			t.Errorf("expected one error keyed by record id, got %+v", r.Errors)
		}
	}
}

func TestDBToSheetsFullRewrite(t *testing.T) {
	rows := newFakeRows()
	rows.tabs[SheetClientes] = [][]string{clienteRow("stale", "Sobrante")}

	fakes := newFakeStores()
	fakes.clientes.all = []models.Cliente{
		{ID: "cli-1", Nombre: "Uno"},
		{ID: "cli-2", Nombre: "Dos"},
	}

	summary := NewDBToSheets(rows, fakes.stores()).SyncAll(context.Background())

	if !summary.IsSuccess() {
		t.Fatalf("expected clean rewrite, got %+v", summary.Results)
	}
	got := rows.tabs[SheetClientes]
	if len(got) != 2 {
		t.Fatalf("tab has %d rows after rewrite, want 2", len(got))
	}
	if got[0][0] != "cli-1" || got[1][0] != "cli-2" {
		t.Errorf("unexpected tab content: %v", got)
	}
}

// fakeState is an in-memory StateStore.
type fakeState struct {
	checkpoints map[string]time.Time
	leases      map[string]string
	runs        []models.SyncRun
	acquireErr  error
	busy        bool
}

func newFakeState() *fakeState {
	return &fakeState{checkpoints: map[string]time.Time{}, leases: map[string]string{}}
}

func (f *fakeState) Checkpoint(direction string) (*time.Time, error) {
	if cp, ok := f.checkpoints[direction]; ok {
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeState) SetCheckpoint(direction string, watermark time.Time) error {
	f.checkpoints[direction] = watermark
	return nil
}

func (f *fakeState) AcquireLease(direction, holder string, _ time.Duration) (bool, error) {
	if f.acquireErr != nil {
		return false, f.acquireErr
	}
	if f.busy {
		return false, nil
	}
	if _, held := f.leases[direction]; held {
		return false, nil
	}
	f.leases[direction] = holder
	return true, nil
}

func (f *fakeState) ReleaseLease(direction, holder string) error {
	if f.leases[direction] == holder {
		delete(f.leases, direction)
	}
	return nil
}

func (f *fakeState) RecordRun(run *models.SyncRun) error {
	f.runs = append(f.runs, *run)
	return nil
}

func newTestEngine(rows *fakeRows, fakes *fakeStores, state *fakeState) *Engine {
	return NewEngine(
		NewSheetsToDB(rows, fakes.stores()),
		NewDBToSheets(rows, fakes.stores()),
		state, "test-holder", time.Minute)
}

func TestEngineLeaseRejectsConcurrentRun(t *testing.T) {
	state := newFakeState()
	state.busy = true

	engine := newTestEngine(newFakeRows(), newFakeStores(), state)
	if _, err := engine.RunSheetsToDB(context.Background()); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
}

func TestEngineReleasesLeaseAfterRun(t *testing.T) {
	state := newFakeState()
	engine := newTestEngine(newFakeRows(), newFakeStores(), state)

	if _, err := engine.RunSheetsToDB(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(state.leases) != 0 {
		t.Errorf("lease not released: %v", state.leases)
	}
	// a second run must succeed immediately
	if _, err := engine.RunSheetsToDB(context.Background()); err != nil {
		t.Fatalf("followup run failed: %v", err)
	}
}

func TestEngineWatermarkResolution(t *testing.T) {
	rows := newFakeRows()
	fakes := newFakeStores()
	state := newFakeState()
	engine := newTestEngine(rows, fakes, state)

	// No checkpoint: watermark defaults to the 24h lookback.
	before := time.Now().UTC()
	if _, err := engine.RunDBToSheets(context.Background(), nil); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	lookback := before.Add(-defaultLookback)
	if fakes.clientes.lastSince.Before(lookback.Add(-time.Minute)) ||
		fakes.clientes.lastSince.After(lookback.Add(time.Minute)) {
		t.Errorf("default watermark = %v, want about %v", fakes.clientes.lastSince, lookback)
	}

	// Second run: the stored checkpoint (previous start) is used.
	if _, err := engine.RunDBToSheets(context.Background(), nil); err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if fakes.clientes.lastSince.Before(before.Add(-time.Second)) {
		t.Errorf("checkpoint watermark = %v, want >= %v", fakes.clientes.lastSince, before)
	}

	// Explicit since wins over the checkpoint.
	explicit := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	if _, err := engine.RunDBToSheets(context.Background(), &explicit); err != nil {
		t.Fatalf("explicit run failed: %v", err)
	}
	if !fakes.clientes.lastSince.Equal(explicit) {
		t.Errorf("explicit watermark = %v, want %v", fakes.clientes.lastSince, explicit)
	}
}

func TestEngineRecordsRunHistory(t *testing.T) {
	rows := newFakeRows()
	rows.tabs[SheetClientes] = [][]string{
		clienteRow("cli-1", "Uno"),
		clienteRow("cli-bad", "Dos"),
	}
	fakes := newFakeStores()
	fakes.clientes.upsertErr = func(c *models.Cliente) error {
		if c.ID == "cli-bad" {
			return errors.New("boom")
		}
		return nil
	}
	state := newFakeState()
	engine := newTestEngine(rows, fakes, state)

	summary, err := engine.RunSheetsToDB(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if summary.IsSuccess() {
		t.Fatal("expected a partial run")
	}
	if len(state.runs) != 1 {
		t.Fatalf("recorded runs = %d, want 1", len(state.runs))
	}
	run := state.runs[0]
	if run.Status != "partial" {
		t.Errorf("run status = %q, want partial", run.Status)
	}
	if run.Direction != models.DirectionSheetsToDB {
		t.Errorf("run direction = %q", run.Direction)
	}
	if run.Errors != 1 || run.TotalProcessed != 2 {
		t.Errorf("run counters = %d errors / %d processed, want 1/2", run.Errors, run.TotalProcessed)
	}
	if _, ok := state.checkpoints[models.DirectionSheetsToDB]; !ok {
		t.Error("checkpoint not stored after run")
	}
}

// A run that fails outright must not advance the watermark: records modified
// during the failed window have to be picked up by the next run.
func TestEngineKeepsCheckpointOnFailedRun(t *testing.T) {
	rows := newFakeRows()
	fakes := newFakeStores()
	listErr := errors.New("db down")
	fakes.clientes.listErr = listErr
	fakes.proyectos.listErr = listErr
	fakes.perforaciones.listErr = listErr
	fakes.ensayos.listErr = listErr
	fakes.equipos.listErr = listErr

	state := newFakeState()
	checkpoint := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	state.checkpoints[models.DirectionDBToSheets] = checkpoint

	engine := newTestEngine(rows, fakes, state)
	summary, err := engine.RunDBToSheets(context.Background(), nil)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if summary.IsSuccess() {
		t.Fatal("expected a failed run")
	}
	if got := state.checkpoints[models.DirectionDBToSheets]; !got.Equal(checkpoint) {
		t.Fatalf("checkpoint moved to %v by a run that exported nothing, want %v", got, checkpoint)
	}
	if len(state.runs) != 1 || state.runs[0].Status != "error" {
		t.Fatalf("expected one run with status error, got %+v", state.runs)
	}

	// Recovered stores: the retry must start from the untouched checkpoint,
	// covering the window the failed run missed.
	fakes.clientes.listErr = nil
	fakes.proyectos.listErr = nil
	fakes.perforaciones.listErr = nil
	fakes.ensayos.listErr = nil
	fakes.equipos.listErr = nil
	if _, err := engine.RunDBToSheets(context.Background(), nil); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if !fakes.clientes.lastSince.Equal(checkpoint) {
		t.Errorf("retry watermark = %v, want the pre-failure checkpoint %v", fakes.clientes.lastSince, checkpoint)
	}
}

func TestResultAggregation(t *testing.T) {
	s := NewSummary(models.DirectionSheetsToDB)
	for i := 0; i < 3; i++ {
		r := NewResult(fmt.Sprintf("kind-%d", i))
		r.TotalProcessed = 10
		r.Inserted = 9
		if i == 1 {
			r.AddError("x", "boom")
		}
		r.Finalize()
		s.Add(r)
	}
	s.Finalize()

	if s.TotalProcessed() != 30 || s.TotalInserted() != 27 || s.TotalErrors() != 1 {
		t.Errorf("totals = %d/%d/%d", s.TotalProcessed(), s.TotalInserted(), s.TotalErrors())
	}
	if s.IsSuccess() {
		t.Error("summary with an error must not be a success")
	}
}
