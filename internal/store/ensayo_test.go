package store

import (
	"fmt"
	"io"
	"log"
	"os"
	"testing"
	"time"

	embeddedpostgres "github.com/fergusstrange/embedded-postgres"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rulos-nico/17025/internal/models"
)

// Port distinct from the runtime embedded instance so the suite can run
// next to a dev server.
const testPGPort = 5434

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dataPath, err := os.MkdirTemp("", "store_test_pg_*")
	if err != nil {
		log.Fatalf("temp dir: %v", err)
	}

	pg := embeddedpostgres.NewDatabase(embeddedpostgres.DefaultConfig().
		DataPath(dataPath).
		Port(testPGPort).
		Database("lab17025_test").
		Username("postgres").
		Password("postgres").
		Logger(io.Discard))
	if err := pg.Start(); err != nil {
		os.RemoveAll(dataPath)
		log.Fatalf("starting embedded postgres: %v", err)
	}

	dsn := fmt.Sprintf(
		"host=localhost port=%d user=postgres password=postgres dbname=lab17025_test sslmode=disable",
		testPGPort)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		_ = pg.Stop()
		os.RemoveAll(dataPath)
		log.Fatalf("connecting to embedded postgres: %v", err)
	}
	if err := db.AutoMigrate(&models.Ensayo{}); err != nil {
		_ = pg.Stop()
		os.RemoveAll(dataPath)
		log.Fatalf("migrating: %v", err)
	}

	testDB = db
	code := m.Run()

	_ = pg.Stop()
	os.RemoveAll(dataPath)
	os.Exit(code)
}

func newTestEnsayo(id, codigo string) *models.Ensayo {
	return &models.Ensayo{
		ID:             id,
		Codigo:         codigo,
		Tipo:           "humedad",
		PerforacionID:  "perf-1",
		ProyectoID:     "pry-1",
		WorkflowState:  models.StateE1,
		FechaSolicitud: "2025-01-10",
	}
}

func mustLoadEnsayo(t *testing.T, s *EnsayoStore, id string) *models.Ensayo {
	t.Helper()
	e, err := s.FindByID(id)
	if err != nil {
		t.Fatalf("loading ensayo %s: %v", id, err)
	}
	if e == nil {
		t.Fatalf("ensayo %s not found", id)
	}
	return e
}

// Every write path must leave the correct provenance tag: API writes are
// "db", reconciliation writes are "sheets" and stamp synced_at.
func TestEnsayoProvenanceStamping(t *testing.T) {
	s := &EnsayoStore{db: testDB}

	e := newTestEnsayo("ens-prov-1", "ENS-20250110-0001")
	if err := s.Create(e); err != nil {
		t.Fatalf("create: %v", err)
	}
	got := mustLoadEnsayo(t, s, e.ID)
	if got.SyncSource != models.SyncSourceDB {
		t.Errorf("sync_source after create = %q, want %q", got.SyncSource, models.SyncSourceDB)
	}
	if got.SyncedAt != nil {
		t.Errorf("synced_at after create = %v, want unset", got.SyncedAt)
	}

	incoming := newTestEnsayo(e.ID, e.Codigo)
	incoming.Norma = "ASTM D2216"
	if err := s.UpsertFromSheets(incoming); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	got = mustLoadEnsayo(t, s, e.ID)
	if got.SyncSource != models.SyncSourceSheets {
		t.Errorf("sync_source after sheets upsert = %q, want %q", got.SyncSource, models.SyncSourceSheets)
	}
	if got.SyncedAt == nil {
		t.Error("synced_at not stamped by sheets upsert")
	}
	if got.Norma != "ASTM D2216" {
		t.Errorf("norma not refreshed by upsert: %q", got.Norma)
	}

	got.Urgente = true
	if err := s.Update(got); err != nil {
		t.Fatalf("update: %v", err)
	}
	got = mustLoadEnsayo(t, s, e.ID)
	if got.SyncSource != models.SyncSourceDB {
		t.Errorf("sync_source after API update = %q, want %q", got.SyncSource, models.SyncSourceDB)
	}
}

// The incremental push selects database-origin changes only; a record just
// pulled from the spreadsheet must never be echoed back out.
func TestEnsayoFindModifiedSinceExcludesSheetRecords(t *testing.T) {
	s := &EnsayoStore{db: testDB}
	watermark := time.Now().UTC().Add(-time.Minute)

	local := newTestEnsayo("ens-mod-db", "ENS-20250110-0002")
	if err := s.Create(local); err != nil {
		t.Fatalf("create: %v", err)
	}
	pulled := newTestEnsayo("ens-mod-sheets", "ENS-20250110-0003")
	if err := s.UpsertFromSheets(pulled); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	modified, err := s.FindModifiedSince(watermark)
	if err != nil {
		t.Fatalf("find modified: %v", err)
	}
	seen := map[string]bool{}
	for _, e := range modified {
		seen[e.ID] = true
	}
	if !seen[local.ID] {
		t.Error("database-origin record missing from the modified set")
	}
	if seen[pulled.ID] {
		t.Error("sheets-origin record selected for push")
	}

	// Nothing modified after the newest write.
	later, err := s.FindModifiedSince(time.Now().UTC().Add(time.Minute))
	if err != nil {
		t.Fatalf("find modified: %v", err)
	}
	if len(later) != 0 {
		t.Errorf("future watermark returned %d records, want 0", len(later))
	}
}

// Server-owned fields (PDF info, the cached Drive folder) survive a sheets
// upsert: the spreadsheet never carries them, so the upsert must not null
// them out.
func TestEnsayoSheetsUpsertPreservesServerFields(t *testing.T) {
	s := &EnsayoStore{db: testDB}

	e := newTestEnsayo("ens-pdf-1", "ENS-20250110-0004")
	if err := s.Create(e); err != nil {
		t.Fatalf("create: %v", err)
	}
	if ok, err := s.UpdatePDFInfo(e.ID, "pdf-drive-1", "https://drive.google.com/file/d/pdf-drive-1/view"); err != nil || !ok {
		t.Fatalf("update pdf info: ok=%v err=%v", ok, err)
	}
	if ok, err := s.UpdatePerforacionFolderID(e.ID, "folder-1"); err != nil || !ok {
		t.Fatalf("cache folder: ok=%v err=%v", ok, err)
	}

	// Same row as it would arrive decoded from the spreadsheet: no PDF
	// fields, no folder cache.
	incoming := newTestEnsayo(e.ID, e.Codigo)
	incoming.Muestra = "MUE-20250110-0001"
	if err := s.UpsertFromSheets(incoming); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got := mustLoadEnsayo(t, s, e.ID)
	if got.PdfDriveID == nil || *got.PdfDriveID != "pdf-drive-1" {
		t.Errorf("pdf_drive_id lost across sheets upsert: %v", got.PdfDriveID)
	}
	if got.PdfGeneratedAt == nil {
		t.Error("pdf_generated_at lost across sheets upsert")
	}
	if got.PerforacionFolderID == nil || *got.PerforacionFolderID != "folder-1" {
		t.Errorf("perforacion_folder_id lost across sheets upsert: %v", got.PerforacionFolderID)
	}
	if got.Muestra != "MUE-20250110-0001" {
		t.Errorf("sheet-owned field not refreshed: %q", got.Muestra)
	}
	if got.SyncSource != models.SyncSourceSheets {
		t.Errorf("sync_source = %q, want %q", got.SyncSource, models.SyncSourceSheets)
	}
}

// Deleting a test is a transition to Anulado; terminal records are immune.
func TestEnsayoDeleteIsTerminalTransition(t *testing.T) {
	s := &EnsayoStore{db: testDB}

	e := newTestEnsayo("ens-del-1", "ENS-20250110-0005")
	if err := s.Create(e); err != nil {
		t.Fatalf("create: %v", err)
	}
	ok, err := s.Delete(e.ID)
	if err != nil || !ok {
		t.Fatalf("delete: ok=%v err=%v", ok, err)
	}
	got := mustLoadEnsayo(t, s, e.ID)
	if got.WorkflowState != models.StateE3 {
		t.Errorf("state after delete = %s, want %s", got.WorkflowState, models.StateE3)
	}

	// Already terminal: a second delete is a no-op.
	ok, err = s.Delete(e.ID)
	if err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if ok {
		t.Error("delete of a terminal record reported rows affected")
	}
}
