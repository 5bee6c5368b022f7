package sync

import (
	"context"
	"time"

	"github.com/rulos-nico/17025/internal/models"
)

// Tab names of the master spreadsheet.
const (
	SheetClientes      = "Clientes"
	SheetProyectos     = "Proyectos"
	SheetPerforaciones = "Perforaciones"
	SheetEnsayos       = "Ensayos"
	SheetEquipos       = "Equipos"
)

// RowStore is the spreadsheet side of the engine: positional string rows
// keyed by the id in column A. Implemented by gsheets.Client; tests use an
// in-memory fake.
type RowStore interface {
	ReadAll(ctx context.Context, sheetName string) ([][]string, error)
	Append(ctx context.Context, sheetName string, row []string) error
	UpdateByID(ctx context.Context, sheetName, id string, row []string) (bool, error)
	ReplaceAll(ctx context.Context, sheetName string, rows [][]string) error
}

// Per-entity database stores, satisfied by the internal/store types. The
// engine only needs the sync-facing subset of each.

type ClienteStore interface {
	FindAll() ([]models.Cliente, error)
	FindModifiedSince(since time.Time) ([]models.Cliente, error)
	UpsertFromSheets(c *models.Cliente) error
}

type ProyectoStore interface {
	FindAll() ([]models.Proyecto, error)
	FindModifiedSince(since time.Time) ([]models.Proyecto, error)
	UpsertFromSheets(p *models.Proyecto) error
}

type PerforacionStore interface {
	FindAll() ([]models.Perforacion, error)
	FindModifiedSince(since time.Time) ([]models.Perforacion, error)
	UpsertFromSheets(p *models.Perforacion) error
}

type EnsayoStore interface {
	FindAll() ([]models.Ensayo, error)
	FindModifiedSince(since time.Time) ([]models.Ensayo, error)
	UpsertFromSheets(e *models.Ensayo) error
}

type EquipoStore interface {
	FindAll() ([]models.Equipo, error)
	FindModifiedSince(since time.Time) ([]models.Equipo, error)
	UpsertFromSheets(q *models.Equipo) error
}

// Stores bundles the entity stores the engine reconciles. Data with no
// sheet tab of its own (users, sensors, muestras) stays out of the engine.
type Stores struct {
	Clientes      ClienteStore
	Proyectos     ProyectoStore
	Perforaciones PerforacionStore
	Ensayos       EnsayoStore
	Equipos       EquipoStore
}

// StateStore persists watermarks, leases and run history. Satisfied by
// store.SyncStateStore.
type StateStore interface {
	Checkpoint(direction string) (*time.Time, error)
	SetCheckpoint(direction string, watermark time.Time) error
	AcquireLease(direction, holder string, ttl time.Duration) (bool, error)
	ReleaseLease(direction, holder string) error
	RecordRun(run *models.SyncRun) error
}
