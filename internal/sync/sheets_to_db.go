package sync

import (
	"context"
	"log"

	"github.com/rulos-nico/17025/internal/models"
)

// SheetsToDB pulls the spreadsheet into PostgreSQL. Every pass is a full
// refresh of one tab: each decodable row is upserted with provenance
// sync_source='sheets'. The spreadsheet wins for whatever it says; records
// absent from the sheet are left untouched.
type SheetsToDB struct {
	rows   RowStore
	stores Stores
}

// NewSheetsToDB builds the pull direction of the engine.
func NewSheetsToDB(rows RowStore, stores Stores) *SheetsToDB {
	return &SheetsToDB{rows: rows, stores: stores}
}

// SyncAll refreshes every entity kind in dependency order, parents before
// children, so a new project never lands before its client.
func (s *SheetsToDB) SyncAll(ctx context.Context) *Summary {
	summary := NewSummary(models.DirectionSheetsToDB)
	log.Println("🔄 Starting Sheets -> DB sync")

	summary.Add(s.SyncClientes(ctx))
	summary.Add(s.SyncEquipos(ctx))
	summary.Add(s.SyncProyectos(ctx))
	summary.Add(s.SyncPerforaciones(ctx))
	summary.Add(s.SyncEnsayos(ctx))

	summary.Finalize()
	log.Printf("✅ Sheets -> DB sync completed: %d records, %d errors in %dms",
		summary.TotalProcessed(), summary.TotalErrors(), summary.TotalDurationMs)
	return summary
}

func (s *SheetsToDB) SyncClientes(ctx context.Context) *Result {
	return pullKind(ctx, s.rows, "clientes", SheetClientes,
		models.ClienteFromRow,
		func(c *models.Cliente) string { return c.ID },
		s.stores.Clientes.UpsertFromSheets)
}

func (s *SheetsToDB) SyncProyectos(ctx context.Context) *Result {
	return pullKind(ctx, s.rows, "proyectos", SheetProyectos,
		models.ProyectoFromRow,
		func(p *models.Proyecto) string { return p.ID },
		s.stores.Proyectos.UpsertFromSheets)
}

func (s *SheetsToDB) SyncPerforaciones(ctx context.Context) *Result {
	return pullKind(ctx, s.rows, "perforaciones", SheetPerforaciones,
		models.PerforacionFromRow,
		func(p *models.Perforacion) string { return p.ID },
		s.stores.Perforaciones.UpsertFromSheets)
}

func (s *SheetsToDB) SyncEnsayos(ctx context.Context) *Result {
	return pullKind(ctx, s.rows, "ensayos", SheetEnsayos,
		models.EnsayoFromRow,
		func(e *models.Ensayo) string { return e.ID },
		s.stores.Ensayos.UpsertFromSheets)
}

func (s *SheetsToDB) SyncEquipos(ctx context.Context) *Result {
	return pullKind(ctx, s.rows, "equipos", SheetEquipos,
		models.EquipoFromRow,
		func(q *models.Equipo) string { return q.ID },
		s.stores.Equipos.UpsertFromSheets)
}

// pullKind runs one tab's pass: read every row, skip the undecodable ones,
// upsert the rest. A row failure is recorded and the loop continues; a bulk
// read failure ends the pass with a synthetic "sheet" error.
func pullKind[T any](
	ctx context.Context,
	rows RowStore,
	kind, sheet string,
	decode func([]string) (*T, bool),
	idOf func(*T) string,
	upsert func(*T) error,
) *Result {
	result := NewResult(kind)

	data, err := rows.ReadAll(ctx, sheet)
	if err != nil {
		log.Printf("❌ Failed to read sheet %s: %v", sheet, err)
		result.AddError("sheet", err.Error())
		result.Finalize()
		return result
	}

	for _, row := range data {
		rec, ok := decode(row)
		if !ok {
			continue // short or malformed row, not an error
		}
		result.TotalProcessed++

		if err := upsert(rec); err != nil {
			log.Printf("⚠️ Failed to sync %s %s: %v", kind, idOf(rec), err)
			result.AddError(idOf(rec), err.Error())
			continue
		}
		result.Inserted++
	}

	result.Finalize()
	log.Printf("🔄 %s pulled: %d processed, %d errors", kind,
		result.TotalProcessed, len(result.Errors))
	return result
}
