package sync

import (
	"context"
	"log"
	"time"

	"github.com/rulos-nico/17025/internal/models"
)

// DBToSheets pushes local changes out to the spreadsheet. The incremental
// pass only exports records last written by the API (sync_source='db'), so a
// pull is never echoed back out; the full pass is a recovery mode that
// rewrites every tab body from the database regardless of provenance.
type DBToSheets struct {
	rows   RowStore
	stores Stores
}

// NewDBToSheets builds the push direction of the engine.
func NewDBToSheets(rows RowStore, stores Stores) *DBToSheets {
	return &DBToSheets{rows: rows, stores: stores}
}

// SyncChangesSince exports database-origin changes newer than the watermark,
// kind by kind. Each record is updated in place by id; records missing from
// the tab are appended.
func (s *DBToSheets) SyncChangesSince(ctx context.Context, since time.Time) *Summary {
	summary := NewSummary(models.DirectionDBToSheets)
	log.Printf("🔄 Starting DB -> Sheets sync (changes since %s)", since.Format(time.RFC3339))

	summary.Add(pushKind(ctx, s.rows, "clientes", SheetClientes,
		func() ([]models.Cliente, error) { return s.stores.Clientes.FindModifiedSince(since) },
		func(c *models.Cliente) string { return c.ID },
		(*models.Cliente).ToRow))
	summary.Add(pushKind(ctx, s.rows, "equipos", SheetEquipos,
		func() ([]models.Equipo, error) { return s.stores.Equipos.FindModifiedSince(since) },
		func(q *models.Equipo) string { return q.ID },
		(*models.Equipo).ToRow))
	summary.Add(pushKind(ctx, s.rows, "proyectos", SheetProyectos,
		func() ([]models.Proyecto, error) { return s.stores.Proyectos.FindModifiedSince(since) },
		func(p *models.Proyecto) string { return p.ID },
		(*models.Proyecto).ToRow))
	summary.Add(pushKind(ctx, s.rows, "perforaciones", SheetPerforaciones,
		func() ([]models.Perforacion, error) { return s.stores.Perforaciones.FindModifiedSince(since) },
		func(p *models.Perforacion) string { return p.ID },
		(*models.Perforacion).ToRow))
	summary.Add(pushKind(ctx, s.rows, "ensayos", SheetEnsayos,
		func() ([]models.Ensayo, error) { return s.stores.Ensayos.FindModifiedSince(since) },
		func(e *models.Ensayo) string { return e.ID },
		(*models.Ensayo).ToRow))

	summary.Finalize()
	log.Printf("✅ DB -> Sheets sync completed: %d records, %d errors in %dms",
		summary.TotalProcessed(), summary.TotalErrors(), summary.TotalDurationMs)
	return summary
}

// SyncAll rewrites every tab body from the database. Recovery mode for a
// corrupted or freshly provisioned spreadsheet; the provenance filter does
// not apply.
func (s *DBToSheets) SyncAll(ctx context.Context) *Summary {
	summary := NewSummary(models.DirectionDBToSheets + "_full")
	log.Println("🔄 Starting full DB -> Sheets rewrite")

	summary.Add(replaceKind(ctx, s.rows, "clientes", SheetClientes,
		s.stores.Clientes.FindAll, (*models.Cliente).ToRow))
	summary.Add(replaceKind(ctx, s.rows, "equipos", SheetEquipos,
		s.stores.Equipos.FindAll, (*models.Equipo).ToRow))
	summary.Add(replaceKind(ctx, s.rows, "proyectos", SheetProyectos,
		s.stores.Proyectos.FindAll, (*models.Proyecto).ToRow))
	summary.Add(replaceKind(ctx, s.rows, "perforaciones", SheetPerforaciones,
		s.stores.Perforaciones.FindAll, (*models.Perforacion).ToRow))
	summary.Add(replaceKind(ctx, s.rows, "ensayos", SheetEnsayos,
		s.stores.Ensayos.FindAll, (*models.Ensayo).ToRow))

	summary.Finalize()
	log.Printf("✅ Full DB -> Sheets rewrite completed: %d records, %d errors in %dms",
		summary.TotalProcessed(), summary.TotalErrors(), summary.TotalDurationMs)
	return summary
}

// pushKind exports one kind incrementally: update the row in place, fall
// back to append when the id is not in the tab (or the update failed), and
// record the record id only when both writes fail.
func pushKind[T any](
	ctx context.Context,
	rows RowStore,
	kind, sheet string,
	list func() ([]T, error),
	idOf func(*T) string,
	toRow func(*T) []string,
) *Result {
	result := NewResult(kind)

	items, err := list()
	if err != nil {
		log.Printf("❌ Failed to load modified %s: %v", kind, err)
		result.AddError("db", err.Error())
		result.Finalize()
		return result
	}

	for i := range items {
		rec := &items[i]
		result.TotalProcessed++
		row := toRow(rec)

		found, err := rows.UpdateByID(ctx, sheet, idOf(rec), row)
		if err == nil && found {
			result.Updated++
			continue
		}

		if appendErr := rows.Append(ctx, sheet, row); appendErr != nil {
			log.Printf("⚠️ Failed to push %s %s: update=%v append=%v",
				kind, idOf(rec), err, appendErr)
			result.AddError(idOf(rec), appendErr.Error())
			continue
		}
		result.Inserted++
	}

	result.Finalize()
	log.Printf("🔄 %s pushed: %d processed, %d updated, %d appended, %d errors",
		kind, result.TotalProcessed, result.Updated, result.Inserted, len(result.Errors))
	return result
}

// replaceKind rewrites one tab body wholesale.
func replaceKind[T any](
	ctx context.Context,
	rows RowStore,
	kind, sheet string,
	list func() ([]T, error),
	toRow func(*T) []string,
) *Result {
	result := NewResult(kind)

	items, err := list()
	if err != nil {
		log.Printf("❌ Failed to load %s: %v", kind, err)
		result.AddError("db", err.Error())
		result.Finalize()
		return result
	}

	body := make([][]string, len(items))
	for i := range items {
		body[i] = toRow(&items[i])
	}
	result.TotalProcessed = len(items)

	if err := rows.ReplaceAll(ctx, sheet, body); err != nil {
		log.Printf("❌ Failed to rewrite sheet %s: %v", sheet, err)
		result.AddError("sheet", err.Error())
		result.Finalize()
		return result
	}

	result.Updated = len(items)
	result.Finalize()
	log.Printf("🔄 %s rewritten: %d rows", kind, len(items))
	return result
}
