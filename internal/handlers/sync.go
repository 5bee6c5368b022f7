package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/rulos-nico/17025/internal/models"
	labsync "github.com/rulos-nico/17025/internal/sync"
)

// syncSheetsToDB triggers a pull pass: every sheet tab is read and upserted
// into the database.
func (r *Router) syncSheetsToDB(w http.ResponseWriter, req *http.Request) {
	summary, err := r.engine.RunSheetsToDB(req.Context())
	if err != nil {
		r.respondSyncError(w, err)
		return
	}
	r.notifySyncDone(models.DirectionSheetsToDB)
	respondJSON(w, http.StatusOK, summary)
}

// syncDBToSheets triggers a push pass. Accepts ?since=RFC3339 to override
// the stored watermark, and ?full=true for a full tab rewrite.
func (r *Router) syncDBToSheets(w http.ResponseWriter, req *http.Request) {
	if req.URL.Query().Get("full") == "true" {
		summary, err := r.engine.RunSeedSheets(req.Context())
		if err != nil {
			r.respondSyncError(w, err)
			return
		}
		r.notifySyncDone(models.DirectionDBToSheets)
		respondJSON(w, http.StatusOK, summary)
		return
	}

	var since *time.Time
	if raw := req.URL.Query().Get("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "since must be RFC3339")
			return
		}
		since = &parsed
	}

	summary, err := r.engine.RunDBToSheets(req.Context(), since)
	if err != nil {
		r.respondSyncError(w, err)
		return
	}
	r.notifySyncDone(models.DirectionDBToSheets)
	respondJSON(w, http.StatusOK, summary)
}

// syncFull runs both directions: pull first, then push.
func (r *Router) syncFull(w http.ResponseWriter, req *http.Request) {
	pull, push, err := r.engine.RunFull(req.Context())
	if err != nil {
		r.respondSyncError(w, err)
		return
	}
	r.notifySyncDone(models.DirectionSheetsToDB)
	r.notifySyncDone(models.DirectionDBToSheets)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"sheets_to_db": pull,
		"db_to_sheets": push,
	})
}

// syncSeedSheets rewrites every tab from the database. Used to bootstrap a
// fresh spreadsheet.
func (r *Router) syncSeedSheets(w http.ResponseWriter, req *http.Request) {
	summary, err := r.engine.RunSeedSheets(req.Context())
	if err != nil {
		r.respondSyncError(w, err)
		return
	}
	r.notifySyncDone(models.DirectionDBToSheets)
	respondJSON(w, http.StatusOK, summary)
}

// syncStatus reports watermarks and recent run history.
func (r *Router) syncStatus(w http.ResponseWriter, req *http.Request) {
	pullCP, err := r.engine.Checkpoint(models.DirectionSheetsToDB)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load checkpoints")
		return
	}
	pushCP, err := r.engine.Checkpoint(models.DirectionDBToSheets)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load checkpoints")
		return
	}

	runs, err := r.stores.SyncState.RecentRuns(20)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load run history")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"checkpoints": map[string]*time.Time{
			models.DirectionSheetsToDB: pullCP,
			models.DirectionDBToSheets: pushCP,
		},
		"recent_runs": runs,
	})
}

func (r *Router) respondSyncError(w http.ResponseWriter, err error) {
	if errors.Is(err, labsync.ErrBusy) {
		respondError(w, http.StatusConflict, "A sync run is already in progress")
		return
	}
	respondError(w, http.StatusInternalServerError, err.Error())
}

func (r *Router) notifySyncDone(direction string) {
	run, err := r.stores.SyncState.LastRun(direction)
	if err != nil || run == nil {
		return
	}
	r.hub.NotifySyncRun(run)
}
