package sync

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"gorm.io/datatypes"

	"github.com/rulos-nico/17025/internal/models"
)

// ErrBusy is returned when another run of the same direction holds the lease.
// The HTTP layer maps it to 409.
var ErrBusy = errors.New("sync already running for this direction")

// defaultLookback bounds the first incremental push when no checkpoint
// exists yet.
const defaultLookback = 24 * time.Hour

// Engine coordinates both directions behind per-direction leases, maintains
// the durable watermarks and records run history.
type Engine struct {
	pull     *SheetsToDB
	push     *DBToSheets
	state    StateStore
	holder   string
	leaseTTL time.Duration
}

// NewEngine wires the two directions to the shared sync state. holder
// identifies this process in lease rows (one uuid per boot).
func NewEngine(pull *SheetsToDB, push *DBToSheets, state StateStore, holder string, leaseTTL time.Duration) *Engine {
	if leaseTTL <= 0 {
		leaseTTL = 10 * time.Minute
	}
	return &Engine{pull: pull, push: push, state: state, holder: holder, leaseTTL: leaseTTL}
}

// RunSheetsToDB executes one pull run under the sheets_to_db lease.
func (e *Engine) RunSheetsToDB(ctx context.Context) (*Summary, error) {
	release, err := e.acquire(models.DirectionSheetsToDB)
	if err != nil {
		return nil, err
	}
	defer release()

	started := time.Now().UTC()
	summary := e.pull.SyncAll(ctx)
	e.finishRun(models.DirectionSheetsToDB, started, summary)
	return summary, nil
}

// RunDBToSheets executes one incremental push under the db_to_sheets lease.
// The watermark is, in order of preference: the caller-supplied since, the
// stored checkpoint, now minus the default lookback.
func (e *Engine) RunDBToSheets(ctx context.Context, since *time.Time) (*Summary, error) {
	release, err := e.acquire(models.DirectionDBToSheets)
	if err != nil {
		return nil, err
	}
	defer release()

	started := time.Now().UTC()
	watermark := e.resolveWatermark(since, started)
	summary := e.push.SyncChangesSince(ctx, watermark)
	e.finishRun(models.DirectionDBToSheets, started, summary)
	return summary, nil
}

// RunFull pulls then pushes, each under its own lease. The pull summary is
// returned even when the push lease is busy.
func (e *Engine) RunFull(ctx context.Context) (*Summary, *Summary, error) {
	pullSummary, err := e.RunSheetsToDB(ctx)
	if err != nil {
		return nil, nil, err
	}
	pushSummary, err := e.RunDBToSheets(ctx, nil)
	if err != nil {
		return pullSummary, nil, err
	}
	return pullSummary, pushSummary, nil
}

// RunSeedSheets rewrites every tab from the database (recovery mode), under
// the db_to_sheets lease so it can't race an incremental push.
func (e *Engine) RunSeedSheets(ctx context.Context) (*Summary, error) {
	release, err := e.acquire(models.DirectionDBToSheets)
	if err != nil {
		return nil, err
	}
	defer release()

	started := time.Now().UTC()
	summary := e.push.SyncAll(ctx)
	e.finishRun(models.DirectionDBToSheets, started, summary)
	return summary, nil
}

// Checkpoint exposes the stored watermark of a direction for the status
// endpoint.
func (e *Engine) Checkpoint(direction string) (*time.Time, error) {
	return e.state.Checkpoint(direction)
}

func (e *Engine) acquire(direction string) (func(), error) {
	ok, err := e.state.AcquireLease(direction, e.holder, e.leaseTTL)
	if err != nil {
		return nil, err
	}
	if !ok {
		log.Printf("⏳ Sync %s requested while another run holds the lease", direction)
		return nil, ErrBusy
	}
	return func() {
		if err := e.state.ReleaseLease(direction, e.holder); err != nil {
			log.Printf("⚠️ Failed to release sync lease %s: %v", direction, err)
		}
	}, nil
}

func (e *Engine) resolveWatermark(since *time.Time, now time.Time) time.Time {
	if since != nil {
		return since.UTC()
	}
	cp, err := e.state.Checkpoint(models.DirectionDBToSheets)
	if err != nil {
		log.Printf("⚠️ Failed to load sync checkpoint, using %s lookback: %v", defaultLookback, err)
		return now.Add(-defaultLookback)
	}
	if cp == nil {
		return now.Add(-defaultLookback)
	}
	return cp.UTC()
}

// finishRun advances the watermark to the run's start time and appends the
// run to the history. The checkpoint moves even on partial failure: failed
// records are recorded in the summary, and holding the watermark back would
// re-export every successful record too. A run that failed outright (status
// "error", nothing exported) keeps the old watermark so the missed window is
// retried on the next run instead of silently skipped.
func (e *Engine) finishRun(direction string, started time.Time, summary *Summary) {
	status := runStatus(summary)
	if status == "error" {
		log.Printf("⚠️ Sync %s failed, keeping previous checkpoint", direction)
	} else if err := e.state.SetCheckpoint(direction, started); err != nil {
		log.Printf("⚠️ Failed to store sync checkpoint %s: %v", direction, err)
	}

	run := &models.SyncRun{
		Direction:      direction,
		Status:         status,
		StartedAt:      summary.StartedAt,
		Duration:       int(summary.TotalDurationMs),
		TotalProcessed: summary.TotalProcessed(),
		Inserted:       summary.TotalInserted(),
		Updated:        summary.TotalUpdated(),
		Errors:         summary.TotalErrors(),
	}
	completed := summary.CompletedAt
	run.CompletedAt = &completed
	if details, err := json.Marshal(summary.Results); err == nil {
		run.Details = datatypes.JSON(details)
	}
	if err := e.state.RecordRun(run); err != nil {
		log.Printf("⚠️ Failed to record sync run %s: %v", direction, err)
	}
}

func runStatus(summary *Summary) string {
	switch {
	case summary.IsSuccess():
		return "success"
	case summary.TotalProcessed() > summary.TotalErrors():
		return "partial"
	default:
		return "error"
	}
}
