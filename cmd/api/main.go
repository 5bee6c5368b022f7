package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rulos-nico/17025/internal/config"
	"github.com/rulos-nico/17025/internal/database"
	"github.com/rulos-nico/17025/internal/handlers"
	"github.com/rulos-nico/17025/internal/models"
	"github.com/rulos-nico/17025/internal/services/classifier"
	"github.com/rulos-nico/17025/internal/services/gdrive"
	"github.com/rulos-nico/17025/internal/services/gsheets"
	"github.com/rulos-nico/17025/internal/services/worksheets"
	"github.com/rulos-nico/17025/internal/store"
	labsync "github.com/rulos-nico/17025/internal/sync"
	"github.com/rulos-nico/17025/internal/websocket"
)

func main() {
	ctx := context.Background()

	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// 2. Initialize database (Detects Embedded vs External automatically)
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	// Note: db.Close() is called manually in shutdown handler below

	// 3. Auto-Migrate Schema
	log.Println("🚀 Synchronizing database schema...")
	err = db.AutoMigrate(
		&models.UserAuth{},

		// Lab entities
		&models.Cliente{},
		&models.Proyecto{},
		&models.Perforacion{},
		&models.Muestra{},
		&models.Ensayo{},
		&models.Equipo{},
		&models.Sensor{},
		&models.Calibracion{},
		&models.Comprobacion{},
		&models.PersonalInterno{},

		// Reconciliation state
		&models.SyncCheckpoint{},
		&models.SyncLease{},
		&models.SyncRun{},
	)
	if err != nil {
		log.Printf("⚠️ Migration warning: %v\n", err)
	} else {
		log.Println("✅ Schema synchronized successfully")
	}

	stores := store.NewStores(db.DB)

	// 4. Google Sheets + Drive clients
	rows, err := gsheets.NewClient(ctx, cfg.Google.CredentialsFile, cfg.Google.SpreadsheetID)
	if err != nil {
		log.Fatalf("Failed to init Sheets client: %v", err)
	}
	if err := rows.Ping(ctx); err != nil {
		log.Fatalf("Spreadsheet %s unreachable: %v", cfg.Google.SpreadsheetID, err)
	}

	drive, err := gdrive.NewClient(ctx, cfg.Google.CredentialsFile)
	if err != nil {
		log.Fatalf("Failed to init Drive client: %v", err)
	}

	templates := map[string]worksheets.Template{}
	for tipo, fileID := range cfg.Google.Templates {
		templates[tipo] = worksheets.Template{Nombre: tipo, TemplateID: fileID}
	}
	worksheetSvc := worksheets.NewService(drive, templates)
	log.Printf("📄 Worksheet templates configured: %v", worksheetSvc.AvailableTypes())

	// 5. Reconciliation engine
	syncStores := labsync.Stores{
		Clientes:      stores.Clientes,
		Proyectos:     stores.Proyectos,
		Perforaciones: stores.Perforaciones,
		Ensayos:       stores.Ensayos,
		Equipos:       stores.Equipos,
	}
	engine := labsync.NewEngine(
		labsync.NewSheetsToDB(rows, syncStores),
		labsync.NewDBToSheets(rows, syncStores),
		stores.SyncState,
		cfg.Sync.Holder,
		cfg.Sync.LeaseTTL,
	)

	// 6. Optional Gemini document classifier
	var cls *classifier.Client
	if cfg.Gemini.APIKey != "" {
		cls, err = classifier.NewClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			log.Printf("⚠️ Classifier disabled: %v", err)
		} else {
			defer cls.Close()
			log.Println("✅ Document classifier ready")
		}
	}

	// 7. Websocket hub for dashboard events
	hub := websocket.NewHub()
	go hub.Run()

	// 8. HTTP router
	router := handlers.NewRouter(cfg, stores, engine, drive, worksheetSvc, cls, hub)

	// 9. Scheduled reconciliation: pull then push, on an interval. Manual
	// runs through the API share the same lease.
	if cfg.Sync.Enabled {
		go func() {
			ticker := time.NewTicker(cfg.Sync.Interval)
			defer ticker.Stop()
			for range ticker.C {
				runCtx, cancel := context.WithTimeout(context.Background(), cfg.Sync.LeaseTTL)
				if _, _, err := engine.RunFull(runCtx); err != nil && !errors.Is(err, labsync.ErrBusy) {
					log.Printf("⚠️ Scheduled sync failed: %v", err)
				}
				cancel()
			}
		}()
		log.Printf("✅ Scheduled sync every %s", cfg.Sync.Interval)
	}

	// 10. Start server with graceful shutdown
	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		log.Printf("🚀 API listening on port %s\n", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	sig := <-shutdown
	log.Printf("\n⚠️  Received signal: %v. Shutting down gracefully...\n", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	log.Println("🛑 Closing database connection...")
	if err := db.Close(); err != nil {
		log.Printf("Database close error: %v", err)
	}

	log.Println("✅ Shutdown complete")
}
