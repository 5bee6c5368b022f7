package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/rulos-nico/17025/internal/buildinfo"
	"github.com/rulos-nico/17025/internal/config"
	"github.com/rulos-nico/17025/internal/middleware"
	"github.com/rulos-nico/17025/internal/services/classifier"
	"github.com/rulos-nico/17025/internal/services/gdrive"
	"github.com/rulos-nico/17025/internal/services/worksheets"
	"github.com/rulos-nico/17025/internal/store"
	labsync "github.com/rulos-nico/17025/internal/sync"
	"github.com/rulos-nico/17025/internal/websocket"
)

// Router wraps the mux router and the application services.
type Router struct {
	*mux.Router
	stores     *store.Stores
	engine     *labsync.Engine
	drive      *gdrive.Client // nil when Drive is not configured
	worksheets *worksheets.Service
	classifier *classifier.Client // nil when GEMINI_API_KEY is unset
	hub        *websocket.Hub
	cfg        *config.Config
}

// NewRouter creates a new HTTP router with all routes
func NewRouter(cfg *config.Config, stores *store.Stores, engine *labsync.Engine,
	drive *gdrive.Client, ws *worksheets.Service, cls *classifier.Client, hub *websocket.Hub) *Router {
	r := &Router{
		Router:     mux.NewRouter(),
		stores:     stores,
		engine:     engine,
		drive:      drive,
		worksheets: ws,
		classifier: cls,
		hub:        hub,
		cfg:        cfg,
	}

	r.Use(middleware.CaseInsensitiveMiddleware)

	// Public endpoints
	r.HandleFunc("/health", r.healthCheck).Methods("GET")
	r.HandleFunc("/api/status", r.getStatus).Methods("GET")
	r.HandleFunc("/ws", func(w http.ResponseWriter, req *http.Request) {
		websocket.ServeWs(r.hub, w, req)
	})

	// Auth routes
	auth := r.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/login", r.login).Methods("POST")
	auth.HandleFunc("/register", r.register).Methods("POST")

	// Everything under /api requires a valid token
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.Auth(cfg.JWTSecret))

	// Clientes
	clientes := api.PathPrefix("/clientes").Subrouter()
	clientes.HandleFunc("", r.listClientes).Methods("GET")
	clientes.HandleFunc("", r.createCliente).Methods("POST")
	clientes.HandleFunc("/{id}", r.getCliente).Methods("GET")
	clientes.HandleFunc("/{id}", r.updateCliente).Methods("PUT")
	clientes.HandleFunc("/{id}", r.deleteCliente).Methods("DELETE")

	// Proyectos
	proyectos := api.PathPrefix("/proyectos").Subrouter()
	proyectos.HandleFunc("", r.listProyectos).Methods("GET")
	proyectos.HandleFunc("", r.createProyecto).Methods("POST")
	proyectos.HandleFunc("/{id}", r.getProyecto).Methods("GET")
	proyectos.HandleFunc("/{id}", r.updateProyecto).Methods("PUT")
	proyectos.HandleFunc("/{id}", r.deleteProyecto).Methods("DELETE")

	// Perforaciones
	perforaciones := api.PathPrefix("/perforaciones").Subrouter()
	perforaciones.HandleFunc("", r.listPerforaciones).Methods("GET")
	perforaciones.HandleFunc("", r.createPerforacion).Methods("POST")
	perforaciones.HandleFunc("/{id}", r.getPerforacion).Methods("GET")
	perforaciones.HandleFunc("/{id}", r.updatePerforacion).Methods("PUT")
	perforaciones.HandleFunc("/{id}", r.deletePerforacion).Methods("DELETE")

	// Muestras
	muestras := api.PathPrefix("/muestras").Subrouter()
	muestras.HandleFunc("", r.listMuestras).Methods("GET")
	muestras.HandleFunc("", r.createMuestra).Methods("POST")
	muestras.HandleFunc("/labels", r.printMuestraLabels).Methods("POST")
	muestras.HandleFunc("/{id}", r.getMuestra).Methods("GET")
	muestras.HandleFunc("/{id}", r.updateMuestra).Methods("PUT")
	muestras.HandleFunc("/{id}", r.deleteMuestra).Methods("DELETE")

	// Ensayos
	ensayos := api.PathPrefix("/ensayos").Subrouter()
	ensayos.HandleFunc("", r.listEnsayos).Methods("GET")
	ensayos.HandleFunc("", r.createEnsayo).Methods("POST")
	ensayos.HandleFunc("/{id}", r.getEnsayo).Methods("GET")
	ensayos.HandleFunc("/{id}", r.updateEnsayo).Methods("PUT")
	ensayos.HandleFunc("/{id}", r.deleteEnsayo).Methods("DELETE")
	ensayos.HandleFunc("/{id}/status", r.updateEnsayoStatus).Methods("PUT")
	ensayos.HandleFunc("/{id}/worksheet", r.createEnsayoWorksheet).Methods("POST")
	ensayos.HandleFunc("/{id}/report", r.generateEnsayoReport).Methods("POST")
	ensayos.HandleFunc("/{id}/report", r.downloadEnsayoReport).Methods("GET")

	// Equipos y sensores
	equipos := api.PathPrefix("/equipos").Subrouter()
	equipos.HandleFunc("", r.listEquipos).Methods("GET")
	equipos.HandleFunc("", r.createEquipo).Methods("POST")
	equipos.HandleFunc("/calibration-due", r.listCalibrationDue).Methods("GET")
	equipos.HandleFunc("/{id}", r.getEquipo).Methods("GET")
	equipos.HandleFunc("/{id}", r.updateEquipo).Methods("PUT")
	equipos.HandleFunc("/{id}", r.deleteEquipo).Methods("DELETE")

	sensores := api.PathPrefix("/sensores").Subrouter()
	sensores.HandleFunc("", r.listSensores).Methods("GET")
	sensores.HandleFunc("", r.createSensor).Methods("POST")
	sensores.HandleFunc("/{id}", r.getSensor).Methods("GET")
	sensores.HandleFunc("/{id}", r.updateSensor).Methods("PUT")
	sensores.HandleFunc("/{id}", r.deleteSensor).Methods("DELETE")
	sensores.HandleFunc("/{id}/equipo", r.assignSensorEquipo).Methods("PUT")

	calibraciones := api.PathPrefix("/calibraciones").Subrouter()
	calibraciones.HandleFunc("", r.listCalibraciones).Methods("GET")
	calibraciones.HandleFunc("", r.createCalibracion).Methods("POST")
	calibraciones.HandleFunc("/{id}", r.getCalibracion).Methods("GET")
	calibraciones.HandleFunc("/{id}", r.updateCalibracion).Methods("PUT")
	calibraciones.HandleFunc("/{id}", r.deleteCalibracion).Methods("DELETE")

	comprobaciones := api.PathPrefix("/comprobaciones").Subrouter()
	comprobaciones.HandleFunc("", r.listComprobaciones).Methods("GET")
	comprobaciones.HandleFunc("", r.createComprobacion).Methods("POST")
	comprobaciones.HandleFunc("/{id}", r.getComprobacion).Methods("GET")
	comprobaciones.HandleFunc("/{id}", r.updateComprobacion).Methods("PUT")
	comprobaciones.HandleFunc("/{id}", r.deleteComprobacion).Methods("DELETE")

	personal := api.PathPrefix("/personal").Subrouter()
	personal.HandleFunc("", r.listPersonal).Methods("GET")
	personal.HandleFunc("", r.createPersonal).Methods("POST")
	personal.HandleFunc("/{id}", r.getPersonal).Methods("GET")
	personal.HandleFunc("/{id}", r.updatePersonal).Methods("PUT")
	personal.HandleFunc("/{id}", r.deletePersonal).Methods("DELETE")

	// Reconciliation control, admin only
	syncRoutes := api.PathPrefix("/sync").Subrouter()
	syncRoutes.Use(middleware.RequireRole("admin"))
	syncRoutes.HandleFunc("/sheets-to-db", r.syncSheetsToDB).Methods("POST")
	syncRoutes.HandleFunc("/db-to-sheets", r.syncDBToSheets).Methods("POST")
	syncRoutes.HandleFunc("/full", r.syncFull).Methods("POST")
	syncRoutes.HandleFunc("/seed-sheets", r.syncSeedSheets).Methods("POST")
	syncRoutes.HandleFunc("/status", r.syncStatus).Methods("GET")

	// Document intake
	api.HandleFunc("/documents/classify", r.classifyDocument).Methods("POST")

	return r
}

// healthCheck returns the health status of the API
func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// getStatus returns version and runtime information
func (r *Router) getStatus(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "running",
		"commit":     buildinfo.CommitHash,
		"built":      buildinfo.BuildTime,
		"started":    buildinfo.StartTime,
		"env":        r.cfg.Env,
		"ws_clients": r.hub.ClientCount(),
	})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
