package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/rulos-nico/17025/internal/models"
	"github.com/rulos-nico/17025/internal/utils"
)

func (r *Router) listPerforaciones(w http.ResponseWriter, req *http.Request) {
	var (
		perforaciones []models.Perforacion
		err           error
	)
	if proyectoID := req.URL.Query().Get("proyecto_id"); proyectoID != "" {
		perforaciones, err = r.stores.Perforaciones.FindByProyecto(proyectoID)
	} else {
		perforaciones, err = r.stores.Perforaciones.FindAll()
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to list perforaciones")
		return
	}
	respondJSON(w, http.StatusOK, perforaciones)
}

func (r *Router) getPerforacion(w http.ResponseWriter, req *http.Request) {
	perforacion, err := r.stores.Perforaciones.FindByID(mux.Vars(req)["id"])
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load perforacion")
		return
	}
	if perforacion == nil {
		respondError(w, http.StatusNotFound, "Perforacion not found")
		return
	}
	respondJSON(w, http.StatusOK, perforacion)
}

func (r *Router) createPerforacion(w http.ResponseWriter, req *http.Request) {
	var perforacion models.Perforacion
	if err := json.NewDecoder(req.Body).Decode(&perforacion); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if perforacion.Nombre == "" || perforacion.ProyectoID == "" {
		respondError(w, http.StatusBadRequest, "nombre and proyecto_id are required")
		return
	}

	proyecto, err := r.stores.Proyectos.FindByID(perforacion.ProyectoID)
	if err != nil || proyecto == nil {
		respondError(w, http.StatusBadRequest, "proyecto_id does not exist")
		return
	}

	perforacion.ID = utils.GenerateUUID()
	if perforacion.Codigo == "" {
		perforacion.Codigo = utils.GenerateDatedCode("PERF")
	}
	if perforacion.Estado == "" {
		perforacion.Estado = models.EstadoActivo
	}

	if err := r.stores.Perforaciones.Create(&perforacion); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create perforacion")
		return
	}

	go r.ensurePerforacionFolder(perforacion.ID, perforacion.Codigo, proyecto)

	respondJSON(w, http.StatusCreated, perforacion)
}

func (r *Router) updatePerforacion(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]
	existing, err := r.stores.Perforaciones.FindByID(id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load perforacion")
		return
	}
	if existing == nil {
		respondError(w, http.StatusNotFound, "Perforacion not found")
		return
	}

	if err := json.NewDecoder(req.Body).Decode(existing); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	existing.ID = id

	if err := r.stores.Perforaciones.Update(existing); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update perforacion")
		return
	}
	respondJSON(w, http.StatusOK, existing)
}

func (r *Router) deletePerforacion(w http.ResponseWriter, req *http.Request) {
	found, err := r.stores.Perforaciones.Delete(mux.Vars(req)["id"])
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to cancel perforacion")
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "Perforacion not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "cancelado"})
}

// ensurePerforacionFolder creates the drilling folder inside the project
// folder. Sheets and reports of the drilling's ensayos land here.
func (r *Router) ensurePerforacionFolder(perforacionID, codigo string, proyecto *models.Proyecto) {
	if r.drive == nil || proyecto.DriveFolderID == nil || *proyecto.DriveFolderID == "" {
		return
	}
	ctx := context.Background()

	folderID, err := r.drive.EnsureFolder(ctx, codigo, *proyecto.DriveFolderID)
	if err != nil {
		log.Printf("⚠️ Drive folder for perforacion %s: %v", codigo, err)
		return
	}
	if _, err := r.stores.Perforaciones.UpdateDriveFolder(perforacionID, folderID); err != nil {
		log.Printf("⚠️ Persisting perforacion folder %s: %v", perforacionID, err)
	}
}
