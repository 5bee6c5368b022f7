package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/rulos-nico/17025/internal/models"
	"github.com/rulos-nico/17025/internal/utils"
)

func (r *Router) listComprobaciones(w http.ResponseWriter, req *http.Request) {
	var (
		comprobaciones []models.Comprobacion
		err            error
	)
	if equipoID := req.URL.Query().Get("equipo_id"); equipoID != "" {
		comprobaciones, err = r.stores.Comprobaciones.FindByEquipo(equipoID)
	} else {
		comprobaciones, err = r.stores.Comprobaciones.FindAll()
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to list comprobaciones")
		return
	}
	respondJSON(w, http.StatusOK, comprobaciones)
}

func (r *Router) getComprobacion(w http.ResponseWriter, req *http.Request) {
	comprobacion, err := r.stores.Comprobaciones.FindByID(mux.Vars(req)["id"])
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load comprobacion")
		return
	}
	if comprobacion == nil {
		respondError(w, http.StatusNotFound, "Comprobacion not found")
		return
	}
	respondJSON(w, http.StatusOK, comprobacion)
}

func (r *Router) createComprobacion(w http.ResponseWriter, req *http.Request) {
	var comprobacion models.Comprobacion
	if err := json.NewDecoder(req.Body).Decode(&comprobacion); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if comprobacion.EquipoID == "" || comprobacion.Fecha == "" {
		respondError(w, http.StatusBadRequest, "equipo_id and fecha are required")
		return
	}
	if comprobacion.Resultado != models.ComprobacionConforme &&
		comprobacion.Resultado != models.ComprobacionNoConforme {
		respondError(w, http.StatusBadRequest, "resultado must be Conforme or No Conforme")
		return
	}

	equipo, err := r.stores.Equipos.FindByID(comprobacion.EquipoID)
	if err != nil || equipo == nil {
		respondError(w, http.StatusBadRequest, "equipo_id does not exist")
		return
	}

	comprobacion.ID = utils.GenerateUUID()
	if err := r.stores.Comprobaciones.Create(&comprobacion); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create comprobacion")
		return
	}

	// A failed verification takes the equipment out of service.
	if comprobacion.Resultado == models.ComprobacionNoConforme &&
		equipo.Estado == models.EquipoEstadoOperativo {
		equipo.Estado = models.EquipoEstadoMantenimiento
		if err := r.stores.Equipos.Update(equipo); err != nil {
			respondError(w, http.StatusInternalServerError, "Failed to flag equipo for maintenance")
			return
		}
	}

	respondJSON(w, http.StatusCreated, comprobacion)
}

func (r *Router) updateComprobacion(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]
	existing, err := r.stores.Comprobaciones.FindByID(id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load comprobacion")
		return
	}
	if existing == nil {
		respondError(w, http.StatusNotFound, "Comprobacion not found")
		return
	}

	if err := json.NewDecoder(req.Body).Decode(existing); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	existing.ID = id

	if err := r.stores.Comprobaciones.Update(existing); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update comprobacion")
		return
	}
	respondJSON(w, http.StatusOK, existing)
}

func (r *Router) deleteComprobacion(w http.ResponseWriter, req *http.Request) {
	found, err := r.stores.Comprobaciones.Delete(mux.Vars(req)["id"])
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete comprobacion")
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "Comprobacion not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
