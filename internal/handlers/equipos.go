package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/rulos-nico/17025/internal/models"
	"github.com/rulos-nico/17025/internal/utils"
)

func (r *Router) listEquipos(w http.ResponseWriter, req *http.Request) {
	equipos, err := r.stores.Equipos.FindAll()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to list equipos")
		return
	}
	respondJSON(w, http.StatusOK, equipos)
}

// listCalibrationDue returns equipment whose next calibration falls within
// the window (?days=30 by default).
func (r *Router) listCalibrationDue(w http.ResponseWriter, req *http.Request) {
	days := 30
	if raw := req.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			respondError(w, http.StatusBadRequest, "days must be a non-negative integer")
			return
		}
		days = parsed
	}
	cutoff := time.Now().UTC().AddDate(0, 0, days).Format("2006-01-02")

	equipos, err := r.stores.Equipos.FindCalibrationDue(cutoff)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to query calibration schedule")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"cutoff":  cutoff,
		"count":   len(equipos),
		"equipos": equipos,
	})
}

func (r *Router) getEquipo(w http.ResponseWriter, req *http.Request) {
	equipo, err := r.stores.Equipos.FindByID(mux.Vars(req)["id"])
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load equipo")
		return
	}
	if equipo == nil {
		respondError(w, http.StatusNotFound, "Equipo not found")
		return
	}
	respondJSON(w, http.StatusOK, equipo)
}

func (r *Router) createEquipo(w http.ResponseWriter, req *http.Request) {
	var equipo models.Equipo
	if err := json.NewDecoder(req.Body).Decode(&equipo); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if equipo.Nombre == "" {
		respondError(w, http.StatusBadRequest, "nombre is required")
		return
	}

	equipo.ID = utils.GenerateUUID()
	if equipo.Codigo == "" {
		equipo.Codigo = utils.GenerateSimpleCode("EQ")
	}
	if equipo.Estado == "" {
		equipo.Estado = models.EquipoEstadoOperativo
	}
	equipo.Activo = true

	if err := r.stores.Equipos.Create(&equipo); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create equipo")
		return
	}
	respondJSON(w, http.StatusCreated, equipo)
}

func (r *Router) updateEquipo(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]
	existing, err := r.stores.Equipos.FindByID(id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load equipo")
		return
	}
	if existing == nil {
		respondError(w, http.StatusNotFound, "Equipo not found")
		return
	}

	if err := json.NewDecoder(req.Body).Decode(existing); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	existing.ID = id

	if err := r.stores.Equipos.Update(existing); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update equipo")
		return
	}
	respondJSON(w, http.StatusOK, existing)
}

// deleteEquipo retires the equipment (baja) rather than removing its record;
// calibration history must survive.
func (r *Router) deleteEquipo(w http.ResponseWriter, req *http.Request) {
	found, err := r.stores.Equipos.Delete(mux.Vars(req)["id"])
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to retire equipo")
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "Equipo not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": models.EquipoEstadoBaja})
}
