package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/rulos-nico/17025/internal/models"
	"github.com/rulos-nico/17025/internal/utils"
)

func (r *Router) listCalibraciones(w http.ResponseWriter, req *http.Request) {
	var (
		calibraciones []models.Calibracion
		err           error
	)
	if equipoID := req.URL.Query().Get("equipo_id"); equipoID != "" {
		calibraciones, err = r.stores.Calibraciones.FindByEquipo(equipoID)
	} else {
		calibraciones, err = r.stores.Calibraciones.FindAll()
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to list calibraciones")
		return
	}
	respondJSON(w, http.StatusOK, calibraciones)
}

func (r *Router) getCalibracion(w http.ResponseWriter, req *http.Request) {
	calibracion, err := r.stores.Calibraciones.FindByID(mux.Vars(req)["id"])
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load calibracion")
		return
	}
	if calibracion == nil {
		respondError(w, http.StatusNotFound, "Calibracion not found")
		return
	}
	respondJSON(w, http.StatusOK, calibracion)
}

// createCalibracion records an external calibration and rolls the equipment's
// calibration dates forward.
func (r *Router) createCalibracion(w http.ResponseWriter, req *http.Request) {
	var calibracion models.Calibracion
	if err := json.NewDecoder(req.Body).Decode(&calibracion); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if calibracion.EquipoID == "" || calibracion.Fecha == "" || calibracion.Laboratorio == "" {
		respondError(w, http.StatusBadRequest, "equipo_id, fecha and laboratorio are required")
		return
	}

	equipo, err := r.stores.Equipos.FindByID(calibracion.EquipoID)
	if err != nil || equipo == nil {
		respondError(w, http.StatusBadRequest, "equipo_id does not exist")
		return
	}

	calibracion.ID = utils.GenerateUUID()
	if err := r.stores.Calibraciones.Create(&calibracion); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create calibracion")
		return
	}

	equipo.FechaCalibracion = &calibracion.Fecha
	equipo.ProximaCalibracion = calibracion.ProximaCalibracion
	equipo.CertificadoID = calibracion.Certificado
	if err := r.stores.Equipos.Update(equipo); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update equipo calibration dates")
		return
	}

	respondJSON(w, http.StatusCreated, calibracion)
}

func (r *Router) updateCalibracion(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]
	existing, err := r.stores.Calibraciones.FindByID(id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load calibracion")
		return
	}
	if existing == nil {
		respondError(w, http.StatusNotFound, "Calibracion not found")
		return
	}

	if err := json.NewDecoder(req.Body).Decode(existing); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	existing.ID = id

	if err := r.stores.Calibraciones.Update(existing); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update calibracion")
		return
	}
	respondJSON(w, http.StatusOK, existing)
}

func (r *Router) deleteCalibracion(w http.ResponseWriter, req *http.Request) {
	found, err := r.stores.Calibraciones.Delete(mux.Vars(req)["id"])
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete calibracion")
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "Calibracion not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
