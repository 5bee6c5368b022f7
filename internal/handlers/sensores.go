package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/rulos-nico/17025/internal/models"
	"github.com/rulos-nico/17025/internal/utils"
)

func (r *Router) listSensores(w http.ResponseWriter, req *http.Request) {
	var (
		sensores []models.Sensor
		err      error
	)
	if equipoID := req.URL.Query().Get("equipo_id"); equipoID != "" {
		sensores, err = r.stores.Sensores.FindByEquipo(equipoID)
	} else {
		sensores, err = r.stores.Sensores.FindAll()
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to list sensores")
		return
	}
	respondJSON(w, http.StatusOK, sensores)
}

func (r *Router) getSensor(w http.ResponseWriter, req *http.Request) {
	sensor, err := r.stores.Sensores.FindByID(mux.Vars(req)["id"])
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load sensor")
		return
	}
	if sensor == nil {
		respondError(w, http.StatusNotFound, "Sensor not found")
		return
	}
	respondJSON(w, http.StatusOK, sensor)
}

func (r *Router) createSensor(w http.ResponseWriter, req *http.Request) {
	var sensor models.Sensor
	if err := json.NewDecoder(req.Body).Decode(&sensor); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if sensor.Tipo == "" || sensor.NumeroSerie == "" {
		respondError(w, http.StatusBadRequest, "tipo and numero_serie are required")
		return
	}

	sensor.ID = utils.GenerateUUID()
	if sensor.Codigo == "" {
		sensor.Codigo = utils.GenerateSimpleCode("SEN")
	}
	sensor.Activo = true

	if err := r.stores.Sensores.Create(&sensor); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create sensor")
		return
	}
	respondJSON(w, http.StatusCreated, sensor)
}

func (r *Router) updateSensor(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]
	existing, err := r.stores.Sensores.FindByID(id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load sensor")
		return
	}
	if existing == nil {
		respondError(w, http.StatusNotFound, "Sensor not found")
		return
	}

	prevEquipo := existing.EquipoID
	if err := json.NewDecoder(req.Body).Decode(existing); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	existing.ID = id
	// attachment changes go through the dedicated endpoint
	existing.EquipoID = prevEquipo

	if err := r.stores.Sensores.Update(existing); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update sensor")
		return
	}
	respondJSON(w, http.StatusOK, existing)
}

// AssignEquipoRequest attaches or detaches a sensor; null detaches.
type AssignEquipoRequest struct {
	EquipoID *string `json:"equipo_id"`
}

func (r *Router) assignSensorEquipo(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	var assignReq AssignEquipoRequest
	if err := json.NewDecoder(req.Body).Decode(&assignReq); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if assignReq.EquipoID != nil {
		equipo, err := r.stores.Equipos.FindByID(*assignReq.EquipoID)
		if err != nil || equipo == nil {
			respondError(w, http.StatusBadRequest, "equipo_id does not exist")
			return
		}
	}

	found, err := r.stores.Sensores.AssignEquipo(id, assignReq.EquipoID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to assign sensor")
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "Sensor not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"sensor_id": id,
		"equipo_id": assignReq.EquipoID,
	})
}

func (r *Router) deleteSensor(w http.ResponseWriter, req *http.Request) {
	found, err := r.stores.Sensores.Delete(mux.Vars(req)["id"])
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to deactivate sensor")
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "Sensor not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deactivated"})
}
