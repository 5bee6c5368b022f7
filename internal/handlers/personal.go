package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/rulos-nico/17025/internal/models"
	"github.com/rulos-nico/17025/internal/utils"
)

func (r *Router) listPersonal(w http.ResponseWriter, req *http.Request) {
	personal, err := r.stores.Personal.FindAll()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to list personal")
		return
	}
	respondJSON(w, http.StatusOK, personal)
}

func (r *Router) getPersonal(w http.ResponseWriter, req *http.Request) {
	persona, err := r.stores.Personal.FindByID(mux.Vars(req)["id"])
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load personal")
		return
	}
	if persona == nil {
		respondError(w, http.StatusNotFound, "Personal not found")
		return
	}
	respondJSON(w, http.StatusOK, persona)
}

func (r *Router) createPersonal(w http.ResponseWriter, req *http.Request) {
	var persona models.PersonalInterno
	if err := json.NewDecoder(req.Body).Decode(&persona); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if persona.Nombre == "" || persona.Apellido == "" || persona.Email == "" {
		respondError(w, http.StatusBadRequest, "nombre, apellido and email are required")
		return
	}

	persona.ID = utils.GenerateUUID()
	if persona.Codigo == "" {
		persona.Codigo = utils.GenerateSimpleCode("PER")
	}
	persona.Activo = true

	if err := r.stores.Personal.Create(&persona); err != nil {
		respondError(w, http.StatusConflict, "Email or codigo already registered")
		return
	}
	respondJSON(w, http.StatusCreated, persona)
}

func (r *Router) updatePersonal(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]
	existing, err := r.stores.Personal.FindByID(id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load personal")
		return
	}
	if existing == nil {
		respondError(w, http.StatusNotFound, "Personal not found")
		return
	}

	if err := json.NewDecoder(req.Body).Decode(existing); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	existing.ID = id

	if err := r.stores.Personal.Update(existing); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update personal")
		return
	}
	respondJSON(w, http.StatusOK, existing)
}

func (r *Router) deletePersonal(w http.ResponseWriter, req *http.Request) {
	found, err := r.stores.Personal.Delete(mux.Vars(req)["id"])
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to deactivate personal")
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "Personal not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deactivated"})
}
