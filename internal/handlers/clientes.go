package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/rulos-nico/17025/internal/models"
	"github.com/rulos-nico/17025/internal/utils"
)

func (r *Router) listClientes(w http.ResponseWriter, req *http.Request) {
	clientes, err := r.stores.Clientes.FindAll()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to list clientes")
		return
	}
	respondJSON(w, http.StatusOK, clientes)
}

func (r *Router) getCliente(w http.ResponseWriter, req *http.Request) {
	cliente, err := r.stores.Clientes.FindByID(mux.Vars(req)["id"])
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load cliente")
		return
	}
	if cliente == nil {
		respondError(w, http.StatusNotFound, "Cliente not found")
		return
	}
	respondJSON(w, http.StatusOK, cliente)
}

func (r *Router) createCliente(w http.ResponseWriter, req *http.Request) {
	var cliente models.Cliente
	if err := json.NewDecoder(req.Body).Decode(&cliente); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if cliente.Nombre == "" {
		respondError(w, http.StatusBadRequest, "nombre is required")
		return
	}
	cliente.ID = utils.GenerateUUID()
	if cliente.Codigo == "" {
		cliente.Codigo = utils.GenerateSimpleCode("CLI")
	}
	cliente.Activo = true

	if err := r.stores.Clientes.Create(&cliente); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create cliente")
		return
	}
	respondJSON(w, http.StatusCreated, cliente)
}

func (r *Router) updateCliente(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]
	existing, err := r.stores.Clientes.FindByID(id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load cliente")
		return
	}
	if existing == nil {
		respondError(w, http.StatusNotFound, "Cliente not found")
		return
	}

	// decode over the loaded record so omitted fields keep their values
	if err := json.NewDecoder(req.Body).Decode(existing); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	existing.ID = id

	if err := r.stores.Clientes.Update(existing); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update cliente")
		return
	}
	respondJSON(w, http.StatusOK, existing)
}

func (r *Router) deleteCliente(w http.ResponseWriter, req *http.Request) {
	found, err := r.stores.Clientes.Delete(mux.Vars(req)["id"])
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to deactivate cliente")
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "Cliente not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deactivated"})
}
