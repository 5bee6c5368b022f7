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

func (r *Router) listProyectos(w http.ResponseWriter, req *http.Request) {
	var (
		proyectos []models.Proyecto
		err       error
	)
	if clienteID := req.URL.Query().Get("cliente_id"); clienteID != "" {
		proyectos, err = r.stores.Proyectos.FindByCliente(clienteID)
	} else {
		proyectos, err = r.stores.Proyectos.FindAll()
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to list proyectos")
		return
	}
	respondJSON(w, http.StatusOK, proyectos)
}

func (r *Router) getProyecto(w http.ResponseWriter, req *http.Request) {
	proyecto, err := r.stores.Proyectos.FindByID(mux.Vars(req)["id"])
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load proyecto")
		return
	}
	if proyecto == nil {
		respondError(w, http.StatusNotFound, "Proyecto not found")
		return
	}
	respondJSON(w, http.StatusOK, proyecto)
}

func (r *Router) createProyecto(w http.ResponseWriter, req *http.Request) {
	var proyecto models.Proyecto
	if err := json.NewDecoder(req.Body).Decode(&proyecto); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if proyecto.Nombre == "" || proyecto.ClienteID == "" {
		respondError(w, http.StatusBadRequest, "nombre and cliente_id are required")
		return
	}

	cliente, err := r.stores.Clientes.FindByID(proyecto.ClienteID)
	if err != nil || cliente == nil {
		respondError(w, http.StatusBadRequest, "cliente_id does not exist")
		return
	}

	proyecto.ID = utils.GenerateUUID()
	if proyecto.Codigo == "" {
		proyecto.Codigo = utils.GenerateDatedCode("PRY")
	}
	proyecto.ClienteNombre = cliente.Nombre
	if proyecto.Estado == "" {
		proyecto.Estado = models.EstadoActivo
	}

	if err := r.stores.Proyectos.Create(&proyecto); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create proyecto")
		return
	}

	// Project folder under the client's Drive folder, best effort.
	go r.ensureProyectoFolder(proyecto.ID, proyecto.Codigo, cliente)

	respondJSON(w, http.StatusCreated, proyecto)
}

func (r *Router) updateProyecto(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]
	existing, err := r.stores.Proyectos.FindByID(id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load proyecto")
		return
	}
	if existing == nil {
		respondError(w, http.StatusNotFound, "Proyecto not found")
		return
	}

	if err := json.NewDecoder(req.Body).Decode(existing); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	existing.ID = id

	if err := r.stores.Proyectos.Update(existing); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update proyecto")
		return
	}
	respondJSON(w, http.StatusOK, existing)
}

func (r *Router) deleteProyecto(w http.ResponseWriter, req *http.Request) {
	found, err := r.stores.Proyectos.Delete(mux.Vars(req)["id"])
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to cancel proyecto")
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "Proyecto not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "cancelado"})
}

// ensureProyectoFolder creates the project folder under the client's Drive
// folder and stores its id. Runs detached from the request.
func (r *Router) ensureProyectoFolder(proyectoID, codigo string, cliente *models.Cliente) {
	if r.drive == nil {
		return
	}
	ctx := context.Background()

	parent := r.cfg.Google.RootFolderID
	if cliente.DriveFolderID != nil && *cliente.DriveFolderID != "" {
		parent = *cliente.DriveFolderID
	} else if parent != "" {
		folderID, err := r.drive.EnsureFolder(ctx, cliente.Nombre, parent)
		if err != nil {
			log.Printf("⚠️ Drive folder for cliente %s: %v", cliente.ID, err)
			return
		}
		if _, err := r.stores.Clientes.UpdateDriveFolder(cliente.ID, folderID); err != nil {
			log.Printf("⚠️ Persisting cliente folder %s: %v", cliente.ID, err)
		}
		parent = folderID
	}
	if parent == "" {
		return
	}

	folderID, err := r.drive.EnsureFolder(ctx, codigo, parent)
	if err != nil {
		log.Printf("⚠️ Drive folder for proyecto %s: %v", codigo, err)
		return
	}
	if _, err := r.stores.Proyectos.UpdateDriveFolder(proyectoID, folderID); err != nil {
		log.Printf("⚠️ Persisting proyecto folder %s: %v", proyectoID, err)
	}
}
