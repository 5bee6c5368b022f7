package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/rulos-nico/17025/internal/models"
	"github.com/rulos-nico/17025/internal/services/labels"
	"github.com/rulos-nico/17025/internal/utils"
)

func (r *Router) listMuestras(w http.ResponseWriter, req *http.Request) {
	var (
		muestras []models.Muestra
		err      error
	)
	if perforacionID := req.URL.Query().Get("perforacion_id"); perforacionID != "" {
		muestras, err = r.stores.Muestras.FindByPerforacion(perforacionID)
	} else {
		muestras, err = r.stores.Muestras.FindAll()
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to list muestras")
		return
	}
	respondJSON(w, http.StatusOK, muestras)
}

func (r *Router) getMuestra(w http.ResponseWriter, req *http.Request) {
	muestra, err := r.stores.Muestras.FindByID(mux.Vars(req)["id"])
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load muestra")
		return
	}
	if muestra == nil {
		respondError(w, http.StatusNotFound, "Muestra not found")
		return
	}
	respondJSON(w, http.StatusOK, muestra)
}

func (r *Router) createMuestra(w http.ResponseWriter, req *http.Request) {
	var muestra models.Muestra
	if err := json.NewDecoder(req.Body).Decode(&muestra); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if muestra.PerforacionID == "" {
		respondError(w, http.StatusBadRequest, "perforacion_id is required")
		return
	}
	if !models.IsTipoValido(muestra.TipoMuestra) {
		respondError(w, http.StatusBadRequest,
			fmt.Sprintf("tipo_muestra must be one of %v", models.TiposMuestra))
		return
	}
	if muestra.ProfundidadFin < muestra.ProfundidadInicio {
		respondError(w, http.StatusBadRequest, "profundidad_fin must be >= profundidad_inicio")
		return
	}

	muestra.ID = utils.GenerateUUID()
	if muestra.Codigo == "" {
		muestra.Codigo = utils.GenerateDatedCode("MUE")
	}

	if err := r.stores.Muestras.Create(&muestra); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create muestra")
		return
	}
	respondJSON(w, http.StatusCreated, muestra)
}

func (r *Router) updateMuestra(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]
	existing, err := r.stores.Muestras.FindByID(id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load muestra")
		return
	}
	if existing == nil {
		respondError(w, http.StatusNotFound, "Muestra not found")
		return
	}

	if err := json.NewDecoder(req.Body).Decode(existing); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	existing.ID = id
	if !models.IsTipoValido(existing.TipoMuestra) {
		respondError(w, http.StatusBadRequest,
			fmt.Sprintf("tipo_muestra must be one of %v", models.TiposMuestra))
		return
	}

	if err := r.stores.Muestras.Update(existing); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update muestra")
		return
	}
	respondJSON(w, http.StatusOK, existing)
}

func (r *Router) deleteMuestra(w http.ResponseWriter, req *http.Request) {
	found, err := r.stores.Muestras.Delete(mux.Vars(req)["id"])
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete muestra")
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "Muestra not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// LabelRequest selects the samples to print and optionally overrides the
// sheet layout.
type LabelRequest struct {
	MuestraIDs []string       `json:"muestra_ids"`
	Layout     *labels.Config `json:"layout,omitempty"`
}

// printMuestraLabels renders a QR label sheet for the requested samples.
func (r *Router) printMuestraLabels(w http.ResponseWriter, req *http.Request) {
	var labelReq LabelRequest
	if err := json.NewDecoder(req.Body).Decode(&labelReq); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if len(labelReq.MuestraIDs) == 0 {
		respondError(w, http.StatusBadRequest, "muestra_ids is required")
		return
	}

	muestras := make([]models.Muestra, 0, len(labelReq.MuestraIDs))
	for _, id := range labelReq.MuestraIDs {
		m, err := r.stores.Muestras.FindByID(id)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "Failed to load muestras")
			return
		}
		if m == nil {
			respondError(w, http.StatusNotFound, fmt.Sprintf("Muestra %s not found", id))
			return
		}
		muestras = append(muestras, *m)
	}

	cfg := labels.DefaultConfig()
	if labelReq.Layout != nil {
		cfg = *labelReq.Layout
	}

	pdf, err := labels.GenerateMuestraLabels(cfg, muestras)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to generate labels")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="muestras_labels.pdf"`)
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}
