package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/rulos-nico/17025/internal/models"
	"github.com/rulos-nico/17025/internal/services/gdrive"
	"github.com/rulos-nico/17025/internal/utils"
)

func (r *Router) listEnsayos(w http.ResponseWriter, req *http.Request) {
	var (
		ensayos []models.Ensayo
		err     error
	)
	q := req.URL.Query()
	switch {
	case q.Get("state") != "":
		var state models.WorkflowState
		state, err = models.ParseWorkflowState(q.Get("state"))
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		ensayos, err = r.stores.Ensayos.FindByWorkflowState(state)
	case q.Get("proyecto_id") != "":
		ensayos, err = r.stores.Ensayos.FindByProyecto(q.Get("proyecto_id"))
	case q.Get("perforacion_id") != "":
		ensayos, err = r.stores.Ensayos.FindByPerforacion(q.Get("perforacion_id"))
	default:
		ensayos, err = r.stores.Ensayos.FindAll()
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to list ensayos")
		return
	}
	respondJSON(w, http.StatusOK, ensayos)
}

func (r *Router) getEnsayo(w http.ResponseWriter, req *http.Request) {
	ensayo, err := r.stores.Ensayos.FindByID(mux.Vars(req)["id"])
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load ensayo")
		return
	}
	if ensayo == nil {
		respondError(w, http.StatusNotFound, "Ensayo not found")
		return
	}
	respondJSON(w, http.StatusOK, ensayo)
}

func (r *Router) createEnsayo(w http.ResponseWriter, req *http.Request) {
	var ensayo models.Ensayo
	if err := json.NewDecoder(req.Body).Decode(&ensayo); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if ensayo.Tipo == "" || ensayo.PerforacionID == "" {
		respondError(w, http.StatusBadRequest, "tipo and perforacion_id are required")
		return
	}

	perforacion, err := r.stores.Perforaciones.FindByID(ensayo.PerforacionID)
	if err != nil || perforacion == nil {
		respondError(w, http.StatusBadRequest, "perforacion_id does not exist")
		return
	}

	ensayo.ID = utils.GenerateUUID()
	if ensayo.Codigo == "" {
		ensayo.Codigo = utils.GenerateDatedCode("ENS")
	}
	ensayo.ProyectoID = perforacion.ProyectoID
	ensayo.WorkflowState = models.InitialState
	ensayo.PerforacionFolderID = perforacion.DriveFolderID

	if err := r.stores.Ensayos.Create(&ensayo); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create ensayo")
		return
	}
	respondJSON(w, http.StatusCreated, ensayo)
}

func (r *Router) updateEnsayo(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]
	existing, err := r.stores.Ensayos.FindByID(id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load ensayo")
		return
	}
	if existing == nil {
		respondError(w, http.StatusNotFound, "Ensayo not found")
		return
	}

	prevState := existing.WorkflowState
	if err := json.NewDecoder(req.Body).Decode(existing); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	existing.ID = id
	// state changes go through the dedicated endpoint
	existing.WorkflowState = prevState

	if err := r.stores.Ensayos.Update(existing); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update ensayo")
		return
	}
	respondJSON(w, http.StatusOK, existing)
}

// deleteEnsayo cancels the test: it transitions to the terminal Anulado state
// instead of removing the row.
func (r *Router) deleteEnsayo(w http.ResponseWriter, req *http.Request) {
	found, err := r.stores.Ensayos.Delete(mux.Vars(req)["id"])
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to cancel ensayo")
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "Ensayo not found or already terminal")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": string(models.StateE3)})
}

// StatusRequest carries the target workflow state.
type StatusRequest struct {
	State string `json:"state"`
}

// updateEnsayoStatus validates and applies a workflow transition. Entering
// E12 (Por enviar) kicks off the PDF export in the background.
func (r *Router) updateEnsayoStatus(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	var statusReq StatusRequest
	if err := json.NewDecoder(req.Body).Decode(&statusReq); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	target, err := models.ParseWorkflowState(statusReq.State)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	ensayo, err := r.stores.Ensayos.FindByID(id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load ensayo")
		return
	}
	if ensayo == nil {
		respondError(w, http.StatusNotFound, "Ensayo not found")
		return
	}

	if err := models.CheckTransition(ensayo.WorkflowState, target); err != nil {
		var terr *models.TransitionError
		if errors.As(err, &terr) {
			respondJSON(w, http.StatusConflict, map[string]interface{}{
				"error":   terr.Error(),
				"from":    terr.From,
				"to":      terr.To,
				"allowed": terr.Allowed,
			})
			return
		}
		respondError(w, http.StatusConflict, err.Error())
		return
	}

	if _, err := r.stores.Ensayos.UpdateWorkflowState(id, target); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update workflow state")
		return
	}

	log.Printf("🔬 Ensayo %s: %s -> %s", ensayo.Codigo, ensayo.WorkflowState, target)
	r.hub.NotifyEnsayoState(ensayo.ID, ensayo.Codigo, ensayo.WorkflowState, target)

	if target == models.StateE12 {
		go r.exportEnsayoPDF(ensayo.ID)
	}

	ensayo.WorkflowState = target
	respondJSON(w, http.StatusOK, ensayo)
}

// createEnsayoWorksheet copies the template for the test type into the
// drilling folder and records the new sheet on the ensayo.
func (r *Router) createEnsayoWorksheet(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	ensayo, err := r.stores.Ensayos.FindByID(id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load ensayo")
		return
	}
	if ensayo == nil {
		respondError(w, http.StatusNotFound, "Ensayo not found")
		return
	}
	if r.worksheets == nil {
		respondError(w, http.StatusServiceUnavailable, "Drive integration not configured")
		return
	}
	if !r.worksheets.HasTemplate(ensayo.Tipo) {
		respondError(w, http.StatusBadRequest,
			fmt.Sprintf("no template for tipo %q, available: %v", ensayo.Tipo, r.worksheets.AvailableTypes()))
		return
	}

	folderID, err := r.resolveEnsayoFolder(req.Context(), ensayo)
	if err != nil {
		respondError(w, http.StatusConflict, err.Error())
		return
	}

	sheetID, sheetURL, err := r.worksheets.CreateEnsayoSheet(req.Context(), ensayo.Tipo, ensayo.Codigo, folderID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create worksheet")
		return
	}
	if _, err := r.stores.Ensayos.UpdateSheetInfo(id, sheetID, sheetURL); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to persist worksheet info")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{
		"sheet_id":  sheetID,
		"sheet_url": sheetURL,
	})
}

// generateEnsayoReport re-exports the working sheet as PDF on demand.
func (r *Router) generateEnsayoReport(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	ensayo, err := r.stores.Ensayos.FindByID(id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load ensayo")
		return
	}
	if ensayo == nil {
		respondError(w, http.StatusNotFound, "Ensayo not found")
		return
	}

	updated, err := r.generateAndStorePDF(req.Context(), ensayo)
	if err != nil {
		respondError(w, http.StatusConflict, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// downloadEnsayoReport streams the stored report PDF.
func (r *Router) downloadEnsayoReport(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	ensayo, err := r.stores.Ensayos.FindByID(id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load ensayo")
		return
	}
	if ensayo == nil {
		respondError(w, http.StatusNotFound, "Ensayo not found")
		return
	}
	if ensayo.PdfDriveID == nil || *ensayo.PdfDriveID == "" {
		respondError(w, http.StatusNotFound, "No report generated for this ensayo")
		return
	}
	if r.worksheets == nil {
		respondError(w, http.StatusServiceUnavailable, "Drive integration not configured")
		return
	}

	data, err := r.worksheets.DownloadPDF(req.Context(), *ensayo.PdfDriveID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to download report")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename=%q`, ensayo.Codigo+".pdf"))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// exportEnsayoPDF runs the E12 side effect detached from the request.
// Failures are logged; the transition itself already succeeded.
func (r *Router) exportEnsayoPDF(id string) {
	ensayo, err := r.stores.Ensayos.FindByID(id)
	if err != nil || ensayo == nil {
		log.Printf("⚠️ PDF export: ensayo %s not loadable: %v", id, err)
		return
	}
	if _, err := r.generateAndStorePDF(context.Background(), ensayo); err != nil {
		log.Printf("⚠️ PDF export for %s failed: %v", ensayo.Codigo, err)
	}
}

func (r *Router) generateAndStorePDF(ctx context.Context, ensayo *models.Ensayo) (*models.Ensayo, error) {
	if r.worksheets == nil {
		return nil, fmt.Errorf("drive integration not configured")
	}
	if ensayo.SheetID == nil || *ensayo.SheetID == "" {
		return nil, fmt.Errorf("ensayo %s has no working sheet", ensayo.Codigo)
	}

	folderID, err := r.resolveEnsayoFolder(ctx, ensayo)
	if err != nil {
		return nil, err
	}

	pdfID, err := r.worksheets.GenerateAndUploadPDF(ctx, *ensayo.SheetID, ensayo.Codigo+".pdf", folderID)
	if err != nil {
		return nil, err
	}

	pdfURL := gdrive.FileURL(pdfID)
	if _, err := r.stores.Ensayos.UpdatePDFInfo(ensayo.ID, pdfID, pdfURL); err != nil {
		return nil, err
	}

	ensayo.PdfDriveID = &pdfID
	ensayo.PdfURL = &pdfURL
	return ensayo, nil
}

// resolveEnsayoFolder returns the drilling folder for the ensayo's documents,
// caching it on the record the first time it is looked up.
func (r *Router) resolveEnsayoFolder(ctx context.Context, ensayo *models.Ensayo) (string, error) {
	if ensayo.PerforacionFolderID != nil && *ensayo.PerforacionFolderID != "" {
		return *ensayo.PerforacionFolderID, nil
	}

	perforacion, err := r.stores.Perforaciones.FindByID(ensayo.PerforacionID)
	if err != nil || perforacion == nil {
		return "", fmt.Errorf("perforacion %s not found", ensayo.PerforacionID)
	}
	if perforacion.DriveFolderID == nil || *perforacion.DriveFolderID == "" {
		return "", fmt.Errorf("perforacion %s has no Drive folder yet", perforacion.Codigo)
	}

	if _, err := r.stores.Ensayos.UpdatePerforacionFolderID(ensayo.ID, *perforacion.DriveFolderID); err != nil {
		log.Printf("⚠️ Caching folder on ensayo %s: %v", ensayo.Codigo, err)
	}
	ensayo.PerforacionFolderID = perforacion.DriveFolderID
	return *perforacion.DriveFolderID, nil
}
