package handlers

import (
	"encoding/json"
	"net/http"
)

// ClassifyRequest carries the extracted text of an incoming document.
type ClassifyRequest struct {
	Text string `json:"text"`
}

// classifyDocument asks Gemini to categorize an uploaded lab document
// (calibration certificate, test report, chain of custody, request form).
func (r *Router) classifyDocument(w http.ResponseWriter, req *http.Request) {
	if r.classifier == nil {
		respondError(w, http.StatusServiceUnavailable, "Document classification not configured")
		return
	}

	var classifyReq ClassifyRequest
	if err := json.NewDecoder(req.Body).Decode(&classifyReq); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if classifyReq.Text == "" {
		respondError(w, http.StatusBadRequest, "text is required")
		return
	}

	verdict, err := r.classifier.Classify(req.Context(), classifyReq.Text)
	if err != nil {
		respondError(w, http.StatusBadGateway, "Classification failed")
		return
	}
	respondJSON(w, http.StatusOK, verdict)
}
