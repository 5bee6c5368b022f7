package worksheets

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/rulos-nico/17025/internal/services/gdrive"
)

// Template describes the working-sheet template of one test type.
type Template struct {
	Nombre     string // display name of the test type
	TemplateID string // Drive file id of the template sheet
}

// Service creates working sheets for tests by copying per-type templates into
// the drilling's Drive folder, and exports them as PDF reports.
type Service struct {
	drive     *gdrive.Client
	templates map[string]Template
}

// NewService builds the service with a template registry keyed by test type
// code (e.g. "COMPRESION_SIMPLE").
func NewService(drive *gdrive.Client, templates map[string]Template) *Service {
	if templates == nil {
		templates = map[string]Template{}
	}
	return &Service{drive: drive, templates: templates}
}

// RegisterTemplate adds or replaces the template of a test type.
func (s *Service) RegisterTemplate(tipo string, t Template) {
	s.templates[tipo] = t
}

// HasTemplate reports whether a test type has a working-sheet template.
func (s *Service) HasTemplate(tipo string) bool {
	_, ok := s.templates[tipo]
	return ok
}

// AvailableTypes lists test types with a configured template, sorted.
func (s *Service) AvailableTypes() []string {
	out := make([]string, 0, len(s.templates))
	for tipo := range s.templates {
		out = append(out, tipo)
	}
	sort.Strings(out)
	return out
}

// CreateEnsayoSheet copies the template of the test type into the drilling
// folder, named after the test code. Returns the new sheet's id and URL.
func (s *Service) CreateEnsayoSheet(ctx context.Context, tipo, codigo, perforacionFolderID string) (string, string, error) {
	tmpl, ok := s.templates[tipo]
	if !ok {
		return "", "", fmt.Errorf("no template configured for test type %s", tipo)
	}

	sheetID, err := s.drive.CopyFile(ctx, tmpl.TemplateID, codigo, perforacionFolderID)
	if err != nil {
		return "", "", fmt.Errorf("creating sheet for %s: %w", codigo, err)
	}

	sheetURL := gdrive.ViewURL(sheetID)
	log.Printf("📄 Created working sheet %s (type %s) in folder %s", codigo, tipo, perforacionFolderID)
	return sheetID, sheetURL, nil
}

// GeneratePDF exports the working sheet as PDF bytes.
func (s *Service) GeneratePDF(ctx context.Context, sheetID string) ([]byte, error) {
	data, err := s.drive.ExportPDF(ctx, sheetID)
	if err != nil {
		return nil, err
	}
	log.Printf("📄 Generated PDF for sheet %s (%d bytes)", sheetID, len(data))
	return data, nil
}

// GenerateAndUploadPDF exports the working sheet and stores the PDF next to
// it in the drilling folder. Returns the Drive id of the uploaded PDF.
func (s *Service) GenerateAndUploadPDF(ctx context.Context, sheetID, pdfName, folderID string) (string, error) {
	data, err := s.GeneratePDF(ctx, sheetID)
	if err != nil {
		return "", err
	}

	pdfID, err := s.drive.UploadPDF(ctx, pdfName, folderID, data)
	if err != nil {
		return "", err
	}
	log.Printf("📤 Uploaded PDF %s (id %s) to folder %s", pdfName, pdfID, folderID)
	return pdfID, nil
}

// DownloadPDF fetches a previously generated report.
func (s *Service) DownloadPDF(ctx context.Context, pdfID string) ([]byte, error) {
	return s.drive.DownloadFile(ctx, pdfID)
}
