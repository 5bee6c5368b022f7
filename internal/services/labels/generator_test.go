package labels

import (
	"bytes"
	"testing"

	"github.com/rulos-nico/17025/internal/models"
)

func sampleMuestras(n int) []models.Muestra {
	out := make([]models.Muestra, n)
	for i := range out {
		out[i] = models.Muestra{
			ID:                "m-" + string(rune('a'+i%26)),
			Codigo:            "MUE-20250101-0001",
			TipoMuestra:       "spt",
			ProfundidadInicio: 1.5,
			ProfundidadFin:    2.0,
		}
	}
	return out
}

func TestGenerateMuestraLabels(t *testing.T) {
	pdf, err := GenerateMuestraLabels(DefaultConfig(), sampleMuestras(5))
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Errorf("output is not a PDF, starts with %q", pdf[:8])
	}
}

func TestGenerateMuestraLabelsMultiPage(t *testing.T) {
	cfg := DefaultConfig()
	// more samples than fit on one page
	pdf, err := GenerateMuestraLabels(cfg, sampleMuestras(cfg.Cols*cfg.Rows+1))
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if len(pdf) == 0 {
		t.Fatal("empty PDF")
	}
}

func TestGenerateMuestraLabelsRejectsBadInput(t *testing.T) {
	if _, err := GenerateMuestraLabels(DefaultConfig(), nil); err == nil {
		t.Error("expected error for empty sample list")
	}
	bad := Config{Cols: 0, Rows: 8}
	if _, err := GenerateMuestraLabels(bad, sampleMuestras(1)); err == nil {
		t.Error("expected error for zero-column layout")
	}
}
