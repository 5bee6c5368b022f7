package classifier

import (
	"strings"
	"testing"
)

func TestParseVerdict(t *testing.T) {
	got, err := parseVerdict(`{"category": "certificado_calibracion", "confidence": 0.92, "resumen": "Certificado de balanza"}`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if got.Category != CategoryCertificado || got.Confidence != 0.92 {
		t.Errorf("got %+v", got)
	}
}

func TestParseVerdictMarkdownFence(t *testing.T) {
	raw := "```json\n{\"category\": \"informe_ensayo\", \"confidence\": 0.8, \"resumen\": \"ok\"}\n```"
	got, err := parseVerdict(raw)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if got.Category != CategoryInforme {
		t.Errorf("category = %q", got.Category)
	}
}

func TestParseVerdictUnknownCategory(t *testing.T) {
	got, err := parseVerdict(`{"category": "factura", "confidence": 0.5, "resumen": "x"}`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if got.Category != CategoryOtro {
		t.Errorf("unknown category must map to otro, got %q", got.Category)
	}
}

func TestParseVerdictClampsConfidence(t *testing.T) {
	got, err := parseVerdict(`{"category": "otro", "confidence": 3.5, "resumen": "x"}`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if got.Confidence != 0 {
		t.Errorf("out-of-range confidence must reset to 0, got %v", got.Confidence)
	}
}

func TestParseVerdictGarbage(t *testing.T) {
	if _, err := parseVerdict("lo siento, no puedo"); err == nil {
		t.Error("expected error for non-JSON response")
	}
}

func TestBuildPromptTruncates(t *testing.T) {
	text := strings.Repeat("a", 20000)
	prompt := buildPrompt(text)
	if len(prompt) > 9000 {
		t.Errorf("prompt not truncated, len=%d", len(prompt))
	}
	if !strings.Contains(prompt, CategoryCadenaCustodia) {
		t.Error("prompt missing category list")
	}
}
