package utils

import (
	"strings"
	"testing"
)

func TestGenerateUUIDFormat(t *testing.T) {
	id := GenerateUUID()
	if len(id) != 36 || !strings.Contains(id, "-") {
		t.Errorf("unexpected uuid %q", id)
	}
	if id == GenerateUUID() {
		t.Error("two uuids collided")
	}
}

func TestGenerateDatedCodeFormat(t *testing.T) {
	code := GenerateDatedCode("ENS")
	if !strings.HasPrefix(code, "ENS-") {
		t.Errorf("missing prefix: %q", code)
	}
	if len(code) != len("ENS-20250828-1234") {
		t.Errorf("unexpected length %d for %q", len(code), code)
	}
	parts := strings.Split(code, "-")
	if len(parts) != 3 || len(parts[1]) != 8 || len(parts[2]) != 4 {
		t.Errorf("unexpected shape %q", code)
	}
}

func TestGenerateSimpleCodeFormat(t *testing.T) {
	code := GenerateSimpleCode("CLI")
	if !strings.HasPrefix(code, "CLI-") || len(code) != 8 {
		t.Errorf("unexpected code %q", code)
	}
}
