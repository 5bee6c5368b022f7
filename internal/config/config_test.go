package config

import "testing"

func TestParseTemplates(t *testing.T) {
	got := parseTemplates("corte_directo=1abc, triaxial=1def ,,bad,=x,y=")
	if len(got) != 2 {
		t.Fatalf("parsed %d templates, want 2: %v", len(got), got)
	}
	if got["corte_directo"] != "1abc" || got["triaxial"] != "1def" {
		t.Errorf("unexpected map %v", got)
	}
}

func TestParseTemplatesEmpty(t *testing.T) {
	if got := parseTemplates(""); len(got) != 0 {
		t.Errorf("expected empty map, got %v", got)
	}
}

func TestLoadRequiresSecrets(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	if _, err := Load(); err == nil {
		t.Error("expected error without JWT_SECRET")
	}

	t.Setenv("JWT_SECRET", "s")
	t.Setenv("SPREADSHEET_ID", "")
	if _, err := Load(); err == nil {
		t.Error("expected error without SPREADSHEET_ID")
	}

	t.Setenv("SPREADSHEET_ID", "sheet-1")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Database.Database != "lab17025" {
		t.Errorf("default database = %q", cfg.Database.Database)
	}
	if !cfg.Sync.Enabled {
		t.Error("sync should default to enabled")
	}
}
