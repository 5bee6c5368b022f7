package models

import "testing"

func TestIsTipoValido(t *testing.T) {
	for _, tipo := range TiposMuestra {
		if !IsTipoValido(tipo) {
			t.Errorf("IsTipoValido(%q) = false, want true", tipo)
		}
	}
	for _, tipo := range []string{"", "SPT", "arena", "spt "} {
		if IsTipoValido(tipo) {
			t.Errorf("IsTipoValido(%q) = true, want false", tipo)
		}
	}
}
