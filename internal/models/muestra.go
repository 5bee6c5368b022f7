package models

import (
	"fmt"
	"strconv"
	"time"
)

// TiposMuestra are the valid sample types.
var TiposMuestra = []string{"alterado", "inalterado", "roca", "spt", "shelby"}

// Muestra represents a sample extracted from a drilling.
type Muestra struct {
	ID                 string     `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Codigo             string     `gorm:"type:varchar(32);uniqueIndex" json:"codigo"`
	PerforacionID      string     `gorm:"type:varchar(64);index" json:"perforacion_id"`
	ProfundidadInicio  float64    `json:"profundidad_inicio"`
	ProfundidadFin     float64    `json:"profundidad_fin"`
	TipoMuestra        string     `gorm:"type:varchar(32)" json:"tipo_muestra"`
	Descripcion        *string    `gorm:"type:text" json:"descripcion,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
	SyncedAt           *time.Time `json:"synced_at,omitempty"`
	SyncSource         string     `gorm:"type:varchar(16)" json:"sync_source,omitempty"`
}

// TableName specifies the table name
func (Muestra) TableName() string {
	return "muestras"
}

const muestraColumns = 9

// MuestraFromRow decodes a spreadsheet row.
func MuestraFromRow(row []string) (*Muestra, bool) {
	if len(row) < muestraColumns {
		return nil, false
	}
	return &Muestra{
		ID:                cell(row, 0),
		Codigo:            cell(row, 1),
		PerforacionID:     cell(row, 2),
		ProfundidadInicio: floatCellOr(row, 3, 0),
		ProfundidadFin:    floatCellOr(row, 4, 0),
		TipoMuestra:       cell(row, 5),
		Descripcion:       optCell(row, 6),
		CreatedAt:         timeCell(row, 7),
		UpdatedAt:         timeCell(row, 8),
	}, true
}

// ToRow encodes the sample for the spreadsheet.
func (m *Muestra) ToRow() []string {
	return []string{
		m.ID,
		m.Codigo,
		m.PerforacionID,
		strconv.FormatFloat(m.ProfundidadInicio, 'f', -1, 64),
		strconv.FormatFloat(m.ProfundidadFin, 'f', -1, 64),
		m.TipoMuestra,
		strOrEmpty(m.Descripcion),
		formatSheetTime(m.CreatedAt),
		formatSheetTime(m.UpdatedAt),
	}
}

// ProfundidadDisplay formats the depth range for labels and logs.
func (m *Muestra) ProfundidadDisplay() string {
	return fmt.Sprintf("%.2f-%.2fm", m.ProfundidadInicio, m.ProfundidadFin)
}

// IsTipoValido reports whether tipo is one of the accepted sample types.
func IsTipoValido(tipo string) bool {
	for _, t := range TiposMuestra {
		if t == tipo {
			return true
		}
	}
	return false
}
