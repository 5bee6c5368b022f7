package models

import "time"

// Calibracion is an external calibration record for a piece of equipment.
type Calibracion struct {
	ID                 string     `gorm:"primaryKey;type:varchar(64)" json:"id"`
	EquipoID           string     `gorm:"type:varchar(64);index" json:"equipo_id"`
	Fecha              string     `gorm:"type:varchar(32)" json:"fecha"`
	Laboratorio        string     `gorm:"type:varchar(255)" json:"laboratorio"`
	Certificado        *string    `gorm:"type:varchar(128)" json:"certificado,omitempty"`
	Factor             *float64   `json:"factor,omitempty"`
	Incertidumbre      *string    `gorm:"type:varchar(64)" json:"incertidumbre,omitempty"`
	ProximaCalibracion *string    `gorm:"type:varchar(32)" json:"proxima_calibracion,omitempty"`
	Observaciones      *string    `gorm:"type:text" json:"observaciones,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
	SyncedAt           *time.Time `json:"synced_at,omitempty"`
	SyncSource         string     `gorm:"type:varchar(16)" json:"sync_source,omitempty"`
}

// TableName specifies the table name
func (Calibracion) TableName() string {
	return "calibraciones"
}

const calibracionColumns = 11

// CalibracionFromRow decodes a spreadsheet row into a Calibracion.
func CalibracionFromRow(row []string) (*Calibracion, bool) {
	if len(row) < calibracionColumns {
		return nil, false
	}
	return &Calibracion{
		ID:                 cell(row, 0),
		EquipoID:           cell(row, 1),
		Fecha:              cell(row, 2),
		Laboratorio:        cell(row, 3),
		Certificado:        optCell(row, 4),
		Factor:             floatCell(row, 5),
		Incertidumbre:      optCell(row, 6),
		ProximaCalibracion: optCell(row, 7),
		Observaciones:      optCell(row, 8),
		CreatedAt:          timeCell(row, 9),
		UpdatedAt:          timeCell(row, 10),
	}, true
}

// ToRow encodes the calibration record for the spreadsheet.
func (c *Calibracion) ToRow() []string {
	return []string{
		c.ID,
		c.EquipoID,
		c.Fecha,
		c.Laboratorio,
		strOrEmpty(c.Certificado),
		floatOrEmpty(c.Factor),
		strOrEmpty(c.Incertidumbre),
		strOrEmpty(c.ProximaCalibracion),
		strOrEmpty(c.Observaciones),
		formatSheetTime(c.CreatedAt),
		formatSheetTime(c.UpdatedAt),
	}
}
