package models

import "time"

// Resultados of an intermediate equipment verification.
const (
	ComprobacionConforme   = "Conforme"
	ComprobacionNoConforme = "No Conforme"
)

// Comprobacion is an intermediate verification performed on a piece of
// equipment between calibrations.
type Comprobacion struct {
	ID            string     `gorm:"primaryKey;type:varchar(64)" json:"id"`
	EquipoID      string     `gorm:"type:varchar(64);index" json:"equipo_id"`
	Fecha         string     `gorm:"type:varchar(32)" json:"fecha"`
	Tipo          string     `gorm:"type:varchar(64)" json:"tipo"`
	Resultado     string     `gorm:"type:varchar(32)" json:"resultado"`
	Responsable   *string    `gorm:"type:varchar(255)" json:"responsable,omitempty"`
	Observaciones *string    `gorm:"type:text" json:"observaciones,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	SyncedAt      *time.Time `json:"synced_at,omitempty"`
	SyncSource    string     `gorm:"type:varchar(16)" json:"sync_source,omitempty"`
}

// TableName specifies the table name
func (Comprobacion) TableName() string {
	return "comprobaciones"
}

const comprobacionColumns = 9

// ComprobacionFromRow decodes a spreadsheet row into a Comprobacion.
func ComprobacionFromRow(row []string) (*Comprobacion, bool) {
	if len(row) < comprobacionColumns {
		return nil, false
	}
	return &Comprobacion{
		ID:            cell(row, 0),
		EquipoID:      cell(row, 1),
		Fecha:         cell(row, 2),
		Tipo:          cell(row, 3),
		Resultado:     cell(row, 4),
		Responsable:   optCell(row, 5),
		Observaciones: optCell(row, 6),
		CreatedAt:     timeCell(row, 7),
		UpdatedAt:     timeCell(row, 8),
	}, true
}

// ToRow encodes the verification record for the spreadsheet.
func (c *Comprobacion) ToRow() []string {
	return []string{
		c.ID,
		c.EquipoID,
		c.Fecha,
		c.Tipo,
		c.Resultado,
		strOrEmpty(c.Responsable),
		strOrEmpty(c.Observaciones),
		formatSheetTime(c.CreatedAt),
		formatSheetTime(c.UpdatedAt),
	}
}
