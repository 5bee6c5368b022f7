package models

import "time"

// Perforacion represents a drilling within a project. Each drilling owns a
// Drive folder where working sheets and reports for its ensayos live.
type Perforacion struct {
	ID            string     `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Codigo        string     `gorm:"type:varchar(32);uniqueIndex" json:"codigo"`
	ProyectoID    string     `gorm:"type:varchar(64);index" json:"proyecto_id"`
	Nombre        string     `gorm:"type:varchar(255);not null" json:"nombre"`
	Descripcion   *string    `gorm:"type:text" json:"descripcion,omitempty"`
	Ubicacion     *string    `gorm:"type:varchar(255)" json:"ubicacion,omitempty"`
	Profundidad   *float64   `json:"profundidad,omitempty"`
	FechaInicio   *string    `gorm:"type:varchar(32)" json:"fecha_inicio,omitempty"`
	FechaFin      *string    `gorm:"type:varchar(32)" json:"fecha_fin,omitempty"`
	Estado        string     `gorm:"type:varchar(32);default:'activo'" json:"estado"`
	DriveFolderID *string    `gorm:"type:varchar(128)" json:"drive_folder_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	SyncedAt      *time.Time `json:"synced_at,omitempty"`
	SyncSource    string     `gorm:"type:varchar(16)" json:"sync_source,omitempty"`
}

// TableName specifies the table name
func (Perforacion) TableName() string {
	return "perforaciones"
}

const perforacionColumns = 13

// PerforacionFromRow decodes a spreadsheet row.
func PerforacionFromRow(row []string) (*Perforacion, bool) {
	if len(row) < perforacionColumns {
		return nil, false
	}
	return &Perforacion{
		ID:            cell(row, 0),
		Codigo:        cell(row, 1),
		ProyectoID:    cell(row, 2),
		Nombre:        cell(row, 3),
		Descripcion:   optCell(row, 4),
		Ubicacion:     optCell(row, 5),
		Profundidad:   floatCell(row, 6),
		FechaInicio:   optCell(row, 7),
		FechaFin:      optCell(row, 8),
		Estado:        cell(row, 9),
		DriveFolderID: optCell(row, 10),
		CreatedAt:     timeCell(row, 11),
		UpdatedAt:     timeCell(row, 12),
	}, true
}

// ToRow encodes the drilling for the spreadsheet.
func (p *Perforacion) ToRow() []string {
	return []string{
		p.ID,
		p.Codigo,
		p.ProyectoID,
		p.Nombre,
		strOrEmpty(p.Descripcion),
		strOrEmpty(p.Ubicacion),
		floatOrEmpty(p.Profundidad),
		strOrEmpty(p.FechaInicio),
		strOrEmpty(p.FechaFin),
		p.Estado,
		strOrEmpty(p.DriveFolderID),
		formatSheetTime(p.CreatedAt),
		formatSheetTime(p.UpdatedAt),
	}
}
