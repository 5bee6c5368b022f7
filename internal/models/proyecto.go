package models

import "time"

// Valid estados for proyectos and perforaciones. These are plain strings
// rather than a workflow: only ensayos carry the full state machine.
const (
	EstadoActivo     = "activo"
	EstadoEnProceso  = "en_proceso"
	EstadoFinalizado = "finalizado"
	EstadoCancelado  = "cancelado"
)

// Proyecto represents a geotechnical project commissioned by a client.
type Proyecto struct {
	ID               string     `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Codigo           string     `gorm:"type:varchar(32);uniqueIndex" json:"codigo"`
	Nombre           string     `gorm:"type:varchar(255);not null" json:"nombre"`
	Descripcion      string     `gorm:"type:text" json:"descripcion"`
	FechaInicio      string     `gorm:"type:varchar(32)" json:"fecha_inicio"`
	FechaFinEstimada *string    `gorm:"type:varchar(32)" json:"fecha_fin_estimada,omitempty"`
	ClienteID        string     `gorm:"type:varchar(64);index" json:"cliente_id"`
	ClienteNombre    string     `gorm:"type:varchar(255)" json:"cliente_nombre"`
	Contacto         *string    `gorm:"type:varchar(255)" json:"contacto,omitempty"`
	Estado           string     `gorm:"type:varchar(32);default:'activo'" json:"estado"`
	FechaFinReal     *string    `gorm:"type:varchar(32)" json:"fecha_fin_real,omitempty"`
	DriveFolderID    *string    `gorm:"type:varchar(128)" json:"drive_folder_id,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	CreatedBy        *string    `gorm:"type:varchar(128)" json:"created_by,omitempty"`
	SyncedAt         *time.Time `json:"synced_at,omitempty"`
	SyncSource       string     `gorm:"type:varchar(16)" json:"sync_source,omitempty"`
}

// TableName specifies the table name
func (Proyecto) TableName() string {
	return "proyectos"
}

const proyectoColumns = 15

// ProyectoFromRow decodes a spreadsheet row.
func ProyectoFromRow(row []string) (*Proyecto, bool) {
	if len(row) < proyectoColumns {
		return nil, false
	}
	return &Proyecto{
		ID:               cell(row, 0),
		Codigo:           cell(row, 1),
		Nombre:           cell(row, 2),
		Descripcion:      cell(row, 3),
		FechaInicio:      cell(row, 4),
		FechaFinEstimada: optCell(row, 5),
		ClienteID:        cell(row, 6),
		ClienteNombre:    cell(row, 7),
		Contacto:         optCell(row, 8),
		Estado:           cell(row, 9),
		FechaFinReal:     optCell(row, 10),
		DriveFolderID:    optCell(row, 11),
		CreatedAt:        timeCell(row, 12),
		UpdatedAt:        timeCell(row, 13),
		CreatedBy:        optCell(row, 14),
	}, true
}

// ToRow encodes the project for the spreadsheet.
func (p *Proyecto) ToRow() []string {
	return []string{
		p.ID,
		p.Codigo,
		p.Nombre,
		p.Descripcion,
		p.FechaInicio,
		strOrEmpty(p.FechaFinEstimada),
		p.ClienteID,
		p.ClienteNombre,
		strOrEmpty(p.Contacto),
		p.Estado,
		strOrEmpty(p.FechaFinReal),
		strOrEmpty(p.DriveFolderID),
		formatSheetTime(p.CreatedAt),
		formatSheetTime(p.UpdatedAt),
		strOrEmpty(p.CreatedBy),
	}
}
