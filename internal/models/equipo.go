package models

import "time"

// Estados of laboratory equipment.
const (
	EquipoEstadoOperativo     = "operativo"
	EquipoEstadoMantenimiento = "mantenimiento"
	EquipoEstadoCalibracion   = "calibracion"
	EquipoEstadoBaja          = "baja"
)

// Equipo represents a piece of laboratory equipment subject to calibration
// and verification schedules.
type Equipo struct {
	ID                 string     `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Codigo             string     `gorm:"type:varchar(32);uniqueIndex" json:"codigo"`
	Nombre             string     `gorm:"type:varchar(255)" json:"nombre"`
	Serie              string     `gorm:"type:varchar(128)" json:"serie"`
	Placa              *string    `gorm:"type:varchar(64)" json:"placa,omitempty"`
	Descripcion        *string    `gorm:"type:text" json:"descripcion,omitempty"`
	Marca              *string    `gorm:"type:varchar(128)" json:"marca,omitempty"`
	Modelo             *string    `gorm:"type:varchar(128)" json:"modelo,omitempty"`
	Ubicacion          *string    `gorm:"type:varchar(255)" json:"ubicacion,omitempty"`
	Estado             string     `gorm:"type:varchar(32);default:'operativo'" json:"estado"`
	FechaCalibracion   *string    `gorm:"type:varchar(32)" json:"fecha_calibracion,omitempty"`
	ProximaCalibracion *string    `gorm:"type:varchar(32)" json:"proxima_calibracion,omitempty"`
	Incertidumbre      *float64   `json:"incertidumbre,omitempty"`
	ErrorMaximo        *float64   `json:"error_maximo,omitempty"`
	CertificadoID      *string    `gorm:"type:varchar(128)" json:"certificado_id,omitempty"`
	Responsable        *string    `gorm:"type:varchar(255)" json:"responsable,omitempty"`
	Observaciones      *string    `gorm:"type:text" json:"observaciones,omitempty"`
	Activo             bool       `gorm:"default:true" json:"activo"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
	SyncedAt           *time.Time `json:"synced_at,omitempty"`
	SyncSource         string     `gorm:"type:varchar(16)" json:"sync_source,omitempty"`
}

// TableName specifies the table name
func (Equipo) TableName() string {
	return "equipos"
}

const equipoColumns = 20

// EquipoFromRow decodes a spreadsheet row into an Equipo.
func EquipoFromRow(row []string) (*Equipo, bool) {
	if len(row) < equipoColumns {
		return nil, false
	}
	return &Equipo{
		ID:                 cell(row, 0),
		Codigo:             cell(row, 1),
		Nombre:             cell(row, 2),
		Serie:              cell(row, 3),
		Placa:              optCell(row, 4),
		Descripcion:        optCell(row, 5),
		Marca:              optCell(row, 6),
		Modelo:             optCell(row, 7),
		Ubicacion:          optCell(row, 8),
		Estado:             cell(row, 9),
		FechaCalibracion:   optCell(row, 10),
		ProximaCalibracion: optCell(row, 11),
		Incertidumbre:      floatCell(row, 12),
		ErrorMaximo:        floatCell(row, 13),
		CertificadoID:      optCell(row, 14),
		Responsable:        optCell(row, 15),
		Observaciones:      optCell(row, 16),
		Activo:             boolCell(row, 17, true),
		CreatedAt:          timeCell(row, 18),
		UpdatedAt:          timeCell(row, 19),
	}, true
}

// ToRow encodes the equipment for the spreadsheet.
func (e *Equipo) ToRow() []string {
	return []string{
		e.ID,
		e.Codigo,
		e.Nombre,
		e.Serie,
		strOrEmpty(e.Placa),
		strOrEmpty(e.Descripcion),
		strOrEmpty(e.Marca),
		strOrEmpty(e.Modelo),
		strOrEmpty(e.Ubicacion),
		e.Estado,
		strOrEmpty(e.FechaCalibracion),
		strOrEmpty(e.ProximaCalibracion),
		floatOrEmpty(e.Incertidumbre),
		floatOrEmpty(e.ErrorMaximo),
		strOrEmpty(e.CertificadoID),
		strOrEmpty(e.Responsable),
		strOrEmpty(e.Observaciones),
		formatBool(e.Activo),
		formatSheetTime(e.CreatedAt),
		formatSheetTime(e.UpdatedAt),
	}
}
