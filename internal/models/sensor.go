package models

import "time"

// Sensor represents a measurement sensor, optionally attached to a parent
// piece of equipment. The attachment is managed through the API only: a
// sheets-origin decode never carries an EquipoID.
type Sensor struct {
	ID                 string     `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Codigo             string     `gorm:"type:varchar(32);uniqueIndex" json:"codigo"`
	Tipo               string     `gorm:"type:varchar(64)" json:"tipo"`
	Marca              *string    `gorm:"type:varchar(128)" json:"marca,omitempty"`
	Modelo             *string    `gorm:"type:varchar(128)" json:"modelo,omitempty"`
	NumeroSerie        string     `gorm:"type:varchar(128)" json:"numero_serie"`
	RangoMedicion      *string    `gorm:"type:varchar(128)" json:"rango_medicion,omitempty"`
	Precision          *string    `gorm:"type:varchar(128)" json:"precision,omitempty"`
	Ubicacion          *string    `gorm:"type:varchar(255)" json:"ubicacion,omitempty"`
	Estado             string     `gorm:"type:varchar(32);default:'operativo'" json:"estado"`
	FechaCalibracion   *string    `gorm:"type:varchar(32)" json:"fecha_calibracion,omitempty"`
	ProximaCalibracion *string    `gorm:"type:varchar(32)" json:"proxima_calibracion,omitempty"`
	ErrorMaximo        *float64   `json:"error_maximo,omitempty"`
	CertificadoID      *string    `gorm:"type:varchar(128)" json:"certificado_id,omitempty"`
	Responsable        *string    `gorm:"type:varchar(255)" json:"responsable,omitempty"`
	Observaciones      *string    `gorm:"type:text" json:"observaciones,omitempty"`
	Activo             bool       `gorm:"default:true" json:"activo"`
	EquipoID           *string    `gorm:"type:varchar(64);index" json:"equipo_id,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
	SyncedAt           *time.Time `json:"synced_at,omitempty"`
	SyncSource         string     `gorm:"type:varchar(16)" json:"sync_source,omitempty"`
}

// TableName specifies the table name
func (Sensor) TableName() string {
	return "sensores"
}

const sensorColumns = 18

// SensorFromRow decodes a spreadsheet row into a Sensor. EquipoID is left nil:
// the sensor↔equipment link lives in the database only.
func SensorFromRow(row []string) (*Sensor, bool) {
	if len(row) < sensorColumns {
		return nil, false
	}
	return &Sensor{
		ID:                 cell(row, 0),
		Codigo:             cell(row, 1),
		Tipo:               cell(row, 2),
		Marca:              optCell(row, 3),
		Modelo:             optCell(row, 4),
		NumeroSerie:        cell(row, 5),
		RangoMedicion:      optCell(row, 6),
		Precision:          optCell(row, 7),
		Ubicacion:          optCell(row, 8),
		Estado:             cell(row, 9),
		FechaCalibracion:   optCell(row, 10),
		ProximaCalibracion: optCell(row, 11),
		ErrorMaximo:        floatCell(row, 12),
		CertificadoID:      optCell(row, 13),
		Responsable:        optCell(row, 14),
		Observaciones:      optCell(row, 15),
		Activo:             boolCell(row, 16, true),
		CreatedAt:          timeCell(row, 17),
		UpdatedAt:          timeCell(row, 18),
	}, true
}

// ToRow encodes the sensor for the spreadsheet. The equipment link is not
// exported.
func (s *Sensor) ToRow() []string {
	return []string{
		s.ID,
		s.Codigo,
		s.Tipo,
		strOrEmpty(s.Marca),
		strOrEmpty(s.Modelo),
		s.NumeroSerie,
		strOrEmpty(s.RangoMedicion),
		strOrEmpty(s.Precision),
		strOrEmpty(s.Ubicacion),
		s.Estado,
		strOrEmpty(s.FechaCalibracion),
		strOrEmpty(s.ProximaCalibracion),
		floatOrEmpty(s.ErrorMaximo),
		strOrEmpty(s.CertificadoID),
		strOrEmpty(s.Responsable),
		strOrEmpty(s.Observaciones),
		formatBool(s.Activo),
		formatSheetTime(s.CreatedAt),
		formatSheetTime(s.UpdatedAt),
	}
}
