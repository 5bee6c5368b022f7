package models

import "time"

// Cliente represents a laboratory client (the commissioning company).
type Cliente struct {
	ID               string     `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Codigo           string     `gorm:"type:varchar(32);uniqueIndex" json:"codigo"`
	Nombre           string     `gorm:"type:varchar(255);not null" json:"nombre"`
	Rut              *string    `gorm:"type:varchar(32)" json:"rut,omitempty"`
	Direccion        *string    `gorm:"type:varchar(255)" json:"direccion,omitempty"`
	Ciudad           *string    `gorm:"type:varchar(128)" json:"ciudad,omitempty"`
	Telefono         *string    `gorm:"type:varchar(64)" json:"telefono,omitempty"`
	Email            *string    `gorm:"type:varchar(255)" json:"email,omitempty"`
	ContactoNombre   *string    `gorm:"type:varchar(255)" json:"contacto_nombre,omitempty"`
	ContactoCargo    *string    `gorm:"type:varchar(128)" json:"contacto_cargo,omitempty"`
	ContactoEmail    *string    `gorm:"type:varchar(255)" json:"contacto_email,omitempty"`
	ContactoTelefono *string    `gorm:"type:varchar(64)" json:"contacto_telefono,omitempty"`
	Activo           bool       `gorm:"default:true" json:"activo"`
	DriveFolderID    *string    `gorm:"type:varchar(128)" json:"drive_folder_id,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	SyncedAt         *time.Time `json:"synced_at,omitempty"`
	SyncSource       string     `gorm:"type:varchar(16)" json:"sync_source,omitempty"`
}

// TableName specifies the table name
func (Cliente) TableName() string {
	return "clientes"
}

// clienteColumns is the required column count of the Clientes sheet.
const clienteColumns = 16

// ClienteFromRow decodes a spreadsheet row. Returns ok=false when the row is
// shorter than the sheet schema; short rows are skipped, not errors.
func ClienteFromRow(row []string) (*Cliente, bool) {
	if len(row) < clienteColumns {
		return nil, false
	}
	return &Cliente{
		ID:               cell(row, 0),
		Codigo:           cell(row, 1),
		Nombre:           cell(row, 2),
		Rut:              optCell(row, 3),
		Direccion:        optCell(row, 4),
		Ciudad:           optCell(row, 5),
		Telefono:         optCell(row, 6),
		Email:            optCell(row, 7),
		ContactoNombre:   optCell(row, 8),
		ContactoCargo:    optCell(row, 9),
		ContactoEmail:    optCell(row, 10),
		ContactoTelefono: optCell(row, 11),
		Activo:           boolCell(row, 12, true),
		DriveFolderID:    optCell(row, 13),
		CreatedAt:        timeCell(row, 14),
		UpdatedAt:        timeCell(row, 15),
	}, true
}

// ToRow encodes the client for the spreadsheet. Provenance fields are never
// round-tripped.
func (c *Cliente) ToRow() []string {
	return []string{
		c.ID,
		c.Codigo,
		c.Nombre,
		strOrEmpty(c.Rut),
		strOrEmpty(c.Direccion),
		strOrEmpty(c.Ciudad),
		strOrEmpty(c.Telefono),
		strOrEmpty(c.Email),
		strOrEmpty(c.ContactoNombre),
		strOrEmpty(c.ContactoCargo),
		strOrEmpty(c.ContactoEmail),
		strOrEmpty(c.ContactoTelefono),
		formatBool(c.Activo),
		strOrEmpty(c.DriveFolderID),
		formatSheetTime(c.CreatedAt),
		formatSheetTime(c.UpdatedAt),
	}
}
