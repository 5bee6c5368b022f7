package models

import "time"

// PersonalInterno is a laboratory staff member. Technicians are assigned to
// test requests by id and display name.
type PersonalInterno struct {
	ID         string     `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Codigo     string     `gorm:"type:varchar(32);uniqueIndex" json:"codigo"`
	Nombre     string     `gorm:"type:varchar(255)" json:"nombre"`
	Apellido   string     `gorm:"type:varchar(255)" json:"apellido"`
	Cargo      string     `gorm:"type:varchar(128)" json:"cargo"`
	Email      string     `gorm:"type:varchar(255);uniqueIndex" json:"email"`
	Telefono   *string    `gorm:"type:varchar(64)" json:"telefono,omitempty"`
	Activo     bool       `gorm:"default:true" json:"activo"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	SyncedAt   *time.Time `json:"synced_at,omitempty"`
	SyncSource string     `gorm:"type:varchar(16)" json:"sync_source,omitempty"`
}

// TableName specifies the table name
func (PersonalInterno) TableName() string {
	return "personal_interno"
}

// NombreCompleto returns the display name used on test assignments.
func (p *PersonalInterno) NombreCompleto() string {
	return p.Nombre + " " + p.Apellido
}

const personalColumns = 10

// PersonalFromRow decodes a spreadsheet row into a PersonalInterno.
func PersonalFromRow(row []string) (*PersonalInterno, bool) {
	if len(row) < personalColumns {
		return nil, false
	}
	return &PersonalInterno{
		ID:        cell(row, 0),
		Codigo:    cell(row, 1),
		Nombre:    cell(row, 2),
		Apellido:  cell(row, 3),
		Cargo:     cell(row, 4),
		Email:     cell(row, 5),
		Telefono:  optCell(row, 6),
		Activo:    boolCell(row, 7, true),
		CreatedAt: timeCell(row, 8),
		UpdatedAt: timeCell(row, 9),
	}, true
}

// ToRow encodes the staff member for the spreadsheet.
func (p *PersonalInterno) ToRow() []string {
	return []string{
		p.ID,
		p.Codigo,
		p.Nombre,
		p.Apellido,
		p.Cargo,
		p.Email,
		strOrEmpty(p.Telefono),
		formatBool(p.Activo),
		formatSheetTime(p.CreatedAt),
		formatSheetTime(p.UpdatedAt),
	}
}
