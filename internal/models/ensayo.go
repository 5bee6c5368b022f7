package models

import (
	"log"
	"time"
)

// Ensayo represents a laboratory test request. It is the only entity with a
// full workflow lifecycle and document side effects.
//
// PDF fields and PerforacionFolderID are server-only: the spreadsheet never
// sees them and a sheets-origin upsert never overwrites them.
type Ensayo struct {
	ID                 string        `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Codigo             string        `gorm:"type:varchar(32);uniqueIndex" json:"codigo"`
	Tipo               string        `gorm:"type:varchar(64)" json:"tipo"`
	PerforacionID      string        `gorm:"type:varchar(64);index" json:"perforacion_id"`
	ProyectoID         string        `gorm:"type:varchar(64);index" json:"proyecto_id"`
	Muestra            string        `gorm:"type:varchar(64)" json:"muestra"`
	Norma              string        `gorm:"type:varchar(64)" json:"norma"`
	WorkflowState      WorkflowState `gorm:"type:varchar(16);default:'E1';index" json:"workflow_state"`
	FechaSolicitud     string        `gorm:"type:varchar(32)" json:"fecha_solicitud"`
	FechaProgramacion  *string       `gorm:"type:varchar(32)" json:"fecha_programacion,omitempty"`
	FechaEjecucion     *string       `gorm:"type:varchar(32)" json:"fecha_ejecucion,omitempty"`
	FechaReporte       *string       `gorm:"type:varchar(32)" json:"fecha_reporte,omitempty"`
	FechaEntrega       *string       `gorm:"type:varchar(32)" json:"fecha_entrega,omitempty"`
	TecnicoID          *string       `gorm:"type:varchar(64)" json:"tecnico_id,omitempty"`
	TecnicoNombre      *string       `gorm:"type:varchar(255)" json:"tecnico_nombre,omitempty"`
	SheetID            *string       `gorm:"type:varchar(128)" json:"sheet_id,omitempty"`
	SheetURL           *string       `gorm:"type:varchar(512)" json:"sheet_url,omitempty"`
	EquiposUtilizados  StringList    `gorm:"type:jsonb" json:"equipos_utilizados"`
	Observaciones      *string       `gorm:"type:text" json:"observaciones,omitempty"`
	Urgente            bool          `gorm:"default:false" json:"urgente"`
	PdfDriveID         *string       `gorm:"type:varchar(128)" json:"pdf_drive_id,omitempty"`
	PdfURL             *string       `gorm:"type:varchar(512)" json:"pdf_url,omitempty"`
	PdfGeneratedAt     *time.Time    `json:"pdf_generated_at,omitempty"`
	PerforacionFolderID *string      `gorm:"type:varchar(128)" json:"perforacion_folder_id,omitempty"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
	SyncedAt           *time.Time    `json:"synced_at,omitempty"`
	SyncSource         string        `gorm:"type:varchar(16)" json:"sync_source,omitempty"`
}

// TableName specifies the table name
func (Ensayo) TableName() string {
	return "ensayos"
}

const ensayoColumns = 22

// EnsayoFromRow decodes a spreadsheet row. An unparseable workflow_state cell
// decodes to StateUnknown and is logged as a data-integrity warning; the row
// itself is still accepted.
func EnsayoFromRow(row []string) (*Ensayo, bool) {
	if len(row) < ensayoColumns {
		return nil, false
	}
	state, ok := ParseWorkflowStateLenient(cell(row, 7))
	if !ok {
		log.Printf("⚠️ Ensayo %s: unparseable workflow_state %q in sheet, keeping as %s",
			cell(row, 0), cell(row, 7), StateUnknown)
	}
	return &Ensayo{
		ID:                cell(row, 0),
		Codigo:            cell(row, 1),
		Tipo:              cell(row, 2),
		PerforacionID:     cell(row, 3),
		ProyectoID:        cell(row, 4),
		Muestra:           cell(row, 5),
		Norma:             cell(row, 6),
		WorkflowState:     state,
		FechaSolicitud:    cell(row, 8),
		FechaProgramacion: optCell(row, 9),
		FechaEjecucion:    optCell(row, 10),
		FechaReporte:      optCell(row, 11),
		FechaEntrega:      optCell(row, 12),
		TecnicoID:         optCell(row, 13),
		TecnicoNombre:     optCell(row, 14),
		SheetID:           optCell(row, 15),
		SheetURL:          optCell(row, 16),
		EquiposUtilizados: listCell(row, 17),
		Observaciones:     optCell(row, 18),
		Urgente:           boolCell(row, 19, false),
		CreatedAt:         timeCell(row, 20),
		UpdatedAt:         timeCell(row, 21),
	}, true
}

// ToRow encodes the test request for the spreadsheet. PDF fields, the cached
// drilling folder id and provenance fields stay in the database only.
func (e *Ensayo) ToRow() []string {
	return []string{
		e.ID,
		e.Codigo,
		e.Tipo,
		e.PerforacionID,
		e.ProyectoID,
		e.Muestra,
		e.Norma,
		e.WorkflowState.String(),
		e.FechaSolicitud,
		strOrEmpty(e.FechaProgramacion),
		strOrEmpty(e.FechaEjecucion),
		strOrEmpty(e.FechaReporte),
		strOrEmpty(e.FechaEntrega),
		strOrEmpty(e.TecnicoID),
		strOrEmpty(e.TecnicoNombre),
		strOrEmpty(e.SheetID),
		strOrEmpty(e.SheetURL),
		e.EquiposUtilizados.joinCell(),
		strOrEmpty(e.Observaciones),
		formatBool(e.Urgente),
		formatSheetTime(e.CreatedAt),
		formatSheetTime(e.UpdatedAt),
	}
}
