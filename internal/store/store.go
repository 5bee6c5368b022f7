package store

import "gorm.io/gorm"

// Stores bundles the per-entity data access objects around a shared gorm
// handle. Handlers and the sync engine receive this instead of raw *gorm.DB.
type Stores struct {
	Clientes       *ClienteStore
	Proyectos      *ProyectoStore
	Perforaciones  *PerforacionStore
	Muestras       *MuestraStore
	Ensayos        *EnsayoStore
	Equipos        *EquipoStore
	Sensores       *SensorStore
	Calibraciones  *CalibracionStore
	Comprobaciones *ComprobacionStore
	Personal       *PersonalStore
	Users          *UserStore
	SyncState      *SyncStateStore
}

// NewStores wires every store onto the same database handle.
func NewStores(db *gorm.DB) *Stores {
	return &Stores{
		Clientes:       &ClienteStore{db: db},
		Proyectos:      &ProyectoStore{db: db},
		Perforaciones:  &PerforacionStore{db: db},
		Muestras:       &MuestraStore{db: db},
		Ensayos:        &EnsayoStore{db: db},
		Equipos:        &EquipoStore{db: db},
		Sensores:       &SensorStore{db: db},
		Calibraciones:  &CalibracionStore{db: db},
		Comprobaciones: &ComprobacionStore{db: db},
		Personal:       &PersonalStore{db: db},
		Users:          &UserStore{db: db},
		SyncState:      &SyncStateStore{db: db},
	}
}
