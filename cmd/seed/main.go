// Seeds a development database with an admin account and a small set of
// laboratory records so the API and the spreadsheet sync have something to
// work with.
package main

import (
	"fmt"
	"log"

	"github.com/rulos-nico/17025/internal/config"
	"github.com/rulos-nico/17025/internal/database"
	"github.com/rulos-nico/17025/internal/models"
	"github.com/rulos-nico/17025/internal/store"
	"github.com/rulos-nico/17025/internal/utils"
)

func main() {
	fmt.Println("🌱 Lab 17025 Demo Data Seeder")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer db.Close()

	fmt.Println("🔨 Running database migrations...")
	err = db.AutoMigrate(
		&models.UserAuth{},
		&models.Cliente{},
		&models.Proyecto{},
		&models.Perforacion{},
		&models.Muestra{},
		&models.Ensayo{},
		&models.Equipo{},
		&models.Sensor{},
		&models.Calibracion{},
		&models.Comprobacion{},
		&models.PersonalInterno{},
		&models.SyncCheckpoint{},
		&models.SyncLease{},
		&models.SyncRun{},
	)
	if err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}

	var clienteCount int64
	db.Model(&models.Cliente{}).Count(&clienteCount)
	if clienteCount > 0 {
		fmt.Printf("⚠️  Database already has %d clientes, aborting.\n", clienteCount)
		return
	}

	stores := store.NewStores(db.DB)

	hash, err := utils.HashPassword("admin")
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	admin := &models.UserAuth{
		ID:       utils.GenerateUUID(),
		Username: "admin",
		Password: hash,
		Email:    "admin@lab.local",
		Name:     "Administrador",
		Role:     "admin",
		IsActive: true,
	}
	if err := stores.Users.Create(admin); err != nil {
		log.Fatalf("❌ Creating admin: %v", err)
	}
	fmt.Println("✅ Admin account created (admin/admin)")

	cliente := &models.Cliente{
		ID:     utils.GenerateUUID(),
		Codigo: utils.GenerateSimpleCode("CLI"),
		Nombre: "Constructora Andina SpA",
		Activo: true,
	}
	if err := stores.Clientes.Create(cliente); err != nil {
		log.Fatalf("❌ Creating cliente: %v", err)
	}

	proyecto := &models.Proyecto{
		ID:            utils.GenerateUUID(),
		Codigo:        utils.GenerateDatedCode("PRY"),
		Nombre:        "Edificio Los Aromos",
		ClienteID:     cliente.ID,
		ClienteNombre: cliente.Nombre,
		Estado:        models.EstadoActivo,
	}
	if err := stores.Proyectos.Create(proyecto); err != nil {
		log.Fatalf("❌ Creating proyecto: %v", err)
	}

	perforacion := &models.Perforacion{
		ID:         utils.GenerateUUID(),
		Codigo:     utils.GenerateDatedCode("PERF"),
		ProyectoID: proyecto.ID,
		Nombre:     "Sondaje S-1",
		Estado:     models.EstadoActivo,
	}
	if err := stores.Perforaciones.Create(perforacion); err != nil {
		log.Fatalf("❌ Creating perforacion: %v", err)
	}

	muestra := &models.Muestra{
		ID:                utils.GenerateUUID(),
		Codigo:            utils.GenerateDatedCode("MUE"),
		PerforacionID:     perforacion.ID,
		ProfundidadInicio: 1.5,
		ProfundidadFin:    2.0,
		TipoMuestra:       "spt",
	}
	if err := stores.Muestras.Create(muestra); err != nil {
		log.Fatalf("❌ Creating muestra: %v", err)
	}

	ensayo := &models.Ensayo{
		ID:            utils.GenerateUUID(),
		Codigo:        utils.GenerateDatedCode("ENS"),
		Tipo:          "humedad",
		PerforacionID: perforacion.ID,
		ProyectoID:    proyecto.ID,
		Muestra:       muestra.ID,
		WorkflowState: models.InitialState,
	}
	if err := stores.Ensayos.Create(ensayo); err != nil {
		log.Fatalf("❌ Creating ensayo: %v", err)
	}

	equipo := &models.Equipo{
		ID:     utils.GenerateUUID(),
		Codigo: utils.GenerateSimpleCode("EQ"),
		Nombre: "Horno de secado",
		Serie:  "H-104",
		Estado: models.EquipoEstadoOperativo,
		Activo: true,
	}
	if err := stores.Equipos.Create(equipo); err != nil {
		log.Fatalf("❌ Creating equipo: %v", err)
	}

	fmt.Println("✅ Seed complete: 1 cliente, 1 proyecto, 1 perforacion, 1 muestra, 1 ensayo, 1 equipo")
}
