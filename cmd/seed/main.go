package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/jflow/juridica-flow-api/internal/models"
	"github.com/jflow/juridica-flow-api/internal/repository"
	"github.com/jflow/juridica-flow-api/pkg/config"
	"github.com/jflow/juridica-flow-api/pkg/database"
	"github.com/jflow/juridica-flow-api/pkg/logger"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS units (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		full_name TEXT NOT NULL,
		role TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS legal_requests (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT,
		unit_id TEXT NOT NULL REFERENCES units (id),
		complexity INT NOT NULL DEFAULT 2,
		due_date TIMESTAMPTZ,
		status TEXT NOT NULL DEFAULT 'PENDIENTE',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS assignments (
		id TEXT PRIMARY KEY,
		request_id TEXT NOT NULL REFERENCES legal_requests (id),
		assignee_id TEXT NOT NULL REFERENCES users (id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (request_id, assignee_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_legal_requests_status ON legal_requests (status)`,
	`CREATE INDEX IF NOT EXISTS idx_assignments_request ON assignments (request_id)`,
}

var seedUnits = []string{
	"Dirección de Tránsito",
	"SECPLA",
	"Dirección de Administración y Finanzas",
	"DIDECO",
	"Dirección de Obras Municipales",
}

var seedUsers = []models.User{
	{FullName: "Luis Patricio Yáñez González", Role: "Director Jurídico"},
	{FullName: "Luis Matías Trujillo Leiva", Role: "Asesor Jurídico"},
	{FullName: "Salomón Ignacio Rivas Tapia", Role: "Asesor Jurídico"},
	{FullName: "Romina Andrea Durán Durán", Role: "Administrativa"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			logr.Sugar().Fatalw("failed to apply schema", "error", err)
		}
	}

	unitRepo := repository.NewUnitRepository(db)
	userRepo := repository.NewUserRepository(db)

	for _, name := range seedUnits {
		if _, err := unitRepo.FindByName(ctx, name); err == nil {
			continue
		} else if !errors.Is(err, sql.ErrNoRows) {
			logr.Sugar().Fatalw("failed to check unit", "name", name, "error", err)
		}
		unit := &models.Unit{Name: name}
		if err := unitRepo.Create(ctx, unit); err != nil {
			logr.Sugar().Fatalw("failed to seed unit", "name", name, "error", err)
		}
		logr.Info("unit seeded", zap.String("name", name))
	}

	for _, user := range seedUsers {
		if _, err := userRepo.FindByFullName(ctx, user.FullName); err == nil {
			continue
		} else if !errors.Is(err, sql.ErrNoRows) {
			logr.Sugar().Fatalw("failed to check user", "full_name", user.FullName, "error", err)
		}
		seeded := user
		if err := userRepo.Create(ctx, &seeded); err != nil {
			logr.Sugar().Fatalw("failed to seed user", "full_name", user.FullName, "error", err)
		}
		logr.Info("user seeded", zap.String("full_name", user.FullName), zap.String("role", user.Role))
	}

	logr.Info("seed complete")
}
