package core_test

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"fitout-erp/internal/core"
	"fitout-erp/internal/db"
	"fitout-erp/migrations"
)

// Seeded fixtures.
const (
	directorID = 1
	salesID    = 2
	inactiveID = 3
	clientID   = 1
	vendorA    = 1
	vendorB    = 2
	vendorOff  = 3
)

var (
	director = core.Actor{UserID: directorID, Role: "DIRECTOR"}
	sales    = core.Actor{UserID: salesID, Role: "SALES"}
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	_ = godotenv.Load("../../.env")

	// Use a dedicated TEST database to avoid wiping the live app database.
	// Set TEST_DATABASE_URL in your .env or environment to run integration tests.
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test to protect live database")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.Migrate(ctx, pool, migrations.Files, zap.NewNop()); err != nil {
		pool.Close()
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	// Clean and seed test DB
	_, err = pool.Exec(ctx, `
		TRUNCATE TABLE purchase_order_lines, purchase_orders, vendor_quote_lines, vendor_quotes,
		               material_request_items, material_requests, project_subgroups, projects,
		               quotation_lines, quotations, document_sequences, items, vendors, clients, users
		RESTART IDENTITY CASCADE;

		INSERT INTO users (id, username, email, role, is_active) VALUES
		(1, 'dana', 'dana@fitout.test', 'DIRECTOR', true),
		(2, 'sam', 'sam@fitout.test', 'SALES', true),
		(3, 'old', 'old@fitout.test', 'DIRECTOR', false);

		INSERT INTO clients (id, code, name, email) VALUES
		(1, 'C001', 'Acme Holdings', 'pm@acme.test');

		INSERT INTO vendors (id, code, name, is_active) VALUES
		(1, 'V001', 'Alpha Interiors', true),
		(2, 'V002', 'Beta Glass', true),
		(3, 'V003', 'Dormant Supplies', false);

		SELECT setval('users_id_seq', 3);
		SELECT setval('clients_id_seq', 1);
		SELECT setval('vendors_id_seq', 3);
	`)
	if err != nil {
		pool.Close()
		t.Fatalf("Failed to seed test database: %v", err)
	}

	return pool
}
