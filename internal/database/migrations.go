package database

import (
	"database/sql"
	"fmt"
	"log"
)

// schema statements are idempotent and run in order on startup.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS floor_plans (
		id TEXT PRIMARY KEY,
		building_id TEXT NOT NULL,
		name TEXT NOT NULL,
		image_url TEXT NOT NULL DEFAULT '',
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		is_active INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
		updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	)`,
	`CREATE TABLE IF NOT EXISTS device_positions (
		device_id TEXT PRIMARY KEY,
		floor_plan_id TEXT NOT NULL REFERENCES floor_plans(id) ON DELETE CASCADE,
		x REAL NOT NULL,
		y REAL NOT NULL,
		status TEXT NOT NULL DEFAULT 'offline',
		last_seen TEXT NOT NULL DEFAULT '',
		timestamp TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_device_positions_plan ON device_positions(floor_plan_id)`,
	`CREATE TABLE IF NOT EXISTS checkpoints (
		id TEXT PRIMARY KEY,
		floor_plan_id TEXT NOT NULL REFERENCES floor_plans(id) ON DELETE CASCADE,
		checkpoint_type TEXT NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		x REAL NOT NULL,
		y REAL NOT NULL,
		capacity INTEGER NOT NULL DEFAULT 0,
		responsible_person TEXT NOT NULL DEFAULT '',
		equipment TEXT NOT NULL DEFAULT '[]',
		contact_info TEXT NOT NULL DEFAULT '',
		is_active INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
		updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	)`,
	`CREATE INDEX IF NOT EXISTS idx_checkpoints_plan ON checkpoints(floor_plan_id)`,
	`CREATE TABLE IF NOT EXISTS routes (
		id TEXT PRIMARY KEY,
		floor_plan_id TEXT NOT NULL REFERENCES floor_plans(id) ON DELETE CASCADE,
		name TEXT NOT NULL DEFAULT '',
		route_type TEXT NOT NULL,
		color TEXT NOT NULL DEFAULT '',
		line_width REAL NOT NULL DEFAULT 0,
		is_active INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
		updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	)`,
	`CREATE INDEX IF NOT EXISTS idx_routes_plan ON routes(floor_plan_id)`,
	`CREATE TABLE IF NOT EXISTS route_waypoints (
		route_id TEXT NOT NULL REFERENCES routes(id) ON DELETE CASCADE,
		ord INTEGER NOT NULL,
		x REAL NOT NULL,
		y REAL NOT NULL,
		label TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (route_id, ord)
	)`,
}

// Migrate applies the schema. Safe to run on every startup.
func Migrate(db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement %d: %w", i, err)
		}
	}
	log.Printf("Database schema ready (%d statements)", len(schema))
	return nil
}
