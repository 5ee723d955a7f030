// Package postgres embeds the SQL migrations for the PostgreSQL settings backend.
package postgres

import "embed"

// SettingsFS contains the migrations for the settings table.
//
//go:embed settings/*.sql
var SettingsFS embed.FS

// SettingsDir is the directory within SettingsFS where migrations live.
const SettingsDir = "settings"
