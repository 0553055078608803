// Package database handles the optional run history database.
//
// It wraps GORM to open either a MySQL server or a local SQLite file based on
// the application's configuration, and offers small schema inspection helpers.
//
// # Connect
//
// Connect selects the dialect from Config.Driver, applies pool settings and
// verifies the connection with a bounded ping.
//
// # Schema Inspection
//
// GetTableColumns and MissingColumns read the live table definition so callers
// can detect a history table that drifted from the model they write.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Warn("Run history disabled", zap.Error(err))
//	}
//
//	missing, err := database.MissingColumns(db, "validation_runs", []string{"run_id"})
package database
