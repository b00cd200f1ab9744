// Package database opens the registry database and inspects its schema.
//
// Connect wraps GORM for the three supported drivers: MySQL and PostgreSQL
// in production, SQLite for local runs and tests. Inspect compares the live
// tables with the registry models so `migrate --check` can report drift
// without altering anything.
//
//	db, err := database.Connect(cfg.Database)
//	drifts, err := database.Inspect(db, models.All()...)
package database
