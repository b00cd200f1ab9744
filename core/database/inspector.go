package database

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Drift lists what a table is missing compared to its model.
type Drift struct {
	Table          string
	MissingTable   bool
	MissingColumns []string
}

// TableColumns returns the lower-cased column names of table.
func TableColumns(db *gorm.DB, table string) ([]string, error) {
	types, err := db.Migrator().ColumnTypes(table)
	if err != nil {
		return nil, fmt.Errorf("failed to get columns for table %s: %w", table, err)
	}
	columns := make([]string, 0, len(types))
	for _, t := range types {
		columns = append(columns, strings.ToLower(t.Name()))
	}
	return columns, nil
}

// Inspect compares the live schema with the given models and returns the
// tables that are missing or lack columns.
func Inspect(db *gorm.DB, models ...any) ([]Drift, error) {
	var drifts []Drift
	for _, model := range models {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return nil, fmt.Errorf("failed to parse model %T: %w", model, err)
		}
		table := stmt.Schema.Table

		if !db.Migrator().HasTable(table) {
			drifts = append(drifts, Drift{Table: table, MissingTable: true})
			continue
		}

		columns, err := TableColumns(db, table)
		if err != nil {
			return nil, err
		}
		have := make(map[string]struct{}, len(columns))
		for _, c := range columns {
			have[c] = struct{}{}
		}

		var missing []string
		for _, name := range stmt.Schema.DBNames {
			if _, ok := have[strings.ToLower(name)]; !ok {
				missing = append(missing, name)
			}
		}
		if len(missing) > 0 {
			drifts = append(drifts, Drift{Table: table, MissingColumns: missing})
		}
	}
	return drifts, nil
}
