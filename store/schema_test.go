package store

import (
	"strings"
	"testing"
)

func TestAllSchemasCoversEveryTable(t *testing.T) {
	schemas := AllSchemas()
	if len(schemas) != len(allTables) {
		t.Fatalf("AllSchemas() returned %d statements, want %d (one per allTables entry)", len(schemas), len(allTables))
	}
	for _, table := range allTables {
		found := false
		for _, ddl := range schemas {
			if strings.Contains(ddl, "EXISTS "+table+" ") {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("no CREATE TABLE statement found for %q", table)
		}
	}
}

func TestAllSchemasCarryRunID(t *testing.T) {
	for _, ddl := range AllSchemas() {
		if !strings.Contains(ddl, "run_id") {
			t.Errorf("schema missing run_id column: %s", ddl)
		}
	}
}
