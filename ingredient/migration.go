package ingredient

import "github.com/doug-martin/goqu/v9"

func CreateIngredientsTable(db *goqu.Database) {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS ingredients (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            name VARCHAR(255) NOT NULL UNIQUE,
            category VARCHAR(50) NOT NULL,
            base_unit VARCHAR(20) NOT NULL,
            packaging_unit VARCHAR(20) NOT NULL,
            packaging_quantity DECIMAL(12,4) NOT NULL,
            cost_per_package DECIMAL(12,4) NOT NULL DEFAULT 0,
            stock DECIMAL(12,4) NOT NULL DEFAULT 0,
            reorder_level DECIMAL(12,4) NOT NULL DEFAULT 0,
            is_active BOOLEAN NOT NULL DEFAULT 1
        )
    `)

	if err != nil {
		panic(err)
	}
}

func RollbackIngredientsTable(db *goqu.Database) {
	if _, err := db.Exec("DROP TABLE IF EXISTS ingredients"); err != nil {
		panic(err)
	}
}
