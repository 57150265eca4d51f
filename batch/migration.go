package batch

import "github.com/doug-martin/goqu/v9"

func CreateIngredientBatchesTable(db *goqu.Database) {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS ingredient_batches (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            ingredient_id INTEGER NOT NULL REFERENCES ingredients (id),
            package_quantity DECIMAL(12,4) NOT NULL,
            base_unit_quantity DECIMAL(12,4) NOT NULL,
            expiry_date DATETIME NOT NULL,
            received_date DATETIME NOT NULL,
            batch_number VARCHAR(100) NOT NULL,
            cost_per_package DECIMAL(12,4) NOT NULL DEFAULT 0,
            supplier VARCHAR(255),
            purchase_order VARCHAR(100)
        )
    `)

	if err != nil {
		panic(err)
	}
}

func RollbackIngredientBatchesTable(db *goqu.Database) {
	if _, err := db.Exec("DROP TABLE IF EXISTS ingredient_batches"); err != nil {
		panic(err)
	}
}
