package meal

import "github.com/doug-martin/goqu/v9"

func CreateMealsTable(db *goqu.Database) {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS meals (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            name VARCHAR(255) NOT NULL,
            description TEXT,
            servings INTEGER UNSIGNED NOT NULL,
            is_active BOOLEAN NOT NULL DEFAULT 1
        )
    `)

	if err != nil {
		panic(err)
	}
}

func RollbackMealsTable(db *goqu.Database) {
	if _, err := db.Exec("DROP TABLE IF EXISTS meals"); err != nil {
		panic(err)
	}
}

func CreateMealIngredientsTable(db *goqu.Database) {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS meal_ingredients (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            meal_id INTEGER NOT NULL REFERENCES meals (id),
            ingredient_id INTEGER NOT NULL REFERENCES ingredients (id),
            quantity DECIMAL(12,4) NOT NULL,
            unit VARCHAR(20) NOT NULL,
            is_optional BOOLEAN NOT NULL DEFAULT 0,
            cost DECIMAL(12,4) NOT NULL DEFAULT 0,
            UNIQUE (meal_id, ingredient_id)
        )
    `)

	if err != nil {
		panic(err)
	}
}

func RollbackMealIngredientsTable(db *goqu.Database) {
	if _, err := db.Exec("DROP TABLE IF EXISTS meal_ingredients"); err != nil {
		panic(err)
	}
}
