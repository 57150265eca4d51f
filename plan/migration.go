package plan

import "github.com/doug-martin/goqu/v9"

func CreateMealPlansTable(db *goqu.Database) {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS meal_plans (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            name VARCHAR(255) NOT NULL,
            plan_date DATETIME
        )
    `)

	if err != nil {
		panic(err)
	}
}

func RollbackMealPlansTable(db *goqu.Database) {
	if _, err := db.Exec("DROP TABLE IF EXISTS meal_plans"); err != nil {
		panic(err)
	}
}

func CreateMealPlanEntriesTable(db *goqu.Database) {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS meal_plan_entries (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            plan_id INTEGER NOT NULL REFERENCES meal_plans (id),
            meal_id INTEGER NOT NULL REFERENCES meals (id),
            servings INTEGER UNSIGNED NOT NULL
        )
    `)

	if err != nil {
		panic(err)
	}
}

func RollbackMealPlanEntriesTable(db *goqu.Database) {
	if _, err := db.Exec("DROP TABLE IF EXISTS meal_plan_entries"); err != nil {
		panic(err)
	}
}
