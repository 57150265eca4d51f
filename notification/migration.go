package notification

import "github.com/doug-martin/goqu/v9"

func CreateNotificationsTable(db *goqu.Database) {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS notifications (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            event VARCHAR(50) NOT NULL,
            message TEXT NOT NULL,
            created_at DATETIME NOT NULL
        )
    `)

	if err != nil {
		panic(err)
	}
}

func RollbackNotificationsTable(db *goqu.Database) {
	if _, err := db.Exec("DROP TABLE IF EXISTS notifications"); err != nil {
		panic(err)
	}
}
