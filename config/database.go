package config

import (
	"fmt"
	"os"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// InitDB opens the record store. MySQL is used when DB_HOST is configured;
// otherwise a local sqlite file keeps development self-contained.
func InitDB() (*gorm.DB, error) {
	host := os.Getenv("DB_HOST")
	if host == "" {
		path := os.Getenv("SQLITE_PATH")
		if path == "" {
			path = "procurement.db"
		}
		return gorm.Open(sqlite.Open(path), &gorm.Config{})
	}

	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	name := os.Getenv("DB_NAME")
	port := os.Getenv("DB_PORT")
	if port == "" {
		port = "3306"
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		user, password, host, port, name)
	return gorm.Open(mysql.Open(dsn), &gorm.Config{})
}

// IsMySQL reports whether the connected store is MySQL; some migrations
// (triggers) only apply there.
func IsMySQL(db *gorm.DB) bool {
	return db.Dialector.Name() == "mysql"
}
