package db

import (
	"database/sql"
	"fmt"
	"log"

	"dhun/config"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
)

var DB *sql.DB

// ConnectDB establishes a connection to the database.
func ConnectDB(cfg *config.Config) error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)

	var err error
	DB, err = sql.Open("mysql", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	if err = DB.Ping(); err != nil {
		DB.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Successfully connected to the database.")
	return nil
}

// InitDB creates the schema if it does not exist. GORM AutoMigrate handles
// the same models on the GORM connection; this path keeps plain-SQL setups
// working without it.
func InitDB() error {
	if err := createUsersTable(); err != nil {
		return err
	}
	if err := createSongsTable(); err != nil {
		return err
	}
	log.Println("Database initialization completed.")
	return nil
}

func createUsersTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		id INT AUTO_INCREMENT PRIMARY KEY,
		email VARCHAR(255) NOT NULL UNIQUE,
		name VARCHAR(255) NOT NULL,
		display_name VARCHAR(255),
		password_hash VARCHAR(255) NOT NULL,
		role VARCHAR(20) NOT NULL,
		status VARCHAR(20) NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	);
	`
	if _, err := DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}
	return nil
}

func createSongsTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS songs (
		id INT AUTO_INCREMENT PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		artist_id INT NOT NULL,
		album_name VARCHAR(255),
		file_url VARCHAR(767) NOT NULL,
		cover_url VARCHAR(767),
		duration DOUBLE DEFAULT 0,
		status VARCHAR(20) NOT NULL,
		uploaded_by_id INT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		CONSTRAINT fk_song_artist FOREIGN KEY (artist_id) REFERENCES users(id),
		CONSTRAINT fk_song_uploader FOREIGN KEY (uploaded_by_id) REFERENCES users(id),
		INDEX idx_songs_status_created (status, created_at)
	);
	`
	if _, err := DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create songs table: %w", err)
	}
	return nil
}
