package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"voice-recap/internal/app/model"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS recaps (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	file_name TEXT NOT NULL,
	audio_duration INTEGER NOT NULL DEFAULT 0,
	transcript TEXT NOT NULL DEFAULT '',
	summary TEXT NOT NULL DEFAULT '',
	titles TEXT NOT NULL DEFAULT '[]',
	created_at TIMESTAMP NOT NULL,
	has_error INTEGER NOT NULL DEFAULT 0,
	error_message TEXT NOT NULL DEFAULT ''
);`

// SQLiteDB is the sqlite-backed RecapDAO.
type SQLiteDB struct {
	db *sql.DB
}

// NewSQLiteDB opens (and initializes) the recap database at dbPath.
func NewSQLiteDB(dbPath string) *SQLiteDB {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?cache=shared&mode=rwc", dbPath))
	if err != nil {
		log.Fatalf("Failed to open database: %v\n", err)
	}

	if _, err := db.Exec(createTableSQL); err != nil {
		log.Fatalf("Failed to create table: %v\n", err)
	}

	return &SQLiteDB{db: db}
}

func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

func (s *SQLiteDB) Save(recap *model.Recap) (int64, error) {
	titles, err := json.Marshal(recap.Titles)
	if err != nil {
		return 0, fmt.Errorf("marshal titles: %w", err)
	}

	createdAt := recap.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	res, err := s.db.Exec(
		`INSERT INTO recaps (file_name, audio_duration, transcript, summary, titles, created_at, has_error, error_message)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		recap.FileName, recap.AudioDuration, recap.Transcript, recap.Summary,
		string(titles), createdAt, recap.HasError, recap.ErrorMessage,
	)
	if err != nil {
		return 0, fmt.Errorf("insert recap: %w", err)
	}
	return res.LastInsertId()
}

func (s *SQLiteDB) GetByID(id int64) (*model.Recap, error) {
	row := s.db.QueryRow(
		`SELECT id, file_name, audio_duration, transcript, summary, titles, created_at, has_error, error_message
		 FROM recaps WHERE id = ?`, id)
	return scanRecap(row)
}

func (s *SQLiteDB) List(limit, offset int) ([]model.Recap, error) {
	rows, err := s.db.Query(
		`SELECT id, file_name, audio_duration, transcript, summary, titles, created_at, has_error, error_message
		 FROM recaps ORDER BY created_at DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query recaps: %w", err)
	}
	defer rows.Close()

	var recaps []model.Recap
	for rows.Next() {
		recap, err := scanRecap(rows)
		if err != nil {
			return nil, err
		}
		recaps = append(recaps, *recap)
	}
	return recaps, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecap(row rowScanner) (*model.Recap, error) {
	var recap model.Recap
	var titles string
	err := row.Scan(&recap.ID, &recap.FileName, &recap.AudioDuration, &recap.Transcript,
		&recap.Summary, &titles, &recap.CreatedAt, &recap.HasError, &recap.ErrorMessage)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(titles), &recap.Titles); err != nil {
		return nil, fmt.Errorf("unmarshal titles: %w", err)
	}
	return &recap, nil
}
