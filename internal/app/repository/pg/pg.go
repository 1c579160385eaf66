package pg

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"voice-recap/internal/app/model"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS recaps (
	id BIGSERIAL PRIMARY KEY,
	file_name TEXT NOT NULL,
	audio_duration INTEGER NOT NULL DEFAULT 0,
	transcript TEXT NOT NULL DEFAULT '',
	summary TEXT NOT NULL DEFAULT '',
	titles JSONB NOT NULL DEFAULT '[]',
	created_at TIMESTAMPTZ NOT NULL,
	has_error INTEGER NOT NULL DEFAULT 0,
	error_message TEXT NOT NULL DEFAULT ''
);`

// PostgresDB is the postgres-backed RecapDAO.
type PostgresDB struct {
	db *sql.DB
}

// NewPostgresDB connects with the given connection string and ensures the
// schema exists.
func NewPostgresDB(connectionString string) (*PostgresDB, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	return &PostgresDB{db: db}, nil
}

// newWithDB wires an existing connection, used by unit tests with sqlmock.
func newWithDB(db *sql.DB) *PostgresDB {
	return &PostgresDB{db: db}
}

func (p *PostgresDB) Close() error {
	return p.db.Close()
}

func (p *PostgresDB) Save(recap *model.Recap) (int64, error) {
	titles, err := json.Marshal(recap.Titles)
	if err != nil {
		return 0, fmt.Errorf("marshal titles: %w", err)
	}

	createdAt := recap.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	var id int64
	err = p.db.QueryRow(
		`INSERT INTO recaps (file_name, audio_duration, transcript, summary, titles, created_at, has_error, error_message)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		recap.FileName, recap.AudioDuration, recap.Transcript, recap.Summary,
		string(titles), createdAt, recap.HasError, recap.ErrorMessage,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert recap: %w", err)
	}
	return id, nil
}

func (p *PostgresDB) GetByID(id int64) (*model.Recap, error) {
	row := p.db.QueryRow(
		`SELECT id, file_name, audio_duration, transcript, summary, titles, created_at, has_error, error_message
		 FROM recaps WHERE id = $1`, id)
	return scanRecap(row)
}

func (p *PostgresDB) List(limit, offset int) ([]model.Recap, error) {
	rows, err := p.db.Query(
		`SELECT id, file_name, audio_duration, transcript, summary, titles, created_at, has_error, error_message
		 FROM recaps ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
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
