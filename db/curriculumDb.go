package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"schooltutor/models"

	_ "github.com/lib/pq"
)

const DefaultCurriculumID = "default"

// ErrCurriculumNotFound is returned when no curriculum row exists.
var ErrCurriculumNotFound = errors.New("curriculum record not found")

type CurriculumRepository interface {
	GetCurriculum(ctx context.Context) (models.CurriculumData, error)
	Close() error
}

type PostgresCurriculumRepository struct {
	db *sql.DB
	id string
}

func NewPostgresCurriculumRepository(databaseURL string) (*PostgresCurriculumRepository, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresCurriculumRepository{db: db, id: DefaultCurriculumID}, nil
}

func (r *PostgresCurriculumRepository) GetCurriculum(ctx context.Context) (models.CurriculumData, error) {
	query := `
		SELECT content
		FROM curriculum
		WHERE id = $1`

	var raw []byte
	err := r.db.QueryRowContext(ctx, query, r.id).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCurriculumNotFound
		}
		return nil, fmt.Errorf("failed to get curriculum: %w", err)
	}

	var data models.CurriculumData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal curriculum: %w", err)
	}

	return data, nil
}

func (r *PostgresCurriculumRepository) Close() error {
	return r.db.Close()
}
