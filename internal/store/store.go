// Package store persists generations and their age progressions in an
// embedded sqlite database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/manash/babygen/pkg/models"
)

var ErrNotFound = errors.New("generation not found")

const schema = `
CREATE TABLE IF NOT EXISTS generations (
    id TEXT PRIMARY KEY,
    mother_image TEXT,
    father_image TEXT,
    baby_image TEXT,
    ultrasound_image TEXT,
    gender TEXT,
    age INTEGER NOT NULL DEFAULT 6,
    age_unit TEXT NOT NULL DEFAULT 'months',
    weight TEXT,
    generated_image TEXT NOT NULL,
    prompt TEXT,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS age_progressions (
    id TEXT PRIMARY KEY,
    generation_id TEXT NOT NULL,
    new_age INTEGER NOT NULL,
    new_age_unit TEXT NOT NULL,
    progressed_image TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_age_progressions_generation_id ON age_progressions(generation_id);
CREATE INDEX IF NOT EXISTS idx_generations_created_at ON generations(created_at);
`

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) CreateGeneration(ctx context.Context, gen *Generation) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO generations (id, mother_image, father_image, baby_image, ultrasound_image,
		                          gender, age, age_unit, weight, generated_image, prompt, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		gen.ID, nullString(gen.MotherImage), nullString(gen.FatherImage),
		nullString(gen.BabyImage), nullString(gen.UltrasoundImage),
		nullString(string(gen.Gender)), gen.Age, string(gen.AgeUnit),
		nullString(string(gen.Weight)), gen.GeneratedImage, nullString(gen.Prompt), gen.CreatedAt)
	return err
}

func (s *Store) GetGeneration(ctx context.Context, id string) (*Generation, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, mother_image, father_image, baby_image, ultrasound_image,
		        gender, age, age_unit, weight, generated_image, prompt, created_at
		 FROM generations WHERE id = ?`, id)

	gen, err := scanGeneration(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return gen, nil
}

// ListGenerations returns all generations ordered by creation time ascending.
// Timestamps are millisecond resolution, so rowid breaks insertion-order ties.
func (s *Store) ListGenerations(ctx context.Context) ([]*Generation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, mother_image, father_image, baby_image, ultrasound_image,
		        gender, age, age_unit, weight, generated_image, prompt, created_at
		 FROM generations ORDER BY created_at ASC, rowid ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var generations []*Generation
	for rows.Next() {
		gen, err := scanGeneration(rows)
		if err != nil {
			return nil, err
		}
		generations = append(generations, gen)
	}
	return generations, rows.Err()
}

func (s *Store) CreateProgression(ctx context.Context, prog *AgeProgression) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO age_progressions (id, generation_id, new_age, new_age_unit, progressed_image, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		prog.ID, prog.GenerationID, prog.NewAge, string(prog.NewAgeUnit),
		prog.ProgressedImage, prog.CreatedAt)
	return err
}

// ListProgressions returns a generation's progressions ordered by creation
// time ascending.
func (s *Store) ListProgressions(ctx context.Context, generationID string) ([]*AgeProgression, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, generation_id, new_age, new_age_unit, progressed_image, created_at
		 FROM age_progressions WHERE generation_id = ? ORDER BY created_at ASC, rowid ASC`, generationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var progressions []*AgeProgression
	for rows.Next() {
		prog := &AgeProgression{}
		var unit string
		if err := rows.Scan(&prog.ID, &prog.GenerationID, &prog.NewAge, &unit,
			&prog.ProgressedImage, &prog.CreatedAt); err != nil {
			return nil, err
		}
		prog.NewAgeUnit = models.AgeUnit(unit)
		progressions = append(progressions, prog)
	}
	return progressions, rows.Err()
}

func (s *Store) CountProgressions(ctx context.Context, generationID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM age_progressions WHERE generation_id = ?`, generationID).Scan(&count)
	return count, err
}

// DeleteGeneration removes a generation and its progressions. The schema has
// no foreign key constraint, so children go first, inside one transaction so
// a failure mid-way cannot orphan progressions. Deleting an unknown id is not
// an error.
func (s *Store) DeleteGeneration(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM age_progressions WHERE generation_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM generations WHERE id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanGeneration(row scanner) (*Generation, error) {
	gen := &Generation{}
	var mother, father, baby, ultrasound, gender, weight, promptText sql.NullString
	var unit string
	err := row.Scan(&gen.ID, &mother, &father, &baby, &ultrasound,
		&gender, &gen.Age, &unit, &weight, &gen.GeneratedImage, &promptText, &gen.CreatedAt)
	if err != nil {
		return nil, err
	}
	gen.MotherImage = mother.String
	gen.FatherImage = father.String
	gen.BabyImage = baby.String
	gen.UltrasoundImage = ultrasound.String
	gen.Gender = models.Gender(gender.String)
	gen.AgeUnit = models.AgeUnit(unit)
	gen.Weight = models.Weight(weight.String)
	gen.Prompt = promptText.String
	return gen, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
