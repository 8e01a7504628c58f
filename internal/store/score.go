package store

import (
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Score represents one finished game.
type Score struct {
	ID        string
	Score     int
	Length    int
	Duration  time.Duration
	CreatedAt time.Time
}

// ScoreRepository provides CRUD operations for scores.
type ScoreRepository struct {
	db *sql.DB
}

// Scores returns the score repository for this store.
func (s *Store) Scores() *ScoreRepository {
	return &ScoreRepository{db: s.db}
}

// Create inserts a new score row.
func (r *ScoreRepository) Create(sc *Score) error {
	sc.CreatedAt = time.Now()

	_, err := r.db.Exec(
		`INSERT INTO scores (id, score, length, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		sc.ID, sc.Score, sc.Length, sc.Duration.Milliseconds(), sc.CreatedAt,
	)
	return err
}

// List retrieves up to limit scores, best first. A limit of 0 or less
// returns all scores.
func (r *ScoreRepository) List(limit int) ([]*Score, error) {
	query := `SELECT id, score, length, duration_ms, created_at
		 FROM scores ORDER BY score DESC, created_at DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scores []*Score
	for rows.Next() {
		sc := &Score{}
		var durationMs int64

		if err := rows.Scan(&sc.ID, &sc.Score, &sc.Length, &durationMs, &sc.CreatedAt); err != nil {
			return nil, err
		}
		sc.Duration = time.Duration(durationMs) * time.Millisecond
		scores = append(scores, sc)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return scores, nil
}

// Best returns the highest score, or ErrNotFound when no games have
// been recorded yet.
func (r *ScoreRepository) Best() (*Score, error) {
	sc := &Score{}
	var durationMs int64

	err := r.db.QueryRow(
		`SELECT id, score, length, duration_ms, created_at
		 FROM scores ORDER BY score DESC, created_at DESC LIMIT 1`,
	).Scan(&sc.ID, &sc.Score, &sc.Length, &durationMs, &sc.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	sc.Duration = time.Duration(durationMs) * time.Millisecond
	return sc, nil
}

// Delete removes a score row by its ID.
func (r *ScoreRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM scores WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Prune deletes all but the top keep scores.
func (r *ScoreRepository) Prune(keep int) error {
	if keep <= 0 {
		_, err := r.db.Exec(`DELETE FROM scores`)
		return err
	}

	_, err := r.db.Exec(
		`DELETE FROM scores WHERE id NOT IN (
			SELECT id FROM scores ORDER BY score DESC, created_at DESC LIMIT ?
		)`,
		keep,
	)
	return err
}
