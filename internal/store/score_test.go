package store

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestScoreRepository_CreateAndList(t *testing.T) {
	s := newTestStore(t)
	repo := s.Scores()

	for i, points := range []int{3, 11, 7} {
		err := repo.Create(&Score{
			ID:       uuid.New().String(),
			Score:    points,
			Length:   points + 1,
			Duration: time.Duration(i+1) * time.Minute,
		})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	scores, err := repo.List(0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	if len(scores) != 3 {
		t.Fatalf("len(scores) = %d, want 3", len(scores))
	}

	// Best first.
	want := []int{11, 7, 3}
	for i, sc := range scores {
		if sc.Score != want[i] {
			t.Errorf("scores[%d].Score = %d, want %d", i, sc.Score, want[i])
		}
	}
}

func TestScoreRepository_ListLimit(t *testing.T) {
	s := newTestStore(t)
	repo := s.Scores()

	for i := 0; i < 5; i++ {
		repo.Create(&Score{ID: uuid.New().String(), Score: i, Length: i + 1})
	}

	scores, err := repo.List(2)
	if err != nil {
		t.Fatalf("List(2) error = %v", err)
	}
	if len(scores) != 2 {
		t.Errorf("len(scores) = %d, want 2", len(scores))
	}
}

func TestScoreRepository_Best(t *testing.T) {
	s := newTestStore(t)
	repo := s.Scores()

	if _, err := repo.Best(); !errors.Is(err, ErrNotFound) {
		t.Errorf("Best() on empty table error = %v, want %v", err, ErrNotFound)
	}

	repo.Create(&Score{ID: uuid.New().String(), Score: 4, Length: 5})
	repo.Create(&Score{ID: uuid.New().String(), Score: 9, Length: 10, Duration: 90 * time.Second})

	best, err := repo.Best()
	if err != nil {
		t.Fatalf("Best() error = %v", err)
	}
	if best.Score != 9 {
		t.Errorf("Best().Score = %d, want 9", best.Score)
	}
	if best.Duration != 90*time.Second {
		t.Errorf("Best().Duration = %v, want 90s", best.Duration)
	}
}

func TestScoreRepository_Delete(t *testing.T) {
	s := newTestStore(t)
	repo := s.Scores()

	id := uuid.New().String()
	repo.Create(&Score{ID: id, Score: 1, Length: 2})

	if err := repo.Delete(id); err != nil {
		t.Errorf("Delete() error = %v", err)
	}

	if err := repo.Delete(id); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete() of missing row error = %v, want %v", err, ErrNotFound)
	}
}

func TestScoreRepository_Prune(t *testing.T) {
	s := newTestStore(t)
	repo := s.Scores()

	for i := 0; i < 10; i++ {
		repo.Create(&Score{ID: fmt.Sprintf("score-%d", i), Score: i, Length: i + 1})
	}

	if err := repo.Prune(3); err != nil {
		t.Fatalf("Prune(3) error = %v", err)
	}

	scores, _ := repo.List(0)
	if len(scores) != 3 {
		t.Fatalf("len(scores) = %d after prune, want 3", len(scores))
	}
	if scores[0].Score != 9 {
		t.Errorf("top score after prune = %d, want 9", scores[0].Score)
	}
}

func TestSettingsRepository(t *testing.T) {
	s := newTestStore(t)
	settings := s.Settings()

	if _, err := settings.Get("camera_id"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() of missing key error = %v, want %v", err, ErrNotFound)
	}

	if err := settings.SetInt("camera_id", 2); err != nil {
		t.Fatalf("SetInt() error = %v", err)
	}
	if got := settings.GetInt("camera_id", 0); got != 2 {
		t.Errorf("GetInt() = %d, want 2", got)
	}

	// Replacing an existing key keeps a single row.
	settings.SetInt("camera_id", 5)
	if got := settings.GetInt("camera_id", 0); got != 5 {
		t.Errorf("GetInt() after update = %d, want 5", got)
	}

	if got := settings.GetInt("missing", 7); got != 7 {
		t.Errorf("GetInt() default = %d, want 7", got)
	}

	settings.Set("motion_threshold", "1.5")
	if got := settings.GetFloat("motion_threshold", 0); got != 1.5 {
		t.Errorf("GetFloat() = %f, want 1.5", got)
	}
	if got := settings.GetFloat("missing", 0.25); got != 0.25 {
		t.Errorf("GetFloat() default = %f, want 0.25", got)
	}

	settings.Set("bad_int", "not-a-number")
	if got := settings.GetInt("bad_int", 3); got != 3 {
		t.Errorf("GetInt() of non-integer = %d, want default 3", got)
	}
}
