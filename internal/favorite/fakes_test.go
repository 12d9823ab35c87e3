// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package favorite_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/rickdex/internal/character"
	"github.com/taibuivan/rickdex/internal/favorite"
	"github.com/taibuivan/rickdex/internal/platform/apperr"
)

var errUniqueViolation = errors.New("duplicate key value violates unique constraint \"favorites_user_character_key\"")

// memoryRepository is an in-memory [favorite.Repository] with the same
// uniqueness rule as the favorites table.
type memoryRepository struct {
	mu      sync.Mutex
	records []favorite.Favorite
	now     time.Time

	// skipPrecheck hides existing rows from FindByCharacter to simulate a
	// concurrent insert racing past the service pre-check.
	skipPrecheck bool
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (repo *memoryRepository) List(_ context.Context, userID, search string, limit, offset int) ([]favorite.Favorite, int, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	var matches []favorite.Favorite
	for _, record := range repo.records {
		if record.UserID != userID {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(record.Character.Name), strings.ToLower(search)) {
			continue
		}
		matches = append(matches, record)
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].CreatedAt.After(matches[j].CreatedAt) })

	total := len(matches)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matches[offset:end], total, nil
}

func (repo *memoryRepository) FindByCharacter(_ context.Context, userID string, characterID int) (*favorite.Favorite, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if !repo.skipPrecheck {
		for _, record := range repo.records {
			if record.UserID == userID && record.CharacterID == characterID {
				copied := record
				return &copied, nil
			}
		}
	}
	return nil, apperr.NotFound("Resource not found")
}

func (repo *memoryRepository) Create(_ context.Context, record *favorite.Favorite) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, existing := range repo.records {
		if existing.UserID == record.UserID && existing.CharacterID == record.CharacterID {
			conflict := apperr.Conflict("Resource already exists")
			conflict.Cause = errUniqueViolation
			return conflict
		}
	}

	repo.now = repo.now.Add(time.Second)
	record.CreatedAt, record.UpdatedAt = repo.now, repo.now
	repo.records = append(repo.records, *record)
	return nil
}

func (repo *memoryRepository) Delete(_ context.Context, id, userID string) (bool, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for index, record := range repo.records {
		if record.ID == id && record.UserID == userID {
			repo.records = append(repo.records[:index], repo.records[index+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (repo *memoryRepository) count() int {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	return len(repo.records)
}

// anchorRecorder records Ensure calls.
type anchorRecorder struct {
	mu    sync.Mutex
	users map[string]int
}

func (anchors *anchorRecorder) Ensure(_ context.Context, userID string) error {
	anchors.mu.Lock()
	defer anchors.mu.Unlock()
	anchors.users[userID]++
	return nil
}

func newService() (*favorite.Service, *memoryRepository, *anchorRecorder) {
	repo := newMemoryRepository()
	anchors := &anchorRecorder{users: map[string]int{}}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return favorite.NewService(repo, anchors, logger), repo, anchors
}

func rick(id int, name string) *character.Character {
	return &character.Character{ID: id, Name: name, Status: character.StatusAlive, Species: "Human"}
}
