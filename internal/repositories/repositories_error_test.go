package repositories

import (
	"errors"
	"testing"
	"time"

	"github.com/desertthunder/photoyarn/internal/models"
	"github.com/desertthunder/photoyarn/internal/shared"
)

func TestSessionEntryRepositoryErrors(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		t.Run("ValidationError", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewSessionEntryRepository(db)
			if err := repo.Create(models.NewSessionEntry(0, "", "storyData", "v", time.Hour)); err == nil {
				t.Fatal("expected validation error for empty session id")
			}
		})

		t.Run("ClosedDatabase", func(t *testing.T) {
			db := setupTestDB(t)
			db.Close()

			repo := NewSessionEntryRepository(db)
			if err := repo.Create(models.NewSessionEntry(0, "tab", "k", "v", time.Hour)); err == nil {
				t.Fatal("expected error on closed database")
			}
		})
	})

	t.Run("Get", func(t *testing.T) {
		t.Run("NotFound", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			_, err := NewSessionEntryRepository(db).Get("nonexistent-id")
			if !errors.Is(err, shared.ErrSessionNotFound) {
				t.Fatalf("expected ErrSessionNotFound, got %v", err)
			}
		})
	})

	t.Run("Update", func(t *testing.T) {
		t.Run("NotFound", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			entry := models.NewSessionEntry(0, "tab", "k", "v", time.Hour)
			entry.SetID("nonexistent-id")
			if err := NewSessionEntryRepository(db).Update(entry); !errors.Is(err, shared.ErrSessionNotFound) {
				t.Fatalf("expected ErrSessionNotFound, got %v", err)
			}
		})
	})

	t.Run("Delete", func(t *testing.T) {
		t.Run("NotFound", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			if err := NewSessionEntryRepository(db).Delete("nonexistent-id"); !errors.Is(err, shared.ErrSessionNotFound) {
				t.Fatalf("expected ErrSessionNotFound, got %v", err)
			}
		})

		t.Run("AlreadyDeleted", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewSessionEntryRepository(db)
			entry := models.NewSessionEntry(0, "tab", "k", "v", time.Hour)
			if err := repo.Create(entry); err != nil {
				t.Fatalf("failed to create entry: %v", err)
			}
			if err := repo.Delete(entry.ID()); err != nil {
				t.Fatalf("failed to delete entry: %v", err)
			}
			if err := repo.Delete(entry.ID()); err == nil {
				t.Fatal("expected error when deleting twice")
			}
		})
	})

	t.Run("SessionStorage", func(t *testing.T) {
		t.Run("WriteFailure", func(t *testing.T) {
			db := setupTestDB(t)
			s, err := NewSessionStorage(db, "tab", time.Hour)
			if err != nil {
				t.Fatalf("failed to open storage: %v", err)
			}
			db.Close()

			if err := s.Set("storyData", "v"); !errors.Is(err, shared.ErrStorageWrite) {
				t.Errorf("expected ErrStorageWrite, got %v", err)
			}
			if err := s.Remove("storyData"); !errors.Is(err, shared.ErrStorageWrite) {
				t.Errorf("expected ErrStorageWrite, got %v", err)
			}
			if _, _, err := s.Get("storyData"); err == nil {
				t.Error("expected read error on closed database")
			}
		})
	})
}
