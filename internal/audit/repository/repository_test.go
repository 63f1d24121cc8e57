package repository

import (
	"context"
	"testing"
	"time"

	"pknews/client/internal/audit/domain"
	"pknews/client/internal/db"
	"pknews/client/internal/db/migrate"
)

func newSQLite(t *testing.T) *SQLiteRepository {
	t.Helper()
	sqlDB, err := db.Open(db.MemoryPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })
	if err := migrate.Up(sqlDB); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewSQLiteRepository(sqlDB)
}

func TestRepositories(t *testing.T) {
	impls := map[string]func(t *testing.T) Repository{
		"sqlite": func(t *testing.T) Repository { return newSQLite(t) },
		"memory": func(t *testing.T) Repository { return NewMemoryRepository() },
	}
	for name, newRepo := range impls {
		t.Run(name, func(t *testing.T) {
			repo := newRepo(t)
			ctx := context.Background()
			base := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
			actions := []string{"method_selected", "federated_started", "login_success"}
			for i, action := range actions {
				err := repo.Create(ctx, &domain.AuditLog{
					ID:        action,
					Action:    action,
					Method:    "google",
					Metadata:  "request_id=req-1",
					CreatedAt: base.Add(time.Duration(i) * time.Second),
				})
				if err != nil {
					t.Fatalf("Create %s: %v", action, err)
				}
			}

			got, err := repo.ListRecent(ctx, 2)
			if err != nil {
				t.Fatalf("ListRecent: %v", err)
			}
			if len(got) != 2 {
				t.Fatalf("len = %d, want 2", len(got))
			}
			if got[0].Action != "login_success" || got[1].Action != "federated_started" {
				t.Errorf("order = %s, %s; want newest first", got[0].Action, got[1].Action)
			}
			if got[0].Method != "google" || got[0].Metadata != "request_id=req-1" {
				t.Errorf("entry = %+v", got[0])
			}
			if !got[0].CreatedAt.Equal(base.Add(2 * time.Second)) {
				t.Errorf("CreatedAt = %v", got[0].CreatedAt)
			}

			none, err := repo.ListRecent(ctx, 0)
			if err != nil || len(none) != 0 {
				t.Errorf("ListRecent(0) = %v, %v", none, err)
			}
		})
	}
}

func TestSQLiteRepository_DuplicateID(t *testing.T) {
	repo := newSQLite(t)
	ctx := context.Background()
	a := &domain.AuditLog{ID: "dup", Action: "phone_continue", Method: "phone", CreatedAt: time.Now()}
	if err := repo.Create(ctx, a); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create(ctx, a); err == nil {
		t.Error("second Create with the same ID should fail")
	}
}
