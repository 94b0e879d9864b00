package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"volatility-shock-lab/internal/domain"
	"volatility-shock-lab/internal/storage"
)

func TestRunStore_InsertAndGet(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()

	run := &domain.AnalysisRun{
		RunID:       "run-2024-06-01",
		StartedAt:   day(2024, time.June, 1),
		Method:      domain.FitMethodOLS,
		DetailLevel: 1,
		BestLag:     -1,
		Status:      domain.RunStatusCompleted,
	}

	if err := store.Insert(ctx, run); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := store.GetByID(ctx, "run-2024-06-01")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}

	if got.Method != domain.FitMethodOLS || got.DetailLevel != 1 {
		t.Errorf("Unexpected run: %+v", got)
	}
}

func TestRunStore_DuplicateKey(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()

	run := &domain.AnalysisRun{RunID: "r1", Status: domain.RunStatusCompleted}

	if err := store.Insert(ctx, run); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}

	err := store.Insert(ctx, run)
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestRunStore_NotFound(t *testing.T) {
	store := NewRunStore()

	_, err := store.GetByID(context.Background(), "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestRunStore_InvalidInput(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()

	if err := store.Insert(ctx, nil); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for nil run, got %v", err)
	}

	if err := store.Insert(ctx, &domain.AnalysisRun{RunID: ""}); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for empty RunID, got %v", err)
	}
}

func TestRunStore_UpdateStatus(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()

	run := &domain.AnalysisRun{RunID: "r1", BestLag: -1, Status: domain.RunStatusRunning}
	if err := store.Insert(ctx, run); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	if err := store.UpdateStatus(ctx, "r1", domain.RunStatusCompleted, 2); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}

	got, err := store.GetByID(ctx, "r1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != domain.RunStatusCompleted || got.BestLag != 2 {
		t.Errorf("Unexpected run after update: %+v", got)
	}
}

func TestRunStore_UpdateStatus_NotFound(t *testing.T) {
	store := NewRunStore()

	err := store.UpdateStatus(context.Background(), "missing", domain.RunStatusFailed, -1)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestRunStore_UpdateStatus_InvalidInput(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()

	if err := store.UpdateStatus(ctx, "", domain.RunStatusFailed, -1); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for empty run ID, got %v", err)
	}
	if err := store.UpdateStatus(ctx, "r1", "", -1); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for empty status, got %v", err)
	}
}

func TestRunStore_ReturnsCopy(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()

	run := &domain.AnalysisRun{RunID: "r1", BestLag: 2, Status: domain.RunStatusCompleted}
	if err := store.Insert(ctx, run); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, _ := store.GetByID(ctx, "r1")
	got.BestLag = 99

	again, _ := store.GetByID(ctx, "r1")
	if again.BestLag != 2 {
		t.Errorf("Store mutated through returned copy: BestLag=%d", again.BestLag)
	}
}
