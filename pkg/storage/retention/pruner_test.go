package retention

import (
	"context"
	"testing"
	"time"

	"veridata-hq/tabular/pkg/storage"
)

func TestPruner_Prune(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()

	store.SaveRun(ctx, &storage.RunRecord{RunID: "ancient", StartedAt: time.Now().AddDate(0, 0, -100)})
	store.SaveRun(ctx, &storage.RunRecord{RunID: "fresh", StartedAt: time.Now()})

	pruner := NewPruner(store, &Config{RetentionDays: 30})
	deleted, err := pruner.Prune(ctx)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if deleted != 1 {
		t.Errorf("got %d deleted, want 1", deleted)
	}

	if _, err := store.GetRun(ctx, "fresh"); err != nil {
		t.Errorf("fresh run lost: %v", err)
	}
}

func TestPruner_DisabledRetention(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	store.SaveRun(ctx, &storage.RunRecord{RunID: "ancient", StartedAt: time.Now().AddDate(-1, 0, 0)})

	pruner := NewPruner(store, &Config{RetentionDays: 0})
	deleted, err := pruner.Prune(ctx)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if deleted != 0 {
		t.Errorf("got %d deleted, want 0", deleted)
	}
}

func TestScheduler_InvalidSchedule(t *testing.T) {
	pruner := NewPruner(storage.NewMemoryStore(), &Config{RetentionDays: 30, PruneSchedule: "not a cron"})
	s := NewScheduler(pruner)
	if err := s.Start(context.Background()); err == nil {
		t.Fatal("expected error for invalid cron expression")
	}
}

func TestScheduler_EmptyScheduleIsIdle(t *testing.T) {
	pruner := NewPruner(storage.NewMemoryStore(), &Config{RetentionDays: 30})
	s := NewScheduler(pruner)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	s.Stop()
}
