package storage

import (
	"context"
	"testing"

	"tekton/internal/model"
)

func testRun(id, createdAt string) model.RunRecord {
	return model.RunRecord{
		VersionedRecord: Stamp(),
		ID:              id,
		Kind:            "discrete",
		Seed:            42,
		CreatedAtUTC:    createdAt,
		RoomCount:       4,
		PlacedCount:     4,
		Connected:       true,
	}
}

func TestMemoryStoreRunRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	if err := s.Init(ctx); err != nil {
		t.Fatalf("Init: %v", err)
	}

	run := testRun("run-1", "2026-08-05T10:00:00Z")
	if err := s.SaveRun(ctx, run); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	got, ok, err := s.GetRun(ctx, "run-1")
	if err != nil || !ok {
		t.Fatalf("GetRun: ok=%v err=%v", ok, err)
	}
	if got.Seed != 42 || got.Kind != "discrete" {
		t.Fatalf("round trip mangled the record: %+v", got)
	}
	if _, ok, _ := s.GetRun(ctx, "missing"); ok {
		t.Fatal("missing run reported present")
	}
}

func TestMemoryStoreListRunsNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	_ = s.Init(ctx)
	_ = s.SaveRun(ctx, testRun("a", "2026-08-01T00:00:00Z"))
	_ = s.SaveRun(ctx, testRun("b", "2026-08-03T00:00:00Z"))
	_ = s.SaveRun(ctx, testRun("c", "2026-08-02T00:00:00Z"))

	runs, err := s.ListRuns(ctx, 0)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 3 || runs[0].ID != "b" || runs[1].ID != "c" || runs[2].ID != "a" {
		t.Fatalf("wrong order: %+v", runs)
	}

	limited, _ := s.ListRuns(ctx, 2)
	if len(limited) != 2 {
		t.Fatalf("limit ignored: %d", len(limited))
	}
}

func TestMemoryStoreLayoutAndHistory(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	_ = s.Init(ctx)

	layout := model.LayoutRecord{
		VersionedRecord: Stamp(),
		RunID:           "run-1",
		PlacedRooms: []model.PlacedRoom{
			{ID: "living", X: 1, Y: 2, Width: 15, Height: 13, RoomIndex: 1},
		},
	}
	if err := s.SaveLayout(ctx, layout); err != nil {
		t.Fatalf("SaveLayout: %v", err)
	}
	got, ok, _ := s.GetLayout(ctx, "run-1")
	if !ok || len(got.PlacedRooms) != 1 || got.PlacedRooms[0].ID != "living" {
		t.Fatalf("layout round trip failed: %+v", got)
	}

	history := []float64{10, 5, 2.5}
	if err := s.SaveFitnessHistory(ctx, "run-1", history); err != nil {
		t.Fatalf("SaveFitnessHistory: %v", err)
	}
	history[0] = 999 // the store must have copied
	back, ok, _ := s.GetFitnessHistory(ctx, "run-1")
	if !ok || back[0] != 10 {
		t.Fatalf("history round trip failed: %v", back)
	}
}

func TestCodecVersionCheck(t *testing.T) {
	run := testRun("run-1", "2026-08-05T10:00:00Z")
	data, err := EncodeRun(run)
	if err != nil {
		t.Fatalf("EncodeRun: %v", err)
	}
	if _, err := DecodeRun(data); err != nil {
		t.Fatalf("DecodeRun: %v", err)
	}

	run.SchemaVersion = 99
	stale, _ := EncodeRun(run)
	if _, err := DecodeRun(stale); err == nil {
		t.Fatal("version mismatch not detected")
	}
}

func TestFactory(t *testing.T) {
	if _, err := NewStore("memory", ""); err != nil {
		t.Fatalf("memory store: %v", err)
	}
	if _, err := NewStore("", ""); err != nil {
		t.Fatalf("default store: %v", err)
	}
	if _, err := NewStore("etcd", ""); err == nil {
		t.Fatal("unknown backend accepted")
	}
}
