package export_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go-folio/internal/export"
	"go-folio/internal/locale"
	"go-folio/internal/model"
	"go-folio/internal/store"
)

func TestExport_ToJSON_FromSQLite(t *testing.T) {
	dir := t.TempDir()
	s, err := store.OpenSQLite(filepath.Join(dir, "t.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()
	ctx := context.Background()
	if err := s.ReplacePartition(ctx, model.Posts, locale.EN, []model.Entry{{Slug: "a", PublishedAt: "2024-01-01"}, {Slug: "b"}}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := s.RecordCoverage(ctx, time.Now(), []model.LocaleCoverage{{Locale: locale.EN, Complete: true}}); err != nil {
		t.Fatalf("seed coverage: %v", err)
	}
	out := filepath.Join(dir, "out.json")
	if err := export.ToJSON(ctx, s, out); err != nil {
		t.Fatalf("export: %v", err)
	}
	b, _ := os.ReadFile(out)
	var e model.Export
	if err := json.Unmarshal(b, &e); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if e.Stats.PostsTotal != 2 || len(e.Partitions) != 1 || len(e.Coverage) != 1 {
		t.Fatalf("export: %+v", e)
	}
	if e.Partitions[0].Entries[0].Slug != "a" {
		t.Fatalf("order not newest first: %+v", e.Partitions[0].Entries)
	}
}

func TestExport_ToJSONData_WithStats(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.json")
	parts := []model.Partition{
		{Type: model.Posts, Locale: locale.EN, Entries: []model.Entry{{Slug: "a"}, {Slug: "b"}}},
		{Type: model.Posts, Locale: locale.IT, Entries: []model.Entry{{Slug: "a"}}},
		{Type: model.Projects, Locale: locale.EN, Entries: []model.Entry{{Slug: "p"}}},
	}
	if err := export.ToJSONData(context.Background(), parts, nil, out); err != nil {
		t.Fatalf("export: %v", err)
	}
	b, _ := os.ReadFile(out)
	var e model.Export
	if err := json.Unmarshal(b, &e); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if e.Stats.PostsTotal != 3 || e.Stats.ProjectsTotal != 1 || e.Stats.UpdatedAt.IsZero() {
		t.Fatalf("stats: %+v", e.Stats)
	}
}

func TestExport_EmptyPartitionsEncodeAsArray(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.json")
	if err := export.ToJSONData(context.Background(), nil, nil, out); err != nil {
		t.Fatalf("export: %v", err)
	}
	var raw map[string]json.RawMessage
	b, _ := os.ReadFile(out)
	if err := json.Unmarshal(b, &raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(raw["partitions"]) != "[]" {
		t.Fatalf("partitions=%s", raw["partitions"])
	}
}
