package store

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"go-folio/internal/locale"
	"go-folio/internal/model"
)

func openTemp(t *testing.T) *SQLite {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "t.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLite_ReplacePartition(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	first := []model.Entry{
		{Slug: "old", Title: "Old", PublishedAt: "2023-01-01", Tags: []string{"a"}, ReadingTime: "1 min read"},
		{Slug: "gone", Title: "Gone", PublishedAt: "2022-01-01"},
	}
	if err := s.ReplacePartition(ctx, model.Posts, locale.EN, first); err != nil {
		t.Fatalf("replace: %v", err)
	}
	second := []model.Entry{
		{Slug: "old", Title: "Old v2", PublishedAt: "2023-01-01", Tags: []string{"a", "b"}, ReadingTime: "2 min read"},
		{Slug: "new", Title: "New", PublishedAt: "2024-01-01"},
		{Slug: "undated", Title: "Undated"},
	}
	if err := s.ReplacePartition(ctx, model.Posts, locale.EN, second); err != nil {
		t.Fatalf("replace again: %v", err)
	}
	got, err := s.ListEntries(ctx, model.Posts, locale.EN)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var slugs []string
	for _, e := range got {
		slugs = append(slugs, e.Slug)
	}
	if !reflect.DeepEqual(slugs, []string{"new", "old", "undated"}) {
		t.Fatalf("slugs=%v", slugs)
	}
	if got[1].Title != "Old v2" || !reflect.DeepEqual(got[1].Tags, []string{"a", "b"}) || got[1].Locale != locale.EN {
		t.Fatalf("old entry: %+v", got[1])
	}
	if got[0].Tags == nil {
		t.Fatalf("tags must be non-nil")
	}

	if err := s.ReplacePartition(ctx, model.Projects, locale.IT, []model.Entry{{Slug: "p"}}); err != nil {
		t.Fatalf("replace projects: %v", err)
	}
	parts, err := s.Partitions(ctx)
	if err != nil {
		t.Fatalf("partitions: %v", err)
	}
	if len(parts) != 2 || parts[0].Type != model.Posts || parts[1].Locale != locale.IT {
		t.Fatalf("partitions: %+v", parts)
	}
	st, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.PostsTotal != 3 || st.ProjectsTotal != 1 {
		t.Fatalf("stats: %+v", st)
	}
}

func TestSQLite_CoverageHistory(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	if rows, err := s.LatestCoverage(ctx); err != nil || len(rows) != 0 {
		t.Fatalf("empty history: %v %v", rows, err)
	}
	t0 := time.Now().Add(-time.Hour)
	old := []model.LocaleCoverage{{Locale: locale.EN, PostsCount: 1, PostsPercentage: 100, ProjectsPercentage: 100, Complete: true}}
	if err := s.RecordCoverage(ctx, t0, old); err != nil {
		t.Fatalf("record: %v", err)
	}
	latest := []model.LocaleCoverage{
		{Locale: locale.FR, PostsCount: 1, PostsPercentage: 50, Orphans: []string{"posts/solo"}},
		{Locale: locale.EN, PostsCount: 2, PostsPercentage: 100, ProjectsPercentage: 100, Complete: true},
	}
	if err := s.RecordCoverage(ctx, t0.Add(time.Minute), latest); err != nil {
		t.Fatalf("record: %v", err)
	}
	rows, err := s.LatestCoverage(ctx)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if len(rows) != 2 || rows[0].Locale != locale.EN || rows[0].PostsCount != 2 || !rows[0].Complete {
		t.Fatalf("latest rows: %+v", rows)
	}
	if rows[1].Complete || !reflect.DeepEqual(rows[1].Orphans, []string{"posts/solo"}) {
		t.Fatalf("fr row: %+v", rows[1])
	}
}

func TestSQLite_Reset(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	if err := s.ReplacePartition(ctx, model.Posts, locale.EN, []model.Entry{{Slug: "a"}}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := s.RecordCoverage(ctx, time.Now(), []model.LocaleCoverage{{Locale: locale.EN}}); err != nil {
		t.Fatalf("seed coverage: %v", err)
	}
	if err := s.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	parts, _ := s.Partitions(ctx)
	cov, _ := s.LatestCoverage(ctx)
	if len(parts) != 0 || len(cov) != 0 {
		t.Fatalf("not empty after reset: parts=%d cov=%d", len(parts), len(cov))
	}
}

func TestSQLite_CleanOldCoverage(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	if err := s.RecordCoverage(ctx, time.Now().AddDate(0, 0, -40), []model.LocaleCoverage{{Locale: locale.EN}}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := s.CleanOldCoverage(ctx, 30); err != nil {
		t.Fatalf("clean: %v", err)
	}
	if cov, _ := s.LatestCoverage(ctx); len(cov) != 0 {
		t.Fatalf("old coverage should be removed: %+v", cov)
	}
}
