package catalog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"testing/fstest"

	"go-folio/internal/content"
	"go-folio/internal/locale"
	"go-folio/internal/model"
)

func init() {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func doc(title, date string) *fstest.MapFile {
	s := "---\ntitle: " + title + "\n"
	if date != "" {
		s += "publishedAt: \"" + date + "\"\n"
	}
	s += "---\nbody of " + title + "\n"
	return &fstest.MapFile{Data: []byte(s)}
}

func siteFS() fstest.MapFS {
	return fstest.MapFS{
		"posts/en/a.mdx":       doc("A", "2024-01-01"),
		"posts/en/b.mdx":       doc("B", "2024-03-01"),
		"posts/en/c.mdx":       doc("C", ""),
		"posts/en/d.md":        doc("D", "2023-06-15"),
		"posts/en/_tpl.mdx":    doc("Template", "2030-01-01"),
		"posts/en/broken.mdx":  {Data: []byte("---\ntitle: [x\n---\n")},
		"posts/it/a.mdx":       doc("A-it", "2024-01-01"),
		"projects/en/p1.mdx":   doc("P1", "2022-01-01"),
		"projects/fr/solo.mdx": doc("Solo", "2022-02-02"),
	}
}

// countingSource 统计 ReadEntry 调用次数。
type countingSource struct {
	*content.Store
	mu    sync.Mutex
	reads map[string]int
}

func newCounting(fsys fstest.MapFS) *countingSource {
	return &countingSource{Store: content.New(fsys), reads: map[string]int{}}
}

func (s *countingSource) ReadEntry(ctx context.Context, ct model.ContentType, loc locale.Locale, slug string) (content.Raw, error) {
	s.mu.Lock()
	s.reads[string(ct)+"/"+string(loc)+"/"+slug]++
	s.mu.Unlock()
	return s.Store.ReadEntry(ctx, ct, loc, slug)
}

func (s *countingSource) count(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads[key]
}

type recorder struct {
	mu        sync.Mutex
	outcomes  []Outcome
	fallbacks int
	skipped   int
}

func (r *recorder) Lookup(_ model.ContentType, o Outcome) {
	r.mu.Lock()
	r.outcomes = append(r.outcomes, o)
	r.mu.Unlock()
}

func (r *recorder) ListFallback(model.ContentType, locale.Locale) {
	r.mu.Lock()
	r.fallbacks++
	r.mu.Unlock()
}

func (r *recorder) Skipped(model.ContentType, locale.Locale) {
	r.mu.Lock()
	r.skipped++
	r.mu.Unlock()
}

func slugs(es []model.Entry) []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = e.Slug
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestList_SortedNewestFirstUndatedLast(t *testing.T) {
	c := New(content.New(siteFS()), Options{})
	got := slugs(c.List(context.Background(), model.Posts, locale.EN, 0))
	want := []string{"b", "a", "d", "c"}
	if !equal(got, want) {
		t.Fatalf("order=%v want %v", got, want)
	}
}

func TestList_SkipsMalformedAndTemplates(t *testing.T) {
	rec := &recorder{}
	c := New(content.New(siteFS()), Options{Observer: rec})
	for _, e := range c.List(context.Background(), model.Posts, locale.EN, 0) {
		if e.Slug == "broken" || e.Slug == "_tpl" {
			t.Fatalf("unexpected entry %q", e.Slug)
		}
	}
	if rec.skipped != 1 {
		t.Fatalf("skipped=%d want 1", rec.skipped)
	}
}

func TestList_Limit(t *testing.T) {
	c := New(content.New(siteFS()), Options{Workers: 1})
	got := slugs(c.List(context.Background(), model.Posts, locale.EN, 2))
	if !equal(got, []string{"b", "a"}) {
		t.Fatalf("limit 2 = %v", got)
	}
}

func TestList_AbsentPartitionFallsBackToReference(t *testing.T) {
	rec := &recorder{}
	c := New(content.New(siteFS()), Options{Observer: rec})
	got := c.List(context.Background(), model.Posts, locale.FR, 0)
	if len(got) != 4 {
		t.Fatalf("fr should list the en partition, got %v", slugs(got))
	}
	for _, e := range got {
		if e.Locale != locale.EN {
			t.Fatalf("entry %s should report served locale en, got %s", e.Slug, e.Locale)
		}
	}
	if rec.fallbacks != 1 {
		t.Fatalf("fallbacks=%d", rec.fallbacks)
	}
}

func TestList_PartialPartitionIsNotBackfilled(t *testing.T) {
	c := New(content.New(siteFS()), Options{})
	got := c.List(context.Background(), model.Posts, locale.IT, 0)
	if len(got) != 1 || got[0].Slug != "a" || got[0].Title != "A-it" || got[0].Locale != locale.IT {
		t.Fatalf("it listing = %+v", got)
	}
}

func TestList_OrphanListedInOwnLocale(t *testing.T) {
	c := New(content.New(siteFS()), Options{})
	got := c.List(context.Background(), model.Projects, locale.FR, 0)
	if !equal(slugs(got), []string{"solo"}) {
		t.Fatalf("fr projects = %v", slugs(got))
	}
}

func TestList_ReadingTimeAlwaysSet(t *testing.T) {
	c := New(content.New(siteFS()), Options{})
	for _, e := range c.List(context.Background(), model.Posts, locale.EN, 0) {
		if e.ReadingTime != "1 min read" {
			t.Fatalf("%s readingTime=%q", e.Slug, e.ReadingTime)
		}
		if e.Tags == nil {
			t.Fatalf("%s tags must be non-nil", e.Slug)
		}
	}
}

func TestGetBySlug_HitFallbackNotFound(t *testing.T) {
	rec := &recorder{}
	c := New(content.New(siteFS()), Options{Observer: rec})
	ctx := context.Background()

	d, err := c.GetBySlug(ctx, model.Posts, locale.IT, "a")
	if err != nil || d.Title != "A-it" || d.Locale != locale.IT {
		t.Fatalf("it hit: %+v %v", d, err)
	}
	if d.Body != "body of A-it\n" {
		t.Fatalf("body must come from the same file, got %q", d.Body)
	}

	d, err = c.GetBySlug(ctx, model.Posts, locale.IT, "b")
	if err != nil || d.Title != "B" || d.Locale != locale.EN || d.Body != "body of B\n" {
		t.Fatalf("it fallback: %+v %v", d, err)
	}

	_, err = c.GetBySlug(ctx, model.Posts, locale.IT, "nope")
	if !errors.Is(err, ErrNotFound) || !errors.Is(err, content.ErrNotFound) {
		t.Fatalf("expect ErrNotFound, got %v", err)
	}

	_, err = c.GetBySlug(ctx, model.Posts, locale.EN, "broken")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("malformed should be NotFound, got %v", err)
	}

	want := []Outcome{OutcomeHit, OutcomeFallback, OutcomeNotFound, OutcomeNotFound}
	if len(rec.outcomes) != len(want) {
		t.Fatalf("outcomes=%v", rec.outcomes)
	}
	for i := range want {
		if rec.outcomes[i] != want[i] {
			t.Fatalf("outcomes=%v want %v", rec.outcomes, want)
		}
	}
}

func TestGetBySlug_OrphanNotVisibleFromReference(t *testing.T) {
	c := New(content.New(siteFS()), Options{})
	ctx := context.Background()
	if _, err := c.GetBySlug(ctx, model.Projects, locale.FR, "solo"); err != nil {
		t.Fatalf("orphan resolvable in its own locale: %v", err)
	}
	if _, err := c.GetBySlug(ctx, model.Projects, locale.EN, "solo"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("reference must not see fr orphan, got %v", err)
	}
}

func TestRequest_MemoReadsOnce(t *testing.T) {
	src := newCounting(siteFS())
	c := New(src, Options{})
	ctx := context.Background()

	req := c.Begin()
	req.List(ctx, model.Posts, locale.EN, 0)
	if _, err := req.GetBySlug(ctx, model.Posts, locale.EN, "a"); err != nil {
		t.Fatalf("get: %v", err)
	}
	if _, err := req.GetBySlug(ctx, model.Posts, locale.EN, "a"); err != nil {
		t.Fatalf("get again: %v", err)
	}
	if n := src.count("posts/en/a"); n != 1 {
		t.Fatalf("within one request a is read %d times, want 1", n)
	}

	// 新请求不复用上一个请求的结果
	if _, err := c.Begin().GetBySlug(ctx, model.Posts, locale.EN, "a"); err != nil {
		t.Fatalf("get: %v", err)
	}
	if n := src.count("posts/en/a"); n != 2 {
		t.Fatalf("a fresh request must hit the store, reads=%d", n)
	}
}

func TestRequest_ConcurrentGetSharesRead(t *testing.T) {
	src := newCounting(siteFS())
	req := New(src, Options{}).Begin()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = req.GetBySlug(context.Background(), model.Posts, locale.EN, "b")
		}()
	}
	wg.Wait()
	if n := src.count("posts/en/b"); n != 1 {
		t.Fatalf("reads=%d want 1", n)
	}
}

func TestNew_Defaults(t *testing.T) {
	c := New(content.New(fstest.MapFS{}), Options{Reference: "de"})
	if c.Reference() != locale.EN {
		t.Fatalf("invalid reference should default to en, got %s", c.Reference())
	}
	if got := c.List(context.Background(), model.Posts, locale.IT, 0); len(got) != 0 {
		t.Fatalf("empty store should list nothing, got %v", got)
	}
}
