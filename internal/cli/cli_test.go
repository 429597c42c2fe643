package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go-folio/internal/model"
)

type fixture struct {
	dir    string
	config string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"content/posts/en/hello.mdx":  "---\ntitle: Hello\npublishedAt: \"2024-03-01\"\ntags: [go]\n---\n## Intro\n\nHello world.\n",
		"content/posts/en/world.mdx":  "---\ntitle: World\npublishedAt: \"2024-01-01\"\n---\nWorld.\n",
		"content/posts/it/hello.mdx":  "---\ntitle: Ciao\npublishedAt: \"2024-03-01\"\n---\nCiao mondo.\n",
		"content/projects/en/p1.mdx":  "---\ntitle: P1\n---\nProject.\n",
		"content/posts/en/_draft.mdx": "---\ntitle: Draft\n---\n",
	}
	for name, body := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	cfg := "CONTENT_DIR: " + filepath.Join(dir, "content") + "\n" +
		"EXPORT_PATH: " + filepath.Join(dir, "data.json") + "\n" +
		"LOG_LEVEL: none\n" +
		"SITE:\n  title: Folio\n  base_url: https://example.com\n" +
		"DATABASE:\n  dsn: " + filepath.Join(dir, "folio.db") + "\n"
	path := filepath.Join(dir, "settings.yaml")
	if err := os.WriteFile(path, []byte(cfg), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return fixture{dir: dir, config: path}
}

func (f fixture) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--config", f.config}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestList_FallbackPartition(t *testing.T) {
	f := newFixture(t)
	out, err := f.run(t, "list", "posts", "--locale", "fr")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var entries []model.Entry
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(entries) != 2 || entries[0].Slug != "hello" || entries[0].Locale != "en" {
		t.Fatalf("fr should be served from en: %+v", entries)
	}
}

func TestList_LimitAndEmptyArray(t *testing.T) {
	f := newFixture(t)
	out, err := f.run(t, "list", "posts", "-n", "1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var entries []model.Entry
	_ = json.Unmarshal([]byte(out), &entries)
	if len(entries) != 1 {
		t.Fatalf("limit 1: %s", out)
	}
	out, err = f.run(t, "list", "projects", "--locale", "it")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if strings.TrimSpace(out) == "null" {
		t.Fatalf("listing must encode as an array")
	}
}

func TestList_InvalidArgs(t *testing.T) {
	f := newFixture(t)
	if _, err := f.run(t, "list", "videos"); err == nil {
		t.Fatalf("unknown type should fail")
	}
	if _, err := f.run(t, "list", "posts", "--locale", "de"); err == nil {
		t.Fatalf("unsupported locale should fail")
	}
}

func TestShow_HitFallbackAndNotFound(t *testing.T) {
	f := newFixture(t)
	out, err := f.run(t, "show", "posts", "hello", "--locale", "it")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	var doc model.Document
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc.Title != "Ciao" || doc.Locale != "it" {
		t.Fatalf("it hit: %+v", doc)
	}

	out, err = f.run(t, "show", "posts", "world", "--locale", "it")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	doc = model.Document{}
	_ = json.Unmarshal([]byte(out), &doc)
	if doc.Title != "World" || doc.Locale != "en" {
		t.Fatalf("it fallback: %+v", doc)
	}

	if _, err := f.run(t, "show", "posts", "nope"); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expect not found, got %v", err)
	}
}

func TestShow_HTML(t *testing.T) {
	f := newFixture(t)
	out, err := f.run(t, "show", "posts", "hello", "--html")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	var res struct {
		HTML string `json:"html"`
		TOC  []struct {
			ID string `json:"id"`
		} `json:"toc"`
	}
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(res.HTML, "<h2") || len(res.TOC) != 1 || res.TOC[0].ID != "intro" {
		t.Fatalf("rendered: %+v", res)
	}
}

func TestAudit(t *testing.T) {
	f := newFixture(t)
	out, err := f.run(t, "audit")
	if err != nil {
		t.Fatalf("audit: %v", err)
	}
	var rows []model.LocaleCoverage
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows: %+v", rows)
	}
	for _, r := range rows {
		if r.Locale == "it" && (r.PostsPercentage != 50 || r.ProjectsPercentage != 0 || r.Complete) {
			t.Fatalf("it coverage: %+v", r)
		}
		if r.Locale == "en" && !r.Complete {
			t.Fatalf("reference must be complete: %+v", r)
		}
	}
}

func TestIndexThenExport(t *testing.T) {
	f := newFixture(t)
	if _, err := f.run(t, "index"); err != nil {
		t.Fatalf("index: %v", err)
	}
	out := filepath.Join(f.dir, "out.json")
	if _, err := f.run(t, "export", "--out", out); err != nil {
		t.Fatalf("export: %v", err)
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	var exp model.Export
	if err := json.Unmarshal(b, &exp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if exp.Stats.PostsTotal != 3 || exp.Stats.ProjectsTotal != 1 {
		t.Fatalf("stats: %+v", exp.Stats)
	}
	if len(exp.Partitions) != 3 || len(exp.Coverage) != 3 {
		t.Fatalf("export: %d partitions, %d coverage rows", len(exp.Partitions), len(exp.Coverage))
	}
}

func TestExport_SimpleMode(t *testing.T) {
	f := newFixture(t)
	t.Setenv("FOLIO_SIMPLE_MODE", "true")
	if _, err := f.run(t, "export"); err != nil {
		t.Fatalf("export: %v", err)
	}
	if _, err := os.Stat(filepath.Join(f.dir, "data.json")); err != nil {
		t.Fatalf("data.json not written: %v", err)
	}
	if _, err := os.Stat(filepath.Join(f.dir, "folio.db")); !os.IsNotExist(err) {
		t.Fatalf("simple mode must not create a database, stat err=%v", err)
	}
}

func TestFeed(t *testing.T) {
	f := newFixture(t)
	out, err := f.run(t, "feed")
	if err != nil {
		t.Fatalf("feed: %v", err)
	}
	if !strings.Contains(out, "<rss") || !strings.Contains(out, "https://example.com/en/posts/hello") {
		t.Fatalf("rss: %s", out)
	}
	path := filepath.Join(f.dir, "sitemap.xml")
	if _, err := f.run(t, "feed", "--sitemap", "-o", path); err != nil {
		t.Fatalf("sitemap: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil || !strings.Contains(string(b), "<urlset") {
		t.Fatalf("sitemap: %s %v", b, err)
	}
}

func TestConfig_ExplicitMissingFileFails(t *testing.T) {
	cmd := NewRootCmd()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml"), "audit"})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("explicit missing config should fail")
	}
}
