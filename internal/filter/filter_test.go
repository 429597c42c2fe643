package filter

import (
	"net/url"
	"reflect"
	"testing"

	"go-folio/internal/locale"
	"go-folio/internal/model"
)

func entries() []model.Entry {
	return []model.Entry{
		{Slug: "go", Title: "Go concurrency", Summary: "Channels", Author: "Ada", PublishedAt: "2024-03-10", Tags: []string{"go", "backend"}},
		{Slug: "css", Title: "écrire du CSS", Summary: "Grid layouts", Author: "Bob", PublishedAt: "2024-01-05", Tags: []string{"css"}},
		{Slug: "zig", Title: "Zig notes", Summary: "Comptime", PublishedAt: "2023-11-20", Tags: []string{"zig", "backend"}},
		{Slug: "draft", Title: "Alpha", Summary: "undated", Author: "Ada", Tags: []string{}},
	}
}

func TestApply_SearchCaseInsensitive(t *testing.T) {
	got := Apply(entries(), Query{Search: "GRID"}, locale.EN)
	if len(got) != 1 || got[0].Slug != "css" {
		t.Fatalf("search summary: %v", got)
	}
	got = Apply(entries(), Query{Search: "backend"}, locale.EN)
	if len(got) != 2 {
		t.Fatalf("search tags: %v", got)
	}
}

func TestApply_TagsAuthorsAnyMatch(t *testing.T) {
	got := Apply(entries(), Query{Tags: []string{"css", "zig"}}, locale.EN)
	if len(got) != 2 || got[0].Slug != "css" || got[1].Slug != "zig" {
		t.Fatalf("tags: %v", got)
	}
	got = Apply(entries(), Query{Authors: []string{"Ada"}}, locale.EN)
	if len(got) != 2 || got[0].Slug != "go" || got[1].Slug != "draft" {
		t.Fatalf("authors: %v", got)
	}
}

func TestApply_DateRangeExcludesUndated(t *testing.T) {
	v := url.Values{"from": {"2024-01-01"}, "to": {"2024-03-10"}}
	got := Apply(entries(), FromValues(v), locale.EN)
	if len(got) != 2 || got[0].Slug != "go" || got[1].Slug != "css" {
		t.Fatalf("range (to is inclusive): %v", got)
	}
}

func TestApply_Sorts(t *testing.T) {
	slugs := func(es []model.Entry) []string {
		var out []string
		for _, e := range es {
			out = append(out, e.Slug)
		}
		return out
	}
	cases := map[Sort][]string{
		SortNewest:    {"go", "css", "zig", "draft"},
		SortOldest:    {"draft", "zig", "css", "go"},
		SortTitleAsc:  {"draft", "css", "go", "zig"},
		SortTitleDesc: {"zig", "go", "css", "draft"},
	}
	for s, want := range cases {
		if got := slugs(Apply(entries(), Query{Sort: s}, locale.FR)); !reflect.DeepEqual(got, want) {
			t.Fatalf("%s: got %v want %v", s, got, want)
		}
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	in := entries()
	_ = Apply(in, Query{Sort: SortTitleAsc}, locale.EN)
	if in[0].Slug != "go" {
		t.Fatalf("input reordered")
	}
}

func TestFromValues(t *testing.T) {
	q := FromValues(url.Values{"q": {" go "}, "tag": {"a,b", "c"}, "sort": {"bogus"}, "from": {"nope"}})
	if q.Search != "go" || !reflect.DeepEqual(q.Tags, []string{"a", "b", "c"}) || q.Sort != SortNewest || !q.From.IsZero() {
		t.Fatalf("query: %+v", q)
	}
	if !q.Active() {
		t.Fatalf("search and tags make the query active")
	}
	if (Query{Sort: SortOldest}).Active() {
		t.Fatalf("sort alone is not a filter")
	}
}

func TestFacets(t *testing.T) {
	if got := AllTags(entries()); !reflect.DeepEqual(got, []string{"backend", "css", "go", "zig"}) {
		t.Fatalf("tags: %v", got)
	}
	if got := AllAuthors(entries()); !reflect.DeepEqual(got, []string{"Ada", "Bob"}) {
		t.Fatalf("authors: %v", got)
	}
}
