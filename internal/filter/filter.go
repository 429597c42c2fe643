// 包 filter 实现列表页的筛选、排序与分页：
// - 搜索匹配标题、摘要与标签（不区分大小写）
// - 标签任一命中即可，作者任一命中即可
// - 设置日期范围时，无日期的条目被排除
// - 标题排序按语言规则（x/text/collate）比较
package filter

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/collate"

	"go-folio/internal/locale"
	"go-folio/internal/model"
)

type Sort string

const (
	SortNewest    Sort = "newest"
	SortOldest    Sort = "oldest"
	SortTitleAsc  Sort = "title-asc"
	SortTitleDesc Sort = "title-desc"
)

// ParseSort 解析排序方式，未知值回退为 newest。
func ParseSort(s string) Sort {
	switch Sort(strings.ToLower(strings.TrimSpace(s))) {
	case SortOldest:
		return SortOldest
	case SortTitleAsc:
		return SortTitleAsc
	case SortTitleDesc:
		return SortTitleDesc
	}
	return SortNewest
}

type Query struct {
	Search  string
	Tags    []string
	Authors []string
	// From/To 为闭区间，按天比较；零值表示不限制。
	From time.Time
	To   time.Time
	Sort Sort
}

const dateLayout = "2006-01-02"

// FromValues 从 URL 查询参数构造 Query（q, tag, author, from, to, sort）。
// tag/author 可重复出现，也可用逗号分隔。
func FromValues(v url.Values) Query {
	q := Query{
		Search:  strings.TrimSpace(v.Get("q")),
		Tags:    multi(v["tag"]),
		Authors: multi(v["author"]),
		Sort:    ParseSort(v.Get("sort")),
	}
	if t, err := time.Parse(dateLayout, v.Get("from")); err == nil {
		q.From = t
	}
	if t, err := time.Parse(dateLayout, v.Get("to")); err == nil {
		q.To = t
	}
	return q
}

func multi(vals []string) []string {
	var out []string
	for _, v := range vals {
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// Active 判断是否设置了任何筛选条件（排序除外）。
func (q Query) Active() bool {
	return q.Search != "" || len(q.Tags) > 0 || len(q.Authors) > 0 || !q.From.IsZero() || !q.To.IsZero()
}

// Match 判断单个条目是否满足全部条件。
func (q Query) Match(e model.Entry) bool {
	if q.Search != "" && !matchesSearch(e, strings.ToLower(q.Search)) {
		return false
	}
	if len(q.Tags) > 0 && !containsAny(e.Tags, q.Tags) {
		return false
	}
	if len(q.Authors) > 0 && (e.Author == "" || !containsAny([]string{e.Author}, q.Authors)) {
		return false
	}
	if !q.From.IsZero() || !q.To.IsZero() {
		if !e.Dated() {
			return false
		}
		t := e.Published()
		if !q.From.IsZero() && t.Before(q.From) {
			return false
		}
		if !q.To.IsZero() && !t.Before(q.To.AddDate(0, 0, 1)) {
			return false
		}
	}
	return true
}

func matchesSearch(e model.Entry, needle string) bool {
	if strings.Contains(strings.ToLower(e.Title), needle) || strings.Contains(strings.ToLower(e.Summary), needle) {
		return true
	}
	for _, t := range e.Tags {
		if strings.Contains(strings.ToLower(t), needle) {
			return true
		}
	}
	return false
}

func containsAny(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}

// Apply 返回筛选并排序后的新切片，不修改输入。
func Apply(entries []model.Entry, q Query, loc locale.Locale) []model.Entry {
	out := make([]model.Entry, 0, len(entries))
	for _, e := range entries {
		if q.Match(e) {
			out = append(out, e)
		}
	}
	switch q.Sort {
	case SortOldest:
		sort.SliceStable(out, func(i, j int) bool {
			ti, tj := out[i].Published(), out[j].Published()
			if !ti.Equal(tj) {
				return ti.Before(tj)
			}
			return out[i].Slug < out[j].Slug
		})
	case SortTitleAsc, SortTitleDesc:
		// collate.Collator 非并发安全，每次调用新建
		col := collate.New(loc.Tag(), collate.IgnoreCase)
		desc := q.Sort == SortTitleDesc
		sort.SliceStable(out, func(i, j int) bool {
			c := col.CompareString(out[i].Title, out[j].Title)
			if desc {
				return c > 0
			}
			return c < 0
		})
	default:
		model.SortNewest(out)
	}
	return out
}

// AllTags 返回去重并排序后的全部标签。
func AllTags(entries []model.Entry) []string {
	set := map[string]bool{}
	for _, e := range entries {
		for _, t := range e.Tags {
			set[t] = true
		}
	}
	return sortedKeys(set)
}

// AllAuthors 返回去重并排序后的全部作者。
func AllAuthors(entries []model.Entry) []string {
	set := map[string]bool{}
	for _, e := range entries {
		if e.Author != "" {
			set[e.Author] = true
		}
	}
	return sortedKeys(set)
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Int 解析正整数查询参数，非法时返回 def。
func Int(v url.Values, key string, def int) int {
	n, err := strconv.Atoi(v.Get(key))
	if err != nil || n <= 0 {
		return def
	}
	return n
}
