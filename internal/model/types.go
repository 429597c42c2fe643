// 包 model 定义内容条目、覆盖率统计与导出结构。
package model

import (
	"sort"
	"strings"
	"time"

	"go-folio/internal/locale"
)

// ContentType 为内容分区类型（posts/projects）。
type ContentType string

const (
	Posts    ContentType = "posts"
	Projects ContentType = "projects"
)

// ContentTypes 返回全部内容类型。
func ContentTypes() []ContentType { return []ContentType{Posts, Projects} }

// ParseContentType 解析内容类型（不区分大小写）。
func ParseContentType(s string) (ContentType, bool) {
	switch ContentType(strings.ToLower(strings.TrimSpace(s))) {
	case Posts:
		return Posts, true
	case Projects:
		return Projects, true
	}
	return "", false
}

func (t ContentType) String() string { return string(t) }

// Entry 为列表视图中的条目（仅元数据，不含正文）。
type Entry struct {
	Slug        string        `json:"slug"`
	Title       string        `json:"title,omitempty"`
	Summary     string        `json:"summary,omitempty"`
	Author      string        `json:"author,omitempty"`
	Image       string        `json:"image,omitempty"`
	PublishedAt string        `json:"publishedAt,omitempty"`
	Tags        []string      `json:"tags"`
	ReadingTime string        `json:"readingTime"`
	Locale      locale.Locale `json:"locale"`
}

// Document 为按 slug 获取的完整条目（含原始正文）。
type Document struct {
	Entry
	Body string `json:"body"`
}

// publishedLayouts 为 publishedAt 支持的日期格式。
var publishedLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Published 返回用于排序的发布时间；缺失或无法解析时为 Unix 纪元（排在最后）。
func (e Entry) Published() time.Time {
	s := strings.TrimSpace(e.PublishedAt)
	if s == "" {
		return time.Unix(0, 0).UTC()
	}
	for _, layout := range publishedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Unix(0, 0).UTC()
}

// Dated 判断条目是否带有可解析的发布时间。
func (e Entry) Dated() bool { return e.Published().Unix() != 0 }

// FirstTags 返回前 n 个标签（用于卡片展示）。
func (e Entry) FirstTags(n int) []string {
	if n <= 0 || len(e.Tags) <= n {
		return e.Tags
	}
	return e.Tags[:n]
}

// SortNewest 按发布时间倒序排序；无日期的条目视为纪元时间排在最后，同一时间按 slug 升序。
func SortNewest(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		ti, tj := entries[i].Published(), entries[j].Published()
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return entries[i].Slug < entries[j].Slug
	})
}

// LocaleCoverage 为单个语言的翻译覆盖率。
type LocaleCoverage struct {
	Locale             locale.Locale `json:"locale"`
	PostsCount         int           `json:"postsCount"`
	ProjectsCount      int           `json:"projectsCount"`
	PostsPercentage    int           `json:"postsPercentage"`
	ProjectsPercentage int           `json:"projectsPercentage"`
	Complete           bool          `json:"isComplete"`
	// Orphans 为该语言存在、参考语言缺失的条目，格式 "<type>/<slug>"。
	Orphans []string `json:"orphans,omitempty"`
}

// Partition 为某个 (type, locale) 分区的快照。
type Partition struct {
	Type    ContentType   `json:"type"`
	Locale  locale.Locale `json:"locale"`
	Entries []Entry       `json:"entries"`
}

// Stats 为快照统计信息。
type Stats struct {
	PostsTotal    int       `json:"posts_total"`
	ProjectsTotal int       `json:"projects_total"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Export 为导出的 data.json 顶层结构。
type Export struct {
	Stats      Stats            `json:"stats"`
	Partitions []Partition      `json:"partitions"`
	Coverage   []LocaleCoverage `json:"coverage"`
}
