// 包 audit 统计各语言相对参考语言的翻译覆盖率：
// - 只统计文件数量，不解析内容
// - 分区缺失按 0 计
// - 参考语言中不存在的译文记为孤儿（Orphans）
package audit

import (
	"context"
	"math"
	"sort"

	"go-folio/internal/content"
	"go-folio/internal/locale"
	"go-folio/internal/model"
)

// Lister 为审计所需的存储能力。
type Lister interface {
	ListFiles(ctx context.Context, ct model.ContentType, loc locale.Locale) []string
}

type Auditor struct {
	src Lister
	ref locale.Locale
}

// New 创建审计器；ref 非法时使用 locale.Reference。
func New(src Lister, ref locale.Locale) *Auditor {
	if !ref.Valid() {
		ref = locale.Reference
	}
	return &Auditor{src: src, ref: ref}
}

// slugs 返回分区内的 slug 集合：同名的 .md 与 .mdx 只算一篇，与目录列表一致。
func (a *Auditor) slugs(ctx context.Context, ct model.ContentType, loc locale.Locale) map[string]bool {
	out := map[string]bool{}
	for _, name := range a.src.ListFiles(ctx, ct, loc) {
		out[content.SlugFromFile(name)] = true
	}
	return out
}

// Audit 按语言枚举顺序返回每个语言的覆盖率。
// 百分比为 round(count/ref*100)，参考数量为 0 时记 0；两项都为 100 才算完整。
func (a *Auditor) Audit(ctx context.Context) []model.LocaleCoverage {
	refPosts := a.slugs(ctx, model.Posts, a.ref)
	refProjects := a.slugs(ctx, model.Projects, a.ref)

	out := make([]model.LocaleCoverage, 0, len(locale.All()))
	for _, loc := range locale.All() {
		posts := a.slugs(ctx, model.Posts, loc)
		projects := a.slugs(ctx, model.Projects, loc)
		row := model.LocaleCoverage{
			Locale:             loc,
			PostsCount:         len(posts),
			ProjectsCount:      len(projects),
			PostsPercentage:    percentage(len(posts), len(refPosts)),
			ProjectsPercentage: percentage(len(projects), len(refProjects)),
		}
		row.Complete = row.PostsPercentage == 100 && row.ProjectsPercentage == 100
		row.Orphans = append(orphans(model.Posts, posts, refPosts), orphans(model.Projects, projects, refProjects)...)
		out = append(out, row)
	}
	return out
}

func percentage(count, ref int) int {
	if ref == 0 {
		return 0
	}
	return int(math.Round(float64(count) / float64(ref) * 100))
}

func orphans(ct model.ContentType, have, ref map[string]bool) []string {
	var out []string
	for slug := range have {
		if !ref[slug] {
			out = append(out, string(ct)+"/"+slug)
		}
	}
	sort.Strings(out)
	return out
}

// HasTranslation 判断 slug 在指定语言下是否有对应文件。
func (a *Auditor) HasTranslation(ctx context.Context, ct model.ContentType, slug string, loc locale.Locale) bool {
	return a.slugs(ctx, ct, loc)[slug]
}

// AvailableLocales 返回 slug 存在的全部语言（按枚举顺序），用于 hreflang 与语言切换。
func (a *Auditor) AvailableLocales(ctx context.Context, ct model.ContentType, slug string) []locale.Locale {
	var out []locale.Locale
	for _, loc := range locale.All() {
		if a.HasTranslation(ctx, ct, slug, loc) {
			out = append(out, loc)
		}
	}
	return out
}
