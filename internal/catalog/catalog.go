// 包 catalog 是内容解析的核心：
// - List：列出分区条目（整分区缺失时回退到参考语言，仅一步）
// - GetBySlug：按 slug 获取文档（请求语言未命中时显式重试参考语言）
// - Begin：请求级备忘，同一请求内重复读取只访问一次存储
package catalog

import (
	"context"
	"fmt"
	"sync"

	"go-folio/internal/content"
	"go-folio/internal/locale"
	"go-folio/internal/logx"
	"go-folio/internal/model"
	"go-folio/internal/readtime"
)

// ErrNotFound 与 content.ErrNotFound 为同一哨兵错误。
var ErrNotFound = content.ErrNotFound

// Source 为目录所依赖的存储能力，content.Store 实现了它。
type Source interface {
	PartitionExists(ctx context.Context, ct model.ContentType, loc locale.Locale) bool
	ListFiles(ctx context.Context, ct model.ContentType, loc locale.Locale) []string
	ReadEntry(ctx context.Context, ct model.ContentType, loc locale.Locale, slug string) (content.Raw, error)
}

// Outcome 为单次按 slug 查找的结果分类。
type Outcome string

const (
	OutcomeHit      Outcome = "hit"
	OutcomeFallback Outcome = "fallback"
	OutcomeNotFound Outcome = "not_found"
)

// Observer 接收查找结果与列表跳过计数（由 metrics 包实现）。
type Observer interface {
	Lookup(ct model.ContentType, outcome Outcome)
	ListFallback(ct model.ContentType, requested locale.Locale)
	Skipped(ct model.ContentType, loc locale.Locale)
}

type nopObserver struct{}

func (nopObserver) Lookup(model.ContentType, Outcome)             {}
func (nopObserver) ListFallback(model.ContentType, locale.Locale) {}
func (nopObserver) Skipped(model.ContentType, locale.Locale)      {}

type Options struct {
	// Reference 为回退目标语言，默认 locale.Reference。
	Reference locale.Locale
	// Workers 为列表并发读取上限，默认 8。
	Workers  int
	Observer Observer
}

// Catalog 无状态，可在多个请求之间共享。
type Catalog struct {
	src     Source
	ref     locale.Locale
	workers int
	obs     Observer
}

func New(src Source, opts Options) *Catalog {
	c := &Catalog{src: src, ref: opts.Reference, workers: opts.Workers, obs: opts.Observer}
	if !c.ref.Valid() {
		c.ref = locale.Reference
	}
	if c.workers <= 0 {
		c.workers = 8
	}
	if c.obs == nil {
		c.obs = nopObserver{}
	}
	return c
}

// Reference 返回回退目标语言。
func (c *Catalog) Reference() locale.Locale { return c.ref }

// List 使用一次性的 Request 列出条目。
func (c *Catalog) List(ctx context.Context, ct model.ContentType, loc locale.Locale, limit int) []model.Entry {
	return c.Begin().List(ctx, ct, loc, limit)
}

// GetBySlug 使用一次性的 Request 获取文档。
func (c *Catalog) GetBySlug(ctx context.Context, ct model.ContentType, loc locale.Locale, slug string) (*model.Document, error) {
	return c.Begin().GetBySlug(ctx, ct, loc, slug)
}

// servedPartition 决定列表实际读取的分区：
// 分区存在（即使为空）直接使用；缺失且非参考语言时改读参考语言。
func (c *Catalog) servedPartition(ctx context.Context, ct model.ContentType, loc locale.Locale) locale.Locale {
	if loc == c.ref || c.src.PartitionExists(ctx, ct, loc) {
		return loc
	}
	logx.Debugf("分区缺失，回退参考语言：%s/%s -> %s", ct, loc, c.ref)
	c.obs.ListFallback(ct, loc)
	return c.ref
}

// List 读取分区内全部条目，补充阅读时长后按发布时间倒序返回。
// 格式错误的文件被跳过；limit <= 0 表示不限制。
func (r *Request) List(ctx context.Context, ct model.ContentType, loc locale.Locale, limit int) []model.Entry {
	c := r.c
	served := c.servedPartition(ctx, ct, loc)

	// 同一分区内 hello.md 与 hello.mdx 并存时只保留一个 slug
	seen := map[string]bool{}
	var slugs []string
	for _, name := range c.src.ListFiles(ctx, ct, served) {
		slug := content.SlugFromFile(name)
		if seen[slug] {
			continue
		}
		seen[slug] = true
		slugs = append(slugs, slug)
	}

	results := make([]*model.Entry, len(slugs))
	sem := make(chan struct{}, c.workers)
	var wg sync.WaitGroup
	for i, slug := range slugs {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, slug string) {
			defer wg.Done()
			defer func() { <-sem }()
			raw, err := r.read(ctx, ct, served, slug)
			if err != nil {
				c.obs.Skipped(ct, served)
				return
			}
			e := toEntry(raw, served, slug)
			results[i] = &e
		}(i, slug)
	}
	wg.Wait()

	out := make([]model.Entry, 0, len(results))
	for _, e := range results {
		if e != nil {
			out = append(out, *e)
		}
	}
	model.SortNewest(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// GetBySlug 先查请求语言，未命中且非参考语言时再查参考语言。
// 元数据与正文始终来自同一个文件。
func (r *Request) GetBySlug(ctx context.Context, ct model.ContentType, loc locale.Locale, slug string) (*model.Document, error) {
	c := r.c
	if raw, err := r.read(ctx, ct, loc, slug); err == nil {
		c.obs.Lookup(ct, OutcomeHit)
		return toDocument(raw, loc, slug), nil
	}
	if loc != c.ref {
		if raw, err := r.read(ctx, ct, c.ref, slug); err == nil {
			logx.Debugf("未找到译文，使用参考语言：%s/%s/%s -> %s", ct, loc, slug, c.ref)
			c.obs.Lookup(ct, OutcomeFallback)
			return toDocument(raw, c.ref, slug), nil
		}
	}
	c.obs.Lookup(ct, OutcomeNotFound)
	logx.Debugf("条目不存在：%s/%s/%s", ct, loc, slug)
	return nil, fmt.Errorf("get %s/%s/%s: %w", ct, loc, slug, ErrNotFound)
}

func toEntry(raw content.Raw, loc locale.Locale, slug string) model.Entry {
	tags := []string(raw.Meta.Tags)
	if tags == nil {
		tags = []string{}
	}
	return model.Entry{
		Slug:        slug,
		Title:       raw.Meta.Title,
		Summary:     raw.Meta.Summary,
		Author:      raw.Meta.Author,
		Image:       raw.Meta.Image,
		PublishedAt: raw.Meta.PublishedAt,
		Tags:        tags,
		ReadingTime: readtime.Estimate(raw.Body),
		Locale:      loc,
	}
}

func toDocument(raw content.Raw, loc locale.Locale, slug string) *model.Document {
	return &model.Document{Entry: toEntry(raw, loc, slug), Body: raw.Body}
}
