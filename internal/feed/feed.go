// 包 feed 生成站点的 RSS 与 sitemap：
// - RSS 只包含参考语言的文章，链接带语言前缀
// - sitemap 覆盖全部语言的静态页、文章与项目
package feed

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/gorilla/feeds"

	"go-folio/internal/locale"
	"go-folio/internal/model"
)

// Site 为生成 feed 所需的站点信息。
type Site struct {
	Title       string
	Description string
	BaseURL     string
	Author      string
	Email       string
}

// Lister 由 catalog.Catalog 与 catalog.Request 实现。
type Lister interface {
	List(ctx context.Context, ct model.ContentType, loc locale.Locale, limit int) []model.Entry
}

type Builder struct {
	site Site
	ref  locale.Locale
	src  Lister
	now  func() time.Time
}

func New(site Site, ref locale.Locale, src Lister) *Builder {
	site.BaseURL = strings.TrimRight(site.BaseURL, "/")
	return &Builder{site: site, ref: ref, src: src, now: time.Now}
}

// URL 返回条目在指定语言下的绝对地址。
func (b *Builder) URL(loc locale.Locale, ct model.ContentType, slug string) string {
	if slug == "" {
		return fmt.Sprintf("%s/%s/%s", b.site.BaseURL, loc, ct)
	}
	return fmt.Sprintf("%s/%s/%s/%s", b.site.BaseURL, loc, ct, slug)
}

// RSS 生成 RSS 2.0 文档；无日期的文章使用生成时间。
func (b *Builder) RSS(ctx context.Context) (string, error) {
	now := b.now().UTC()
	f := &feeds.Feed{
		Title:       b.site.Title,
		Link:        &feeds.Link{Href: b.site.BaseURL},
		Description: b.site.Description,
		Created:     now,
	}
	if b.site.Author != "" || b.site.Email != "" {
		f.Author = &feeds.Author{Name: b.site.Author, Email: b.site.Email}
	}
	posts := b.src.List(ctx, model.Posts, b.ref, 0)
	for _, p := range posts {
		link := b.URL(b.ref, model.Posts, p.Slug)
		created := now
		if p.Dated() {
			created = p.Published()
		}
		item := &feeds.Item{
			Title:       p.Title,
			Link:        &feeds.Link{Href: link},
			Id:          link,
			Description: p.Summary,
			Created:     created,
		}
		if f.Author != nil {
			item.Author = f.Author
		}
		f.Items = append(f.Items, item)
	}

	rss := (&feeds.Rss{Feed: f}).RssFeed()
	rss.Language = strings.ToLower(b.ref.Region())
	for i, item := range rss.Items {
		item.Category = strings.Join(posts[i].Tags, ", ")
	}
	out, err := feeds.ToXML(rss)
	if err != nil {
		return "", fmt.Errorf("encode rss: %w", err)
	}
	return out, nil
}

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

type urlset struct {
	XMLName xml.Name `xml:"urlset"`
	XMLNS   string   `xml:"xmlns,attr"`
	URLs    []URL    `xml:"url"`
}

// URL 为 sitemap 中的一条记录。
type URL struct {
	Loc        string  `xml:"loc"`
	LastMod    string  `xml:"lastmod,omitempty"`
	ChangeFreq string  `xml:"changefreq,omitempty"`
	Priority   float64 `xml:"priority"`
}

// priorities 对应首页、文章与项目。
var priorities = map[model.ContentType]float64{
	model.Posts:    0.8,
	model.Projects: 0.9,
}

// Entries 返回 sitemap 记录：先是各语言静态页，再是各语言的文章与项目。
func (b *Builder) Entries(ctx context.Context) []URL {
	today := b.now().UTC().Format("2006-01-02")
	var out []URL
	for _, loc := range locale.All() {
		out = append(out, URL{Loc: fmt.Sprintf("%s/%s", b.site.BaseURL, loc), LastMod: today, ChangeFreq: "weekly", Priority: 1})
		for _, ct := range model.ContentTypes() {
			out = append(out, URL{Loc: b.URL(loc, ct, ""), LastMod: today, ChangeFreq: "weekly", Priority: priorities[ct]})
		}
	}
	for _, ct := range model.ContentTypes() {
		for _, loc := range locale.All() {
			for _, e := range b.src.List(ctx, ct, loc, 0) {
				mod := today
				if e.Dated() {
					mod = e.Published().UTC().Format("2006-01-02")
				}
				out = append(out, URL{Loc: b.URL(loc, ct, e.Slug), LastMod: mod, ChangeFreq: "monthly", Priority: priorities[ct]})
			}
		}
	}
	return out
}

// Sitemap 生成 sitemap.xml。
func (b *Builder) Sitemap(ctx context.Context) ([]byte, error) {
	body, err := xml.MarshalIndent(urlset{XMLNS: sitemapNS, URLs: b.Entries(ctx)}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode sitemap: %w", err)
	}
	return append([]byte(xml.Header), body...), nil
}
