// 包 pages 使用 gomponents 渲染站点 HTML：布局、列表、详情、翻译状态与 404。
package pages

import (
	"strings"

	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"go-folio/internal/locale"
	"go-folio/internal/model"
)

// Site 为页面共用的站点信息。
type Site struct {
	Title       string
	Description string
	BaseURL     string
	// Reference 为配置的参考语言，零值时使用 locale.Reference。
	Reference   locale.Locale
}

// ReferenceLocale 返回站点的参考语言。
func (s Site) ReferenceLocale() locale.Locale {
	if s.Reference.Valid() {
		return s.Reference
	}
	return locale.Reference
}

type PageConfig struct {
	Site        Site
	Title       string
	Description string
	Locale      locale.Locale
	// Path 为去掉语言前缀后的路径（以 / 开头或为空），用于语言切换与 hreflang。
	Path string
}

// Layout 输出完整 HTML 文档，含 hreflang、导航与语言切换。
func Layout(cfg PageConfig, content ...g.Node) g.Node {
	title := cfg.Site.Title
	if cfg.Title != "" {
		title = cfg.Title + " | " + cfg.Site.Title
	}
	desc := cfg.Description
	if desc == "" {
		desc = cfg.Site.Description
	}
	msg := cfg.Locale.Messages()

	return g.Group([]g.Node{
		g.Raw("<!DOCTYPE html>"),
		HTML(
			Lang(string(cfg.Locale)),
			Head(
				Meta(Charset("utf-8")),
				Meta(Name("viewport"), Content("width=device-width, initial-scale=1.0")),
				TitleEl(g.Text(title)),
				Meta(Name("description"), Content(desc)),
				Meta(g.Attr("property", "og:title"), Content(title)),
				Meta(g.Attr("property", "og:description"), Content(desc)),
				Meta(g.Attr("property", "og:locale"), Content(strings.ReplaceAll(cfg.Locale.Region(), "-", "_"))),
				hreflang(cfg),
				Link(Rel("alternate"), Type("application/rss+xml"), Href("/rss.xml"), Title(cfg.Site.Title)),
			),
			Body(
				Header(
					Class("site-header"),
					Nav(
						A(Href("/"+string(cfg.Locale)), Class("logo"), g.Text(cfg.Site.Title)),
						A(Href(localePath(cfg.Locale, "/"+string(model.Posts))), g.Text(msg.Posts)),
						A(Href(localePath(cfg.Locale, "/"+string(model.Projects))), g.Text(msg.Projects)),
					),
					languageSwitcher(cfg),
				),
				Main(g.Group(content)),
				Footer(
					Class("site-footer"),
					A(Href("/rss.xml"), g.Text("RSS")),
					A(Href(localePath(cfg.Locale, "/translation-status")), g.Text(msg.TranslationStatus)),
				),
			),
		),
	})
}

// hreflang 为每个语言输出 alternate 链接，x-default 指向参考语言。
func hreflang(cfg PageConfig) g.Node {
	base := strings.TrimRight(cfg.Site.BaseURL, "/")
	var nodes []g.Node
	for _, loc := range locale.All() {
		nodes = append(nodes, Link(Rel("alternate"), g.Attr("hreflang", string(loc)), Href(base+localePath(loc, cfg.Path))))
	}
	nodes = append(nodes, Link(Rel("alternate"), g.Attr("hreflang", "x-default"), Href(base+localePath(cfg.Site.ReferenceLocale(), cfg.Path))))
	return g.Group(nodes)
}

func languageSwitcher(cfg PageConfig) g.Node {
	return Ul(
		Class("language-switcher"),
		g.Map(locale.All(), func(loc locale.Locale) g.Node {
			return Li(
				A(
					Href(localePath(loc, cfg.Path)),
					g.Attr("hreflang", string(loc)),
					g.If(loc == cfg.Locale, g.Attr("aria-current", "true")),
					g.Text(loc.Flag()+" "+loc.Name()),
				),
			)
		}),
	)
}

func localePath(loc locale.Locale, path string) string {
	if path == "" || path == "/" {
		return "/" + string(loc)
	}
	return "/" + string(loc) + path
}
