package pages

import (
	"net/url"

	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"go-folio/internal/locale"
	"go-folio/internal/model"
	"go-folio/internal/render"
)

type PostData struct {
	Site Site
	// Locale 为请求语言；Doc.Locale 不同时表示回退到了参考语言。
	Locale    locale.Locale
	Type      model.ContentType
	Doc       *model.Document
	Rendered  render.Result
	Available []locale.Locale
}

// PostPage 渲染文章或项目详情。
func PostPage(d PostData) g.Node {
	msg := d.Locale.Messages()
	back := msg.BackToPosts
	if d.Type == model.Projects {
		back = msg.BackToProjects
	}
	e := d.Doc.Entry
	desc := e.Summary
	if desc == "" {
		desc = d.Rendered.Excerpt
	}
	return Layout(
		PageConfig{Site: d.Site, Title: DisplayTitle(e), Description: desc, Locale: d.Locale, Path: "/" + string(d.Type) + "/" + e.Slug},
		Article(
			Class("post"),
			g.Attr("lang", string(e.Locale)),
			A(Class("back"), Href(localePath(d.Locale, "/"+string(d.Type))), g.Text("← "+back)),
			g.If(e.Locale != d.Locale, P(Class("fallback-notice"), g.Attr("role", "note"), g.Text(msg.FallbackNotice))),
			H1(g.Text(DisplayTitle(e))),
			P(
				Class("meta"),
				g.If(e.Author != "", Span(Class("author"), g.Text(e.Author))),
				g.If(e.Dated(), Time(g.Attr("datetime", e.PublishedAt), g.Text(d.Locale.FormatDate(e.Published())))),
				Span(Class("reading-time"), g.Text(e.ReadingTime)),
			),
			g.If(e.Image != "", Img(Src(e.Image), Alt(DisplayTitle(e)))),
			g.If(len(d.Rendered.TOC) > 0, toc(d.Rendered.TOC)),
			Div(Class("prose"), g.Raw(d.Rendered.HTML)),
			g.If(len(e.Tags) > 0, Ul(Class("tags"), g.Map(e.Tags, func(t string) g.Node {
				return Li(A(Href(localePath(d.Locale, "/"+string(d.Type)+"?tag="+url.QueryEscape(t))), g.Text(t)))
			}))),
			g.If(len(d.Available) > 1, Ul(Class("available-locales"), g.Map(d.Available, func(loc locale.Locale) g.Node {
				return Li(A(Href(localePath(loc, "/"+string(d.Type)+"/"+e.Slug)), g.Attr("hreflang", string(loc)), g.Text(loc.Flag()+" "+loc.Name())))
			}))),
		),
	)
}

func toc(items []render.Heading) g.Node {
	return Nav(
		Class("toc"),
		Ol(g.Map(items, func(h render.Heading) g.Node {
			cls := "toc-h2"
			if h.Level == 3 {
				cls = "toc-h3"
			}
			return Li(Class(cls), A(Href("#"+h.ID), g.Text(h.Text)))
		})),
	)
}
