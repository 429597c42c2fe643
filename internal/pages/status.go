package pages

import (
	"fmt"
	"strconv"

	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"go-folio/internal/locale"
	"go-folio/internal/model"
)

// progressClass 与原站点一致：100 为绿色，50 以上为黄色，其余为红色。
func progressClass(pct int) string {
	switch {
	case pct >= 100:
		return "progress-complete"
	case pct >= 50:
		return "progress-partial"
	default:
		return "progress-low"
	}
}

// StatusPage 渲染翻译覆盖率页面。
func StatusPage(site Site, loc locale.Locale, rows []model.LocaleCoverage) g.Node {
	msg := loc.Messages()
	// 分母取参考语言那一行
	var ref model.LocaleCoverage
	for _, r := range rows {
		if r.Locale == site.ReferenceLocale() {
			ref = r
		}
	}
	bar := func(label string, count, total, pct int) g.Node {
		return Div(
			Class("coverage-bar"),
			Span(g.Text(fmt.Sprintf("%s: %d / %d (%d%%)", label, count, total, pct))),
			Progress(Class(progressClass(pct)), Max("100"), Value(strconv.Itoa(min(pct, 100)))),
		)
	}
	return Layout(
		PageConfig{Site: site, Title: msg.TranslationStatus, Locale: loc, Path: "/translation-status"},
		H1(g.Text(msg.TranslationStatus)),
		P(g.Text(msg.TranslationIntro)),
		Div(
			Class("coverage"),
			g.Map(rows, func(r model.LocaleCoverage) g.Node {
				return Section(
					Class("coverage-row"),
					ID("coverage-"+string(r.Locale)),
					H2(g.Text(r.Locale.Flag()+" "+r.Locale.Name())),
					g.If(r.Complete, Span(Class("badge-complete"), g.Text("✓ "+msg.Complete))),
					bar(msg.Posts, r.PostsCount, ref.PostsCount, r.PostsPercentage),
					bar(msg.Projects, r.ProjectsCount, ref.ProjectsCount, r.ProjectsPercentage),
					g.If(len(r.Orphans) > 0, Ul(Class("orphans"), g.Map(r.Orphans, func(o string) g.Node { return Li(Code(g.Text(o))) }))),
				)
			}),
		),
	)
}

// NotFoundPage 渲染本地化的 404 页面。
func NotFoundPage(site Site, loc locale.Locale) g.Node {
	msg := loc.Messages()
	return Layout(
		PageConfig{Site: site, Title: msg.NotFoundTitle, Locale: loc},
		Section(
			Class("not-found"),
			H1(g.Text("404")),
			H2(g.Text(msg.NotFoundTitle)),
			P(g.Text(msg.NotFoundBody)),
			A(Href(localePath(loc, "/"+string(model.Posts))), g.Text(msg.BackToPosts)),
		),
	)
}
