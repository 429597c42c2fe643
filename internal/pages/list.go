package pages

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"go-folio/internal/filter"
	"go-folio/internal/locale"
	"go-folio/internal/model"
)

// cardTags 为卡片上展示的标签数量。
const cardTags = 3

type ListData struct {
	Site    Site
	Locale  locale.Locale
	Type    model.ContentType
	Entries []model.Entry
	Page    filter.Page
	// Query 为当前查询参数，分页链接在其基础上修改 page。
	Query   url.Values
	Tags    []string
	Authors []string
}

// DisplayTitle 返回条目标题；缺失时由 slug 生成（按语言规则首字母大写）。
func DisplayTitle(e model.Entry) string {
	if e.Title != "" {
		return e.Title
	}
	// 非法语言的 Tag 为英语
	return cases.Title(e.Locale.Tag()).String(strings.ReplaceAll(e.Slug, "-", " "))
}

func heading(loc locale.Locale, ct model.ContentType) string {
	msg := loc.Messages()
	if ct == model.Projects {
		return msg.Projects
	}
	return msg.Posts
}

// ListPage 渲染文章或项目列表页（筛选表单、卡片与分页）。
func ListPage(d ListData) g.Node {
	msg := d.Locale.Messages()
	base := localePath(d.Locale, "/"+string(d.Type))
	var body g.Node
	if len(d.Entries) == 0 {
		body = Div(Class("empty"), P(g.Text(msg.NoResults)), P(Class("hint"), g.Text(msg.NoResultsHint)))
	} else {
		body = Div(
			Class("cards"),
			g.Map(d.Entries, func(e model.Entry) g.Node { return card(d.Locale, d.Type, e) }),
		)
	}
	return Layout(
		PageConfig{Site: d.Site, Title: heading(d.Locale, d.Type), Locale: d.Locale, Path: "/" + string(d.Type)},
		H1(g.Text(heading(d.Locale, d.Type))),
		filters(d, base),
		body,
		g.If(d.Page.TotalItems > 0, P(Class("showing"), g.Text(fmt.Sprintf(msg.Showing, d.Page.Start, d.Page.End, d.Page.TotalItems)))),
		g.If(d.Page.TotalPages > 1, pagination(d, base)),
	)
}

func card(loc locale.Locale, ct model.ContentType, e model.Entry) g.Node {
	href := localePath(loc, "/"+string(ct)+"/"+e.Slug)
	return Article(
		Class("card"),
		g.If(e.Image != "", Img(Src(e.Image), Alt(DisplayTitle(e)), g.Attr("loading", "lazy"))),
		H2(A(Href(href), g.Text(DisplayTitle(e)))),
		P(
			Class("meta"),
			g.If(e.Dated(), Time(g.Attr("datetime", e.PublishedAt), g.Text(loc.FormatDate(e.Published())))),
			Span(Class("reading-time"), g.Text(e.ReadingTime)),
		),
		g.If(e.Summary != "", P(Class("summary"), g.Text(e.Summary))),
		g.If(len(e.Tags) > 0, Ul(
			Class("tags"),
			g.Map(e.FirstTags(cardTags), func(t string) g.Node { return Li(g.Text(t)) }),
		)),
	)
}

func filters(d ListData, base string) g.Node {
	q := d.Query
	if q == nil {
		q = url.Values{}
	}
	selected := map[string]bool{}
	for _, t := range q["tag"] {
		selected[t] = true
	}
	return Form(
		Class("filters"),
		Method("get"),
		Action(base),
		Input(Type("search"), Name("q"), Value(q.Get("q"))),
		g.If(len(d.Tags) > 0, Select(
			Name("tag"), Multiple(),
			g.Map(d.Tags, func(t string) g.Node {
				return Option(Value(t), g.If(selected[t], Selected()), g.Text(t))
			}),
		)),
		g.If(len(d.Authors) > 0, Select(
			Name("author"),
			Option(Value(""), g.Text("*")),
			g.Map(d.Authors, func(a string) g.Node {
				return Option(Value(a), g.If(q.Get("author") == a, Selected()), g.Text(a))
			}),
		)),
		Input(Type("date"), Name("from"), Value(q.Get("from"))),
		Input(Type("date"), Name("to"), Value(q.Get("to"))),
		Select(
			Name("sort"),
			g.Map([]filter.Sort{filter.SortNewest, filter.SortOldest, filter.SortTitleAsc, filter.SortTitleDesc}, func(s filter.Sort) g.Node {
				return Option(Value(string(s)), g.If(filter.ParseSort(q.Get("sort")) == s, Selected()), g.Text(string(s)))
			}),
		),
		Select(
			Name("per_page"),
			g.Map(filter.PerPageOptions, func(n int) g.Node {
				return Option(Value(strconv.Itoa(n)), g.If(d.Page.PerPage == n, Selected()), g.Text(strconv.Itoa(n)))
			}),
		),
		Button(Type("submit"), g.Text("OK")),
		g.If(filter.FromValues(q).Active(), A(Class("clear-filters"), Href(base), g.Text(d.Locale.Messages().ClearFilters))),
	)
}

func pagination(d ListData, base string) g.Node {
	link := func(page int) string {
		q := url.Values{}
		for k, v := range d.Query {
			q[k] = append([]string(nil), v...)
		}
		q.Set("page", strconv.Itoa(page))
		return base + "?" + q.Encode()
	}
	p := d.Page
	return Nav(
		Class("pagination"),
		g.If(p.HasPrev(), A(Href(link(p.Number-1)), Rel("prev"), g.Text("‹"))),
		g.Map(filter.PageNumbers(p.Number, p.TotalPages), func(n int) g.Node {
			switch {
			case n == filter.Ellipsis:
				return Span(Class("gap"), g.Text("..."))
			case n == p.Number:
				return Span(Class("current"), g.Attr("aria-current", "page"), g.Text(strconv.Itoa(n)))
			default:
				return A(Href(link(n)), g.Text(strconv.Itoa(n)))
			}
		}),
		g.If(p.HasNext(), A(Href(link(p.Number+1)), Rel("next"), g.Text("›"))),
	)
}

// HomePage 渲染首页：最近的文章与项目。
func HomePage(site Site, loc locale.Locale, posts, projects []model.Entry) g.Node {
	section := func(ct model.ContentType, entries []model.Entry) g.Node {
		return Section(
			Class("recent-"+string(ct)),
			H2(A(Href(localePath(loc, "/"+string(ct))), g.Text(heading(loc, ct)))),
			Div(Class("cards"), g.Map(entries, func(e model.Entry) g.Node { return card(loc, ct, e) })),
		)
	}
	return Layout(
		PageConfig{Site: site, Locale: loc},
		H1(g.Text(site.Title)),
		g.If(site.Description != "", P(Class("intro"), g.Text(site.Description))),
		section(model.Posts, posts),
		section(model.Projects, projects),
	)
}
