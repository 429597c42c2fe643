// 包 render 将 Markdown 正文渲染为 HTML：
// - goldmark（GFM + 自动标题 ID）负责转换
// - goquery 负责后处理：目录、摘要、表格包裹、外链与相对地址
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// excerptRunes 为自动摘要的最大字符数。
const excerptRunes = 160

// Heading 为目录项（仅 h2/h3）。
type Heading struct {
	Level int    `json:"level"`
	ID    string `json:"id"`
	Text  string `json:"text"`
}

// Result 为一次渲染的输出。
type Result struct {
	HTML    string    `json:"html"`
	TOC     []Heading `json:"toc"`
	Excerpt string    `json:"excerpt"`
}

// Renderer 可并发使用。
type Renderer struct {
	md goldmark.Markdown
	// baseURL 非空时，相对的链接与图片地址会被转换为绝对地址（用于 RSS 等外部消费）。
	baseURL string
}

// New 创建渲染器；baseURL 为空表示保留相对地址。
func New(baseURL string) *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			// 正文由站点作者维护，允许内嵌 HTML
			gmhtml.WithUnsafe(),
		),
	)
	return &Renderer{md: md, baseURL: strings.TrimRight(baseURL, "/")}
}

// Render 渲染正文并提取目录与摘要。
func (r *Renderer) Render(body string) (Result, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(body), &buf); err != nil {
		return Result{}, fmt.Errorf("convert markdown: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(&buf)
	if err != nil {
		return Result{}, fmt.Errorf("parse rendered html: %w", err)
	}
	res := Result{
		TOC:     toc(doc),
		Excerpt: excerpt(doc),
	}
	r.rewrite(doc)
	html, err := doc.Find("body").Html()
	if err != nil {
		return Result{}, fmt.Errorf("serialize html: %w", err)
	}
	res.HTML = strings.TrimSpace(html)
	return res, nil
}

// toc 收集带 id 的 h2/h3。
func toc(doc *goquery.Document) []Heading {
	out := []Heading{}
	doc.Find("h2, h3").Each(func(_ int, s *goquery.Selection) {
		id, ok := s.Attr("id")
		if !ok || id == "" {
			return
		}
		level := 2
		if goquery.NodeName(s) == "h3" {
			level = 3
		}
		out = append(out, Heading{Level: level, ID: id, Text: strings.TrimSpace(s.Text())})
	})
	return out
}

// excerpt 取第一个非空段落的纯文本，超长时按字符截断并追加省略号。
func excerpt(doc *goquery.Document) string {
	var text string
	doc.Find("p").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text = strings.Join(strings.Fields(s.Text()), " ")
		return text == ""
	})
	return Truncate(text, excerptRunes)
}

// Truncate 按字符截断，截断时追加 "…"。
func Truncate(s string, n int) string {
	rs := []rune(s)
	if n <= 0 || len(rs) <= n {
		return s
	}
	return strings.TrimSpace(string(rs[:n])) + "…"
}
