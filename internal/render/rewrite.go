package render

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// rewrite 对渲染结果做后处理：
// - 表格外包一层可横向滚动的容器
// - 外部链接在新窗口打开
// - 设置了 baseURL 时，相对的 href/src 转为绝对地址
func (r *Renderer) rewrite(doc *goquery.Document) {
	doc.Find("table").Each(func(_ int, s *goquery.Selection) {
		s.WrapHtml(`<div class="table-wrap"></div>`)
	})
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if isExternal(href) {
			s.SetAttr("target", "_blank")
			s.SetAttr("rel", "noopener noreferrer")
			return
		}
		if r.baseURL != "" && !strings.HasPrefix(href, "#") {
			s.SetAttr("href", abs(r.baseURL+"/", href))
		}
	})
	if r.baseURL == "" {
		return
	}
	doc.Find("img[src]").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		s.SetAttr("src", abs(r.baseURL+"/", src))
	})
}

func isExternal(href string) bool {
	return strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://")
}

// abs 将相对链接转换为绝对 URL。
func abs(base, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	if isExternal(ref) || strings.HasPrefix(ref, "mailto:") {
		return ref
	}
	bu, err := url.Parse(base)
	if err != nil {
		return ref
	}
	ru, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return bu.ResolveReference(ru).String()
}
