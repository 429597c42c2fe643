package filter

// PerPageOptions 为可选的每页条数。
var PerPageOptions = []int{4, 6, 10, 20, 30}

const DefaultPerPage = 4

// maxVisiblePages 为页码导航中最多展示的数字个数。
const maxVisiblePages = 5

// Ellipsis 在 PageNumbers 结果中表示省略号。
const Ellipsis = 0

// NormalizePerPage 将不在可选列表中的值回退为默认值。
func NormalizePerPage(n int) int {
	for _, v := range PerPageOptions {
		if v == n {
			return n
		}
	}
	return DefaultPerPage
}

// Page 描述一页的范围；Start/End 为 1 起始的闭区间，无数据时均为 0。
type Page struct {
	Number     int `json:"page"`
	PerPage    int `json:"perPage"`
	TotalPages int `json:"totalPages"`
	TotalItems int `json:"totalItems"`
	Start      int `json:"start"`
	End        int `json:"end"`
}

// Paginate 计算分页；页码越界时夹到 [1, TotalPages]。
func Paginate(total, page, perPage int) Page {
	perPage = NormalizePerPage(perPage)
	pages := (total + perPage - 1) / perPage
	if page > pages {
		page = pages
	}
	if page < 1 {
		page = 1
	}
	p := Page{Number: page, PerPage: perPage, TotalPages: pages, TotalItems: total}
	if total > 0 {
		p.Start = (page-1)*perPage + 1
		p.End = min(page*perPage, total)
	}
	return p
}

// HasPrev/HasNext 用于上一页/下一页链接。
func (p Page) HasPrev() bool { return p.Number > 1 }
func (p Page) HasNext() bool { return p.Number < p.TotalPages }

// Slice 返回当前页对应的元素。
func Slice[T any](items []T, p Page) []T {
	if p.TotalItems == 0 || p.Start == 0 {
		return nil
	}
	end := min(p.End, len(items))
	if p.Start-1 >= end {
		return nil
	}
	return items[p.Start-1 : end]
}

// PageNumbers 返回页码导航；总页数超过 5 时保留首尾，用 Ellipsis 表示省略。
func PageNumbers(current, total int) []int {
	var out []int
	if total <= maxVisiblePages {
		for i := 1; i <= total; i++ {
			out = append(out, i)
		}
		return out
	}
	out = append(out, 1)
	switch {
	case current <= 3:
		out = append(out, 2, 3, 4, Ellipsis, total)
	case current >= total-2:
		out = append(out, Ellipsis, total-3, total-2, total-1, total)
	default:
		out = append(out, Ellipsis, current-1, current, current+1, Ellipsis, total)
	}
	return out
}
