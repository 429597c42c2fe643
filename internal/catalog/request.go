package catalog

import (
	"context"
	"sync"

	"go-folio/internal/content"
	"go-folio/internal/locale"
	"go-folio/internal/model"
)

type memoKey struct {
	ct   model.ContentType
	loc  locale.Locale
	slug string
}

type memoEntry struct {
	once sync.Once
	raw  content.Raw
	err  error
}

// Request 为请求级读取备忘：同一 (type, locale, slug) 只读取一次存储。
// 请求结束即丢弃；列表的并发读取共享同一个 Request，因此由互斥锁保护。
type Request struct {
	c    *Catalog
	mu   sync.Mutex
	memo map[memoKey]*memoEntry
}

// Begin 开始一个新的请求作用域。
func (c *Catalog) Begin() *Request {
	return &Request{c: c, memo: make(map[memoKey]*memoEntry)}
}

// Catalog 返回创建该请求的目录。
func (r *Request) Catalog() *Catalog { return r.c }

func (r *Request) read(ctx context.Context, ct model.ContentType, loc locale.Locale, slug string) (content.Raw, error) {
	k := memoKey{ct: ct, loc: loc, slug: slug}
	r.mu.Lock()
	e, ok := r.memo[k]
	if !ok {
		e = &memoEntry{}
		r.memo[k] = e
	}
	r.mu.Unlock()
	e.once.Do(func() {
		e.raw, e.err = r.c.src.ReadEntry(ctx, ct, loc, slug)
	})
	return e.raw, e.err
}
