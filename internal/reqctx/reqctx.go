// 包 reqctx 在 context 中携带请求级数据：请求 ID、协商后的语言与目录作用域。
package reqctx

import (
	"context"

	"go-folio/internal/catalog"
	"go-folio/internal/locale"
)

type ctxKey int

const (
	keyRequestID ctxKey = iota
	keyLocale
	keyCatalog
)

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, keyRequestID, id)
}

// RequestID 返回请求 ID，不存在时为空字符串。
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(keyRequestID).(string)
	return id
}

func WithLocale(ctx context.Context, loc locale.Locale) context.Context {
	return context.WithValue(ctx, keyLocale, loc)
}

// Locale 返回当前请求的语言，未设置时为 fallback（调用方传入配置的参考语言）。
func Locale(ctx context.Context, fallback locale.Locale) locale.Locale {
	if loc, ok := ctx.Value(keyLocale).(locale.Locale); ok && loc.Valid() {
		return loc
	}
	return fallback
}

func WithCatalog(ctx context.Context, req *catalog.Request) context.Context {
	return context.WithValue(ctx, keyCatalog, req)
}

// Catalog 返回请求级目录作用域；中间件未设置时由 fallback 新建一个。
func Catalog(ctx context.Context, fallback *catalog.Catalog) *catalog.Request {
	if req, ok := ctx.Value(keyCatalog).(*catalog.Request); ok && req != nil {
		return req
	}
	return fallback.Begin()
}
