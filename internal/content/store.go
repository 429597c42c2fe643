// 包 content 为基于文件的 Front Matter 文档存储：
// - 目录分区：<root>/<type>/<locale>/<slug>.mdx（或 .md）
// - 下划线开头的文件为写作模板，永不作为内容出现
// - 读取失败一律转换为 ErrNotFound，调用方只需处理“有/无”两种结果
package content

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/adrg/frontmatter"

	"go-folio/internal/locale"
	"go-folio/internal/logx"
	"go-folio/internal/model"
)

var (
	// ErrNotFound 表示请求的条目不存在或不可读。
	ErrNotFound = errors.New("content not found")
	// ErrMalformed 表示文件存在但无法拆分为元数据与正文，总是与 ErrNotFound 一并返回。
	ErrMalformed = errors.New("malformed document")
)

// extensions 为读取时依次尝试的扩展名。
var extensions = []string{".mdx", ".md"}

// Meta 为 Front Matter 中可识别的字段，均为可选。
type Meta struct {
	Title       string `yaml:"title"`
	Summary     string `yaml:"summary"`
	Image       string `yaml:"image"`
	Author      string `yaml:"author"`
	PublishedAt string `yaml:"publishedAt"`
	Tags        Tags   `yaml:"tags"`
}

// Tags 兼容列表写法与逗号分隔的单个字符串。
type Tags []string

func (t *Tags) UnmarshalYAML(unmarshal func(any) error) error {
	var list []string
	if err := unmarshal(&list); err == nil {
		*t = compact(list)
		return nil
	}
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	*t = compact(strings.Split(s, ","))
	return nil
}

func compact(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Raw 为单个文件解析后的结果。
type Raw struct {
	File string
	Meta Meta
	Body string
}

// Store 读取只读文件系统中的内容分区，可并发使用。
type Store struct {
	fsys fs.FS
}

// New 基于任意 fs.FS 创建存储（测试中使用 fstest.MapFS）。
func New(fsys fs.FS) *Store { return &Store{fsys: fsys} }

// Open 以本地目录为根创建存储。
func Open(dir string) *Store { return New(os.DirFS(dir)) }

func partitionDir(ct model.ContentType, loc locale.Locale) string {
	return path.Join(string(ct), string(loc))
}

// PartitionExists 判断分区目录是否存在。
func (s *Store) PartitionExists(_ context.Context, ct model.ContentType, loc locale.Locale) bool {
	fi, err := fs.Stat(s.fsys, partitionDir(ct, loc))
	return err == nil && fi.IsDir()
}

// ListFiles 返回分区内的内容文件名（按名称排序）。
// 分区不存在时返回空；其他读取错误记录警告后同样返回空。
func (s *Store) ListFiles(_ context.Context, ct model.ContentType, loc locale.Locale) []string {
	dir := partitionDir(ct, loc)
	entries, err := fs.ReadDir(s.fsys, dir)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logx.Warnf("读取内容目录失败：%s 错误=%v", dir, err)
		}
		return nil
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !IsContentFile(e.Name()) {
			continue
		}
		out = append(out, e.Name())
	}
	return out
}

// IsContentFile 判断文件名是否为可列出的内容文件（排除模板与隐藏文件）。
func IsContentFile(name string) bool {
	if strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".") {
		return false
	}
	for _, ext := range extensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// SlugFromFile 去掉 .mdx/.md 扩展名得到 slug。
func SlugFromFile(name string) string {
	for _, ext := range extensions {
		if strings.HasSuffix(name, ext) {
			return strings.TrimSuffix(name, ext)
		}
	}
	return name
}

// validSlug 拒绝路径穿越与模板文件名。
func validSlug(slug string) bool {
	if slug == "" || strings.ContainsAny(slug, `/\`) || strings.Contains(slug, "..") {
		return false
	}
	return !strings.HasPrefix(slug, "_") && !strings.HasPrefix(slug, ".")
}

// ReadEntry 读取并解析单个条目；任何失败都以 ErrNotFound 返回。
func (s *Store) ReadEntry(_ context.Context, ct model.ContentType, loc locale.Locale, slug string) (Raw, error) {
	if !validSlug(slug) {
		return Raw{}, fmt.Errorf("%w: %s/%s/%q", ErrNotFound, ct, loc, slug)
	}
	dir := partitionDir(ct, loc)
	for _, ext := range extensions {
		name := slug + ext
		p := path.Join(dir, name)
		b, err := fs.ReadFile(s.fsys, p)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			logx.Warnf("读取内容文件失败：%s 错误=%v", p, err)
			return Raw{}, fmt.Errorf("%w: read %s: %v", ErrNotFound, p, err)
		}
		meta, body, err := Parse(b)
		if err != nil {
			logx.Warnf("内容文件格式错误，已跳过：%s 错误=%v", p, err)
			return Raw{}, fmt.Errorf("%w: %w: %s: %v", ErrNotFound, ErrMalformed, p, err)
		}
		return Raw{File: name, Meta: meta, Body: body}, nil
	}
	return Raw{}, fmt.Errorf("%w: %s/%s/%s", ErrNotFound, ct, loc, slug)
}

// Parse 拆分 Front Matter 与正文；没有 Front Matter 时整个文件视为正文。
func Parse(b []byte) (Meta, string, error) {
	if !utf8.Valid(b) {
		return Meta{}, "", errors.New("invalid utf-8 encoding")
	}
	var meta Meta
	rest, err := frontmatter.Parse(bytes.NewReader(b), &meta)
	if err != nil {
		return Meta{}, "", fmt.Errorf("parse front matter: %w", err)
	}
	return meta, strings.TrimLeft(string(rest), "\r\n"), nil
}
