// 包 store 提供内容快照的 SQLite 存储：条目索引（按分区整体替换）与翻译覆盖率历史。
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"go-folio/internal/locale"
	"go-folio/internal/model"
)

// SQLite 封装 *sql.DB，基于 modernc.org/sqlite（纯 Go 实现）。
type SQLite struct {
	db *sql.DB
}

// OpenSQLite 打开 SQLite 数据库并执行自动迁移。
func OpenSQLite(path string) (*SQLite, error) {
	// 说明：modernc sqlite 的 DSN 可直接使用文件路径，或以 'file:...' 前缀表示
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLite) Close() error { return s.db.Close() }

// Reset 清空条目与覆盖率历史（不删除数据库文件）。
func (s *SQLite) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM entries`); err != nil {
		return fmt.Errorf("delete entries: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM coverage`); err != nil {
		return fmt.Errorf("delete coverage: %w", err)
	}
	return nil
}

// migrate 执行建表语句，保持幂等。
func (s *SQLite) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS entries (
            type TEXT NOT NULL,
            locale TEXT NOT NULL,
            slug TEXT NOT NULL,
            title TEXT,
            summary TEXT,
            author TEXT,
            image TEXT,
            published_at TEXT,
            published INTEGER,
            tags TEXT,
            reading_time TEXT,
            indexed_at TIMESTAMP,
            PRIMARY KEY (type, locale, slug)
        );`,
		`CREATE TABLE IF NOT EXISTS coverage (
            run_at INTEGER NOT NULL,
            locale TEXT NOT NULL,
            posts_count INTEGER,
            projects_count INTEGER,
            posts_pct INTEGER,
            projects_pct INTEGER,
            complete INTEGER,
            orphans TEXT,
            PRIMARY KEY (run_at, locale)
        );`,
	}
	for _, q := range stmts {
		if _, err := s.db.Exec(q); err != nil {
			return fmt.Errorf("exec migrate: %w", err)
		}
	}
	return nil
}

// ReplacePartition 在一个事务内用新列表替换整个分区，磁盘上已删除的条目随之消失。
func (s *SQLite) ReplacePartition(ctx context.Context, ct model.ContentType, loc locale.Locale, entries []model.Entry) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if _, err = tx.ExecContext(ctx, `DELETE FROM entries WHERE type = ? AND locale = ?`, string(ct), string(loc)); err != nil {
		return fmt.Errorf("clear partition %s/%s: %w", ct, loc, err)
	}
	now := time.Now()
	for _, e := range entries {
		tags, _ := json.Marshal(e.Tags)
		_, err = tx.ExecContext(ctx, `INSERT INTO entries(type, locale, slug, title, summary, author, image, published_at, published, tags, reading_time, indexed_at)
            VALUES(?,?,?,?,?,?,?,?,?,?,?,?)`,
			string(ct), string(loc), e.Slug, e.Title, e.Summary, e.Author, e.Image, e.PublishedAt, e.Published().Unix(), string(tags), e.ReadingTime, now)
		if err != nil {
			return fmt.Errorf("insert entry %s/%s/%s: %w", ct, loc, e.Slug, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit partition %s/%s: %w", ct, loc, err)
	}
	return nil
}

// ListEntries 返回分区内条目，按发布时间倒序、slug 升序。
func (s *SQLite) ListEntries(ctx context.Context, ct model.ContentType, loc locale.Locale) ([]model.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT slug, title, summary, author, image, published_at, tags, reading_time
        FROM entries WHERE type = ? AND locale = ? ORDER BY published DESC, slug ASC`, string(ct), string(loc))
	if err != nil {
		return nil, fmt.Errorf("query entries %s/%s: %w", ct, loc, err)
	}
	defer rows.Close()
	out := []model.Entry{}
	for rows.Next() {
		var e model.Entry
		var tags string
		if err := rows.Scan(&e.Slug, &e.Title, &e.Summary, &e.Author, &e.Image, &e.PublishedAt, &tags, &e.ReadingTime); err != nil {
			return nil, fmt.Errorf("scan entries: %w", err)
		}
		if err := json.Unmarshal([]byte(tags), &e.Tags); err != nil || e.Tags == nil {
			e.Tags = []string{}
		}
		e.Locale = loc
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return out, nil
}

// Partitions 返回全部非空分区（按类型、语言枚举顺序）。
func (s *SQLite) Partitions(ctx context.Context) ([]model.Partition, error) {
	var out []model.Partition
	for _, ct := range model.ContentTypes() {
		for _, loc := range locale.All() {
			entries, err := s.ListEntries(ctx, ct, loc)
			if err != nil {
				return nil, err
			}
			if len(entries) == 0 {
				continue
			}
			out = append(out, model.Partition{Type: ct, Locale: loc, Entries: entries})
		}
	}
	return out, nil
}

// RecordCoverage 写入一次审计结果，run_at 相同的记录视为同一次运行。
func (s *SQLite) RecordCoverage(ctx context.Context, at time.Time, rows []model.LocaleCoverage) error {
	for _, r := range rows {
		orphans, _ := json.Marshal(r.Orphans)
		_, err := s.db.ExecContext(ctx, `INSERT INTO coverage(run_at, locale, posts_count, projects_count, posts_pct, projects_pct, complete, orphans)
            VALUES(?,?,?,?,?,?,?,?)
            ON CONFLICT(run_at, locale) DO UPDATE SET posts_count=excluded.posts_count, projects_count=excluded.projects_count,
            posts_pct=excluded.posts_pct, projects_pct=excluded.projects_pct, complete=excluded.complete, orphans=excluded.orphans`,
			at.UnixNano(), string(r.Locale), r.PostsCount, r.ProjectsCount, r.PostsPercentage, r.ProjectsPercentage, r.Complete, string(orphans))
		if err != nil {
			return fmt.Errorf("record coverage %s: %w", r.Locale, err)
		}
	}
	return nil
}

// LatestCoverage 返回最近一次审计结果（按语言枚举顺序）；没有记录时返回空。
func (s *SQLite) LatestCoverage(ctx context.Context) ([]model.LocaleCoverage, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT locale, posts_count, projects_count, posts_pct, projects_pct, complete, COALESCE(orphans,'null')
        FROM coverage WHERE run_at = (SELECT MAX(run_at) FROM coverage)`)
	if err != nil {
		return nil, fmt.Errorf("query coverage: %w", err)
	}
	defer rows.Close()
	byLocale := map[locale.Locale]model.LocaleCoverage{}
	for rows.Next() {
		var r model.LocaleCoverage
		var loc, orphans string
		if err := rows.Scan(&loc, &r.PostsCount, &r.ProjectsCount, &r.PostsPercentage, &r.ProjectsPercentage, &r.Complete, &orphans); err != nil {
			return nil, fmt.Errorf("scan coverage: %w", err)
		}
		r.Locale = locale.Locale(loc)
		_ = json.Unmarshal([]byte(orphans), &r.Orphans)
		byLocale[r.Locale] = r
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate coverage: %w", err)
	}
	var out []model.LocaleCoverage
	for _, loc := range locale.All() {
		if r, ok := byLocale[loc]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

// Stats 统计汇总：文章/项目条目总数（全部语言）与更新时间。
func (s *SQLite) Stats(ctx context.Context) (model.Stats, error) {
	var st model.Stats
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM entries WHERE type = ?`, string(model.Posts)).Scan(&st.PostsTotal); err != nil {
		return st, fmt.Errorf("count posts: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM entries WHERE type = ?`, string(model.Projects)).Scan(&st.ProjectsTotal); err != nil {
		return st, fmt.Errorf("count projects: %w", err)
	}
	st.UpdatedAt = time.Now()
	return st, nil
}

// CleanOldCoverage 按天数阈值清理覆盖率历史。
func (s *SQLite) CleanOldCoverage(ctx context.Context, days int) error {
	if days <= 0 {
		return nil
	}
	cutoff := time.Now().AddDate(0, 0, -days).UnixNano()
	if _, err := s.db.ExecContext(ctx, `DELETE FROM coverage WHERE run_at < ?`, cutoff); err != nil {
		return fmt.Errorf("clean old coverage: %w", err)
	}
	return nil
}
