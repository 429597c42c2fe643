// 包 aggregate 负责快照流程编排：
// - 并发列出每个 (type, locale) 分区
// - 正常模式写入 SQLite，极简模式收集到内存缓冲
// - 记录翻译覆盖率并清理过期历史
package aggregate

import (
	"context"
	"errors"
	"sync"
	"time"

	"go-folio/internal/audit"
	"go-folio/internal/catalog"
	"go-folio/internal/config"
	"go-folio/internal/locale"
	"go-folio/internal/logx"
	"go-folio/internal/model"
	"go-folio/internal/store"
)

// Runner 快照执行器，持有配置/目录/审计器/存储。
type Runner struct {
	cfg   *config.Config
	cat   *catalog.Catalog
	audit *audit.Auditor
	store *store.SQLite
	// 简洁模式：仅收集内存数据，不落库
	buf *SimpleBuffer
}

// New 创建 Runner；极简模式下 s 可以为 nil。
func New(cfg *config.Config, cat *catalog.Catalog, aud *audit.Auditor, s *store.SQLite) *Runner {
	r := &Runner{cfg: cfg, cat: cat, audit: aud, store: s}
	if (cfg != nil && cfg.SimpleMode) || s == nil {
		r.buf = NewSimpleBuffer()
	}
	return r
}

// Run 执行一轮快照：列出全部分区→写入→审计覆盖率。
func (r *Runner) Run(ctx context.Context) error {
	start := time.Now()
	// 同一轮快照共享一个请求作用域
	req := r.cat.Begin()

	workers := 2
	if r.cfg != nil {
		workers = max(1, r.cfg.Concurrency.Read/4)
	}
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var errs []error
	total := 0
	for _, ct := range model.ContentTypes() {
		for _, loc := range locale.All() {
			wg.Add(1)
			sem <- struct{}{}
			go func(ct model.ContentType, loc locale.Locale) {
				defer wg.Done()
				defer func() { <-sem }()
				n, err := r.processPartition(ctx, req, ct, loc)
				mu.Lock()
				defer mu.Unlock()
				total += n
				if err != nil {
					errs = append(errs, err)
				}
			}(ct, loc)
		}
	}
	wg.Wait()

	cov := r.audit.Audit(ctx)
	if r.buf != nil {
		r.buf.SetCoverage(cov)
	} else {
		if err := r.store.RecordCoverage(ctx, start, cov); err != nil {
			logx.Warnf("写入覆盖率失败：%v", err)
			errs = append(errs, err)
		}
		keep := 0
		if r.cfg != nil {
			keep = r.cfg.CoverageKeep
		}
		if err := r.store.CleanOldCoverage(ctx, keep); err != nil {
			logx.Warnf("清理覆盖率历史失败：%v", err)
		}
	}
	logx.Infof("快照完成：条目=%d 耗时=%s", total, time.Since(start).Round(time.Millisecond))
	return errors.Join(errs...)
}

// processPartition 处理单个分区；分区缺失时（列表回退到参考语言）记为空分区。
func (r *Runner) processPartition(ctx context.Context, req *catalog.Request, ct model.ContentType, loc locale.Locale) (int, error) {
	entries := req.List(ctx, ct, loc, 0)
	if len(entries) > 0 && entries[0].Locale != loc {
		logx.Debugf("[%s/%s] 分区缺失，不写入回退内容", ct, loc)
		entries = nil
	}
	if r.buf != nil {
		r.buf.SetPartition(ct, loc, entries)
		return len(entries), nil
	}
	if err := r.store.ReplacePartition(ctx, ct, loc, entries); err != nil {
		logx.Warnf("[%s/%s] 写入分区失败：%v", ct, loc, err)
		return 0, err
	}
	logx.Debugf("[%s/%s] 分区写入完成：%d", ct, loc, len(entries))
	return len(entries), nil
}

// BufferData 返回极简模式下收集的内存数据（分区、覆盖率）。
func (r *Runner) BufferData() ([]model.Partition, []model.LocaleCoverage) {
	if r == nil || r.buf == nil {
		return nil, nil
	}
	return r.buf.Snapshot()
}

// Simple 报告当前是否为极简模式。
func (r *Runner) Simple() bool { return r.buf != nil }
