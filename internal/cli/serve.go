package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"go-folio/internal/aggregate"
	"go-folio/internal/audit"
	"go-folio/internal/catalog"
	"go-folio/internal/export"
	"go-folio/internal/httpserver"
	"go-folio/internal/logx"
	"go-folio/internal/metrics"
	"go-folio/internal/store"
	"go-folio/internal/watch"
)

func (a *app) serveCmd() *cobra.Command {
	var (
		addr     string
		watching bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr != "" {
				a.cfg.Server.Addr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			m := metrics.New()
			cat, aud := a.sources(m)
			m.SetCoverage(aud.Audit(ctx))

			if watching {
				rebuild, closeFn, err := a.snapshotter(cat, aud, m)
				if err != nil {
					return err
				}
				defer closeFn()
				if err := rebuild(ctx); err != nil {
					logx.Warnf("初始快照失败：%v", err)
				}
				w := newWatcher(a.cfg.ContentDir, rebuild)
				go func() {
					if err := w.Run(ctx); err != nil {
						logx.Errorf("内容监听退出：%v", err)
					}
				}()
			}
			return httpserver.New(a.cfg, cat, aud, m).ListenAndServe(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides SERVER.addr)")
	cmd.Flags().BoolVar(&watching, "watch", false, "rebuild the snapshot when content changes")
	return cmd
}

func newWatcher(dir string, fn func(context.Context) error) *watch.Watcher {
	return watch.New(dir, watch.DefaultDebounce, fn)
}

// snapshotter 返回一次完整快照的执行函数：聚合、刷新覆盖率指标，极简模式下导出 JSON。
func (a *app) snapshotter(cat *catalog.Catalog, aud *audit.Auditor, m *metrics.Metrics) (func(context.Context) error, func(), error) {
	var st *store.SQLite
	closeFn := func() {}
	if !a.cfg.SimpleMode {
		var err error
		st, err = store.OpenSQLite(a.cfg.Database.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open db: %w", err)
		}
		closeFn = func() { _ = st.Close() }
	}
	run := aggregate.New(a.cfg, cat, aud, st)
	fn := func(ctx context.Context) error {
		if err := run.Run(ctx); err != nil {
			return err
		}
		if m != nil {
			m.SetCoverage(aud.Audit(ctx))
		}
		if run.Simple() {
			parts, cov := run.BufferData()
			if err := export.ToJSONData(ctx, parts, cov, a.cfg.ExportPath); err != nil {
				return fmt.Errorf("export json: %w", err)
			}
			logx.Infof("已导出 %s", a.cfg.ExportPath)
		}
		return nil
	}
	return fn, closeFn, nil
}
