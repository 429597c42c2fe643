package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"go-folio/internal/export"
	"go-folio/internal/logx"
	"go-folio/internal/store"
)

func (a *app) indexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "Build a snapshot of every partition and the translation coverage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if a.cfg.ResetOnStart {
				a.resetOnStart(cmd)
			}
			cat, aud := a.sources(nil)
			rebuild, closeFn, err := a.snapshotter(cat, aud, nil)
			if err != nil {
				return err
			}
			defer closeFn()
			logx.Infof("开始生成快照：极简模式=%v", a.cfg.SimpleMode)
			if err := rebuild(ctx); err != nil {
				return fmt.Errorf("index: %w", err)
			}
			return nil
		},
	}
}

// resetOnStart 清空数据库表并删除上一次的导出文件。
func (a *app) resetOnStart(cmd *cobra.Command) {
	if !a.cfg.SimpleMode {
		st, err := store.OpenSQLite(a.cfg.Database.DSN)
		if err != nil {
			logx.Warnf("启动清理数据库失败：%v", err)
		} else {
			if err := st.Reset(cmd.Context()); err != nil {
				logx.Warnf("启动清理数据库失败：%v", err)
			} else {
				logx.Infof("已清理数据库表（entries/coverage）")
			}
			_ = st.Close()
		}
	} else {
		logx.Infof("极简模式：跳过数据库打开与清理")
	}
	if err := os.Remove(a.cfg.ExportPath); err == nil {
		logx.Infof("已删除导出文件：%s", a.cfg.ExportPath)
	} else if !errors.Is(err, os.ErrNotExist) {
		logx.Warnf("删除导出文件失败：%s 错误=%v", a.cfg.ExportPath, err)
	}
}

func (a *app) exportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the snapshot to a JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if out != "" {
				a.cfg.ExportPath = out
			}
			if a.cfg.SimpleMode {
				// 极简模式没有数据库，现场生成快照后导出
				cat, aud := a.sources(nil)
				rebuild, closeFn, err := a.snapshotter(cat, aud, nil)
				if err != nil {
					return err
				}
				defer closeFn()
				return rebuild(ctx)
			}
			st, err := store.OpenSQLite(a.cfg.Database.DSN)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			defer st.Close()
			if err := export.ToJSON(ctx, st, a.cfg.ExportPath); err != nil {
				return fmt.Errorf("export json: %w", err)
			}
			logx.Infof("已导出 %s", a.cfg.ExportPath)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output path (overrides EXPORT_PATH)")
	return cmd
}
