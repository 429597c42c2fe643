// 包 cli 为命令行入口（cobra）：
// - 根命令负责加载配置与初始化日志
// - serve 启动站点服务，index/export 生成快照，list/show/audit/feed 用于本地调试
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"go-folio/internal/audit"
	"go-folio/internal/catalog"
	"go-folio/internal/config"
	"go-folio/internal/content"
	"go-folio/internal/locale"
	"go-folio/internal/logx"
	"go-folio/internal/model"
)

// defaultConfig 在未显式指定 --config 且文件存在时使用。
const defaultConfig = "settings.yaml"

type app struct {
	cfgPath string
	cfg     *config.Config
}

// NewRootCmd 构造完整的命令树（测试中通过 SetArgs/SetOut 调用）。
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "folio",
		Short:         "Multilingual portfolio content server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.initialize(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.cfgPath, "config", defaultConfig, "path to settings.yaml")
	root.AddCommand(
		a.serveCmd(),
		a.indexCmd(),
		a.exportCmd(),
		a.listCmd(),
		a.showCmd(),
		a.auditCmd(),
		a.feedCmd(),
	)
	return root
}

// Execute 运行根命令，失败时以非零状态退出。
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (a *app) initialize(cmd *cobra.Command) error {
	path := a.cfgPath
	if !cmd.Flags().Changed("config") {
		// 默认配置文件缺失时只使用环境变量与默认值
		if _, err := os.Stat(path); err != nil {
			path = ""
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.cfg = cfg
	logx.Init(logx.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Locale: cfg.LogLocale,
		Color:  cfg.LogColor,
		File:   cfg.LogFile,
	})
	if path != "" {
		logx.Debugf("使用配置文件：%s", path)
	}
	return nil
}

// sources 打开内容目录并构造目录与审计器；obs 可为 nil。
func (a *app) sources(obs catalog.Observer) (*catalog.Catalog, *audit.Auditor) {
	if fi, err := os.Stat(a.cfg.ContentDir); err != nil || !fi.IsDir() {
		logx.Warnf("内容目录不存在：%s", a.cfg.ContentDir)
	}
	src := content.Open(a.cfg.ContentDir)
	cat := catalog.New(src, catalog.Options{
		Reference: a.cfg.Reference,
		Workers:   a.cfg.Concurrency.Read,
		Observer:  obs,
	})
	return cat, audit.New(src, a.cfg.Reference)
}

func parseArgs(typ, loc string) (model.ContentType, locale.Locale, error) {
	ct, ok := model.ParseContentType(typ)
	if !ok {
		return "", "", fmt.Errorf("unknown content type: %s", typ)
	}
	l, ok := locale.Parse(loc)
	if !ok {
		return "", "", fmt.Errorf("unsupported locale: %s", loc)
	}
	return ct, l, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
