// 包 watch 监听内容目录变化并在防抖后触发回调（用于 serve --watch 重建快照）。
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"go-folio/internal/content"
	"go-folio/internal/logx"
)

// DefaultDebounce 为默认防抖间隔。
const DefaultDebounce = 500 * time.Millisecond

type Watcher struct {
	root     string
	debounce time.Duration
	onChange func(ctx context.Context) error
	// 回调串行执行
	mu sync.Mutex
}

// New 创建监听器；debounce <= 0 时使用 DefaultDebounce。
func New(root string, debounce time.Duration, onChange func(ctx context.Context) error) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{root: root, debounce: debounce, onChange: onChange}
}

// Run 递归监听 root 下的全部目录，直到 ctx 取消。
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()
	if err := w.addTree(fw, w.root); err != nil {
		return err
	}
	logx.Infof("开始监听内容目录：%s", w.root)

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !relevant(ev) {
				continue
			}
			logx.Debugf("检测到变更：%s (%s)", ev.Name, ev.Op.String())
			if ev.Has(fsnotify.Create) && isDir(ev.Name) {
				if err := w.addTree(fw, ev.Name); err != nil {
					logx.Warnf("监听新目录失败：%s 错误=%v", ev.Name, err)
				}
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() { w.fire(ctx) })
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logx.Warnf("监听错误：%v", err)
		}
	}
}

func (w *Watcher) fire(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.onChange(ctx); err != nil {
		logx.Warnf("变更处理失败：%v", err)
	}
}

func (w *Watcher) addTree(fw *fsnotify.Watcher, root string) error {
	if _, err := os.Stat(root); err != nil {
		return fmt.Errorf("stat %s: %w", root, err)
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logx.Warnf("遍历目录失败：%s 错误=%v", path, err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := fw.Add(path); err != nil {
			logx.Warnf("监听目录失败：%s 错误=%v", path, err)
		}
		return nil
	})
}

// relevant 只关心内容文件与目录的增删改。
func relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Base(ev.Name)
	if content.IsContentFile(name) {
		return true
	}
	// 删除或重命名的目录无法再 stat，按无扩展名判断
	return filepath.Ext(name) == "" && !strings.HasPrefix(name, ".")
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}
