// Package watch следит за конфигурационным файлом и исходниками проекта
// и вызывает пересборку после изменений.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Extensions расширения файлов, изменение которых запускает пересборку
var Extensions = []string{".cpp", ".cc", ".cxx", ".cppm", ".ixx", ".hpp", ".h"}

// Config настройки Watcher
type Config struct {
	Root       string        // корень проекта
	ConfigFile string        // путь к zork.conf / zork.toml
	Skip       []string      // директории, которые не отслеживаются (output_dir)
	Debounce   time.Duration // по умолчанию 200ms
	Logger     *slog.Logger
}

// Watcher отслеживает изменения и вызывает onChange не чаще раза за Debounce
type Watcher struct {
	config  Config
	watcher *fsnotify.Watcher
	logger  *slog.Logger
}

// New создаёт Watcher и регистрирует директории проекта
func New(config Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if config.Debounce == 0 {
		config.Debounce = 200 * time.Millisecond
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	w := &Watcher{config: config, watcher: fsw, logger: logger}
	if err := w.addRecursive(config.Root); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

// Close освобождает ресурсы fsnotify
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && (strings.HasPrefix(d.Name(), ".") || w.skipped(path)) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			w.logger.Warn("Failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
}

func (w *Watcher) skipped(path string) bool {
	for _, s := range w.config.Skip {
		if s != "" && filepath.Clean(path) == filepath.Clean(s) {
			return true
		}
	}
	return false
}

// Relevant сообщает, должно ли изменение файла path запускать пересборку
func (w *Watcher) Relevant(path string) bool {
	if w.config.ConfigFile != "" && filepath.Clean(path) == filepath.Clean(w.config.ConfigFile) {
		return true
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Run блокируется до отмены ctx, вызывая onChange после каждой серии
// изменений. Ошибка onChange логируется и не останавливает наблюдение.
func (w *Watcher) Run(ctx context.Context, onChange func(ctx context.Context) error) error {
	timer := time.NewTimer(w.config.Debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !w.skipped(event.Name) {
					if err := w.addRecursive(event.Name); err != nil {
						w.logger.Warn("Failed to watch new directory", "path", event.Name, "error", err)
					}
				}
			}
			if !w.Relevant(event.Name) {
				continue
			}
			w.logger.Debug("File changed", "path", event.Name, "op", event.Op.String())
			if !pending {
				pending = true
				timer.Reset(w.config.Debounce)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("Watcher error", "error", err)

		case <-timer.C:
			pending = false
			if err := onChange(ctx); err != nil {
				w.logger.Error("Rebuild failed", "error", err)
			}
		}
	}
}
