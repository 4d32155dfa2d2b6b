package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelevant(t *testing.T) {
	root := t.TempDir()
	w, err := New(Config{Root: root, ConfigFile: filepath.Join(root, "zork.conf")})
	require.NoError(t, err)
	defer w.Close()

	assert.True(t, w.Relevant(filepath.Join(root, "zork.conf")))
	assert.True(t, w.Relevant(filepath.Join(root, "src", "main.cpp")))
	assert.True(t, w.Relevant(filepath.Join(root, "src", "math.CPPM")))
	assert.False(t, w.Relevant(filepath.Join(root, "README.md")))
	assert.False(t, w.Relevant(filepath.Join(root, "out", "main.o")))
}

func TestRunTriggersOnChange(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "main.cpp")
	require.NoError(t, os.WriteFile(src, []byte("int main() {}"), 0o644))

	w, err := New(Config{Root: root, Debounce: 20 * time.Millisecond})
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	called := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(context.Context) error {
			select {
			case called <- struct{}{}:
			default:
			}
			return nil
		})
	}()

	// файл пишем несколько раз, пока watcher не заметит изменение
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-called:
			cancel()
			assert.ErrorIs(t, <-done, context.Canceled)
			return
		case <-ticker.C:
			require.NoError(t, os.WriteFile(src, []byte("int main() { return 0; }"), 0o644))
		case <-ctx.Done():
			t.Fatal("onChange не был вызван")
		}
	}
}

func TestRunIgnoresIrrelevantFiles(t *testing.T) {
	root := t.TempDir()

	w, err := New(Config{Root: root, Debounce: 10 * time.Millisecond})
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	calls := 0
	go func() {
		time.Sleep(20 * time.Millisecond)
		_ = os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o644)
	}()

	err = w.Run(ctx, func(context.Context) error {
		calls++
		return nil
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 0, calls)
}

func TestRunWatchesNewDirectories(t *testing.T) {
	root := t.TempDir()

	w, err := New(Config{Root: root, Debounce: 20 * time.Millisecond})
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	called := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(context.Context) error {
			select {
			case called <- struct{}{}:
			default:
			}
			return nil
		})
	}()

	// сначала только директория: её создание пересборку не вызывает
	nested := filepath.Join(root, "src", "core")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	src := filepath.Join(nested, "core.cpp")

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-called:
			cancel()
			assert.ErrorIs(t, <-done, context.Canceled)
			return
		case <-ticker.C:
			require.NoError(t, os.WriteFile(src, []byte("int f() { return 1; }"), 0o644))
		case <-ctx.Done():
			t.Fatal("изменение в новой директории не замечено")
		}
	}
}
