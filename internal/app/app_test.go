package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/vovanwin/zork/internal/generator"
	"github.com/vovanwin/zork/internal/report"
	"github.com/vovanwin/zork/internal/toolchain"
)

// fakeInvoker записывает команды вместо запуска процессов
type fakeInvoker struct {
	calls []toolchain.CommandVector
	dirs  []string
	code  int
	err   error
}

func (f *fakeInvoker) Run(_ context.Context, dir string, cmd toolchain.CommandVector) (int, error) {
	f.calls = append(f.calls, cmd)
	f.dirs = append(f.dirs, dir)
	return f.code, f.err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeProject(t *testing.T, conf string, files ...string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "zork.conf"), []byte(conf), 0o644))
	for _, f := range files {
		path := filepath.Join(dir, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("int main() {}"), 0o644))
	}
	return dir
}

const clangProject = `[#compiler]
cpp_compiler: clang
[#language]
cpp_standard: 20
[#executable]
executable_name: out
sources: main.cpp
`

func TestBuildClangProject(t *testing.T) {
	dir := writeProject(t, clangProject, "main.cpp")
	inv := &fakeInvoker{}

	a := New(Options{Dir: dir}, quietLogger()).WithInvoker(inv)
	code, err := a.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, code)

	require.Len(t, inv.calls, 1)
	assert.Equal(t, toolchain.CommandVector{"clang", "--std=c++20", "-stdlib=libc++", "-o", "out", "main.cpp"}, inv.calls[0])
	assert.Equal(t, dir, inv.dirs[0])

	for _, sub := range []string{
		"out/clang/modules/interfaces",
		"out/clang/modules/implementations",
		"out/zork/cache",
		"out/zork/intrinsics",
	} {
		info, err := os.Stat(filepath.Join(dir, filepath.FromSlash(sub)))
		require.NoError(t, err, sub)
		assert.True(t, info.IsDir(), sub)
	}

	for _, name := range []string{"std.h", "zork.modulemap"} {
		_, err := os.Stat(filepath.Join(dir, "out", "zork", "intrinsics", name))
		assert.NoError(t, err, name)
	}

	p, err := a.Load()
	require.NoError(t, err)
	rec, err := ReadCommandCache(p)
	require.NoError(t, err)
	assert.Equal(t, []string(inv.calls[0]), rec.Command)
	assert.Equal(t, "clang", rec.Compiler)
	assert.NotEmpty(t, rec.RunID)
}

func TestBuildExpandsGlobs(t *testing.T) {
	conf := `[#compiler]
cpp_compiler: clang
[#language]
cpp_standard: 17
[#build]
output_dir: build
[#executable]
executable_name: app
sources: main.cpp, src/*.cpp
`
	dir := writeProject(t, conf, "main.cpp", "src/b.cpp", "src/a.cpp")
	inv := &fakeInvoker{}

	_, err := New(Options{Dir: dir}, quietLogger()).WithInvoker(inv).Build(context.Background())
	require.NoError(t, err)

	require.Len(t, inv.calls, 1)
	assert.Equal(t, []string{"main.cpp", filepath.Join("src", "a.cpp"), filepath.Join("src", "b.cpp")}, []string(inv.calls[0][5:]))

	_, err = os.Stat(filepath.Join(dir, "build", "zork", "cache", "commands.yaml"))
	assert.NoError(t, err)
}

func TestBuildUnsupportedCompiler(t *testing.T) {
	dir := writeProject(t, "[#compiler]\ncpp_compiler: msvc\n[#language]\ncpp_standard: 20\n")
	inv := &fakeInvoker{}

	_, err := New(Options{Dir: dir}, quietLogger()).WithInvoker(inv).Build(context.Background())
	require.ErrorIs(t, err, toolchain.ErrUnsupportedCompiler)
	assert.Empty(t, inv.calls, "процесс не должен запускаться")
}

func TestBuildWithoutExecutable(t *testing.T) {
	dir := writeProject(t, "[#compiler]\ncpp_compiler: clang\n[#language]\ncpp_standard: 20\n")
	inv := &fakeInvoker{}

	_, err := New(Options{Dir: dir}, quietLogger()).WithInvoker(inv).Build(context.Background())
	require.ErrorIs(t, err, toolchain.ErrNoExecutable)
	assert.Empty(t, inv.calls, "компилятор без -o <имя> запускаться не должен")
}

func TestBuildRewritesCommandCache(t *testing.T) {
	dir := writeProject(t, clangProject, "main.cpp")
	inv := &fakeInvoker{}
	a := New(Options{Dir: dir}, quietLogger()).WithInvoker(inv)

	_, err := a.Build(context.Background())
	require.NoError(t, err)
	p, err := a.Load()
	require.NoError(t, err)
	first, err := ReadCommandCache(p)
	require.NoError(t, err)

	changed := clangProject[:len(clangProject)-len("main.cpp\n")] + "main.cpp, util.cpp\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "zork.conf"), []byte(changed), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "util.cpp"), nil, 0o644))

	_, err = a.Build(context.Background())
	require.NoError(t, err)
	second, err := ReadCommandCache(p)
	require.NoError(t, err)

	assert.NotEqual(t, first.RunID, second.RunID)
	assert.Equal(t, []string{"clang", "--std=c++20", "-stdlib=libc++", "-o", "out", "main.cpp", "util.cpp"}, second.Command)
}

func TestBuildValidationErrors(t *testing.T) {
	dir := writeProject(t, "[#compiler]\ncpp_compiler: clang\n[#compiler]\ncpp_compiler: gcc\n")
	inv := &fakeInvoker{}

	_, err := New(Options{Dir: dir}, quietLogger()).WithInvoker(inv).Build(context.Background())

	var errs report.Errors
	require.True(t, errors.As(err, &errs), "ожидался report.Errors, получено %v", err)
	assert.True(t, errs.Has(report.DuplicateAttribute))
	assert.True(t, errs.Has(report.MissingMandatorySection))
	assert.Empty(t, inv.calls)
}

func TestBuildCompilerFailure(t *testing.T) {
	dir := writeProject(t, clangProject, "main.cpp")
	inv := &fakeInvoker{code: 1, err: errors.New("exited with status 1")}

	code, err := New(Options{Dir: dir}, quietLogger()).WithInvoker(inv).Build(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, code)
}

func TestBuildDryRunDoesNotTouchDisk(t *testing.T) {
	dir := writeProject(t, clangProject, "main.cpp")
	inv := &fakeInvoker{}

	_, err := New(Options{Dir: dir, DryRun: true}, quietLogger()).WithInvoker(inv).Build(context.Background())
	require.NoError(t, err)
	require.Len(t, inv.calls, 1)

	_, err = os.Stat(filepath.Join(dir, "out"))
	assert.True(t, os.IsNotExist(err))
}

func TestLoadExplicitConfigPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte("[compiler]\ncpp_compiler = \"clang\"\n[language]\ncpp_standard = \"20\"\n"), 0o644))

	p, err := New(Options{ConfigPath: path}, quietLogger()).Load()
	require.NoError(t, err)
	assert.Equal(t, dir, p.Root)
	assert.Equal(t, filepath.Join(dir, "out"), p.OutputDir())
}

func TestShow(t *testing.T) {
	dir := writeProject(t, clangProject, "main.cpp")
	a := New(Options{Dir: dir}, quietLogger())

	var buf bytes.Buffer
	require.NoError(t, a.Show(&buf, "yaml"))

	var view ProjectView
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &view))
	assert.Equal(t, "clang", view.Sections["compiler"]["cpp_compiler"])
	assert.Equal(t, []string{"clang", "--std=c++20", "-stdlib=libc++", "-o", "out", "main.cpp"}, view.Command)

	buf.Reset()
	require.NoError(t, a.Show(&buf, "json"))
	var jsonView ProjectView
	require.NoError(t, json.Unmarshal(buf.Bytes(), &jsonView))
	assert.Equal(t, view.Sections, jsonView.Sections)

	assert.Error(t, a.Show(&buf, "xml"))
}

func TestShowUnsupportedCompiler(t *testing.T) {
	dir := writeProject(t, "[#compiler]\ncpp_compiler: gcc\n[#language]\ncpp_standard: 20\n")

	var buf bytes.Buffer
	require.NoError(t, New(Options{Dir: dir}, quietLogger()).Show(&buf, "json"))

	var view ProjectView
	require.NoError(t, json.Unmarshal(buf.Bytes(), &view))
	assert.Empty(t, view.Command)
	assert.NotEmpty(t, view.CommandError)
}

func TestNewProject(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "hello")
	inv := &fakeInvoker{}
	var out bytes.Buffer

	a := New(Options{Stdout: &out}, quietLogger()).WithInvoker(inv)
	opts := generator.DefaultOptions()
	opts.Git = true
	require.NoError(t, a.NewProject(context.Background(), dir, opts))

	require.Len(t, inv.calls, 1)
	assert.Equal(t, toolchain.CommandVector{"git", "init"}, inv.calls[0])
	assert.Equal(t, dir, inv.dirs[0])

	p, err := New(Options{Dir: dir}, quietLogger()).Check()
	require.NoError(t, err)
	assert.Equal(t, "hello", p.Config.Executable.Name)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("warn", "json", &buf)
	logger.Info("hidden")
	logger.Warn("shown", "key", "value")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, "value", entry["key"])
}
