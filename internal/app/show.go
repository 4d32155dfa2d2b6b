package app

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vovanwin/zork/internal/toolchain"
)

// commandCacheFile файл с последней сгенерированной командой
const commandCacheFile = "commands.yaml"

// CommandRecord запись о сгенерированной команде
type CommandRecord struct {
	RunID       string   `yaml:"run_id" json:"run_id"`
	Compiler    string   `yaml:"compiler" json:"compiler"`
	GeneratedAt string   `yaml:"generated_at" json:"generated_at"`
	Command     []string `yaml:"command" json:"command"`
}

func writeCommandCache(p *Project, runID string, cmd toolchain.CommandVector) error {
	rec := CommandRecord{
		RunID:       runID,
		Compiler:    p.Config.Compiler.Kind.String(),
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Command:     cmd,
	}

	b, err := yaml.Marshal(rec)
	if err != nil {
		return fmt.Errorf("кодирование %s: %w", commandCacheFile, err)
	}

	path := CommandCachePath(p)
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("запись %s: %w", path, err)
	}
	return nil
}

// CommandCachePath путь к кэшу команд проекта
func CommandCachePath(p *Project) string {
	return filepath.Join(p.OutputDir(), "zork", "cache", commandCacheFile)
}

// ReadCommandCache читает последнюю записанную команду
func ReadCommandCache(p *Project) (*CommandRecord, error) {
	b, err := os.ReadFile(CommandCachePath(p))
	if err != nil {
		return nil, err
	}
	var rec CommandRecord
	if err := yaml.Unmarshal(b, &rec); err != nil {
		return nil, fmt.Errorf("декодирование %s: %w", commandCacheFile, err)
	}
	return &rec, nil
}

// ProjectView то, что печатает `zork show`
type ProjectView struct {
	Config       string                       `yaml:"config" json:"config"`
	Sections     map[string]map[string]string `yaml:"sections" json:"sections"`
	OutputDir    string                       `yaml:"output_dir" json:"output_dir"`
	Command      []string                     `yaml:"command,omitempty" json:"command,omitempty"`
	CommandError string                       `yaml:"command_error,omitempty" json:"command_error,omitempty"`
}

// Show печатает разобранную конфигурацию в формате yaml или json
func (a *App) Show(w io.Writer, format string) error {
	p, err := a.Load()
	if err != nil {
		return err
	}

	view := ProjectView{
		Config:    p.ConfigPath,
		Sections:  p.Config.Sections(),
		OutputDir: p.OutputDir(),
	}
	if cmd, err := a.Command(p); err != nil {
		view.CommandError = err.Error()
	} else {
		view.Command = cmd
	}

	switch format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(view)
	case "yaml", "":
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		defer func() { _ = encoder.Close() }()
		return encoder.Encode(view)
	default:
		return fmt.Errorf("неизвестный формат %q (допустимы: yaml, json)", format)
	}
}
