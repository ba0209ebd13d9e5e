// Package config は、スクレイピングジョブの設定 (YAML ファイルとフラグ) を扱います。
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/shouni/go-paper-scraper/internal/logger"
	"github.com/shouni/go-paper-scraper/pkg/types"
)

// 設定の検証エラー
var (
	ErrEmptyQuery    = errors.New("query is required")
	ErrInvalidPages  = errors.New("pages must be a positive integer")
	ErrInvalidSource = errors.New("source must be one of: scholar, pubmed, both")
	ErrInvalidLevel  = errors.New("log_level must be one of: debug, info, warn, error")
)

// Job は、1回のスクレイピングとエクスポートの入力です。
type Job struct {
	Query    string `yaml:"query"`
	Pages    int    `yaml:"pages"`
	Source   string `yaml:"source"`
	Output   string `yaml:"output"`
	LogLevel string `yaml:"log_level"`
}

// Default は、フラグの既定値と同じ内容の Job を返します。
func Default() Job {
	return Job{
		Pages:    1,
		Source:   "scholar",
		LogLevel: "debug",
	}
}

// Load は YAML ファイルを読み込み、Default() の上に重ねた Job を返します。
func Load(path string) (Job, error) {
	job := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return job, fmt.Errorf("設定ファイルの読み込みに失敗しました: %w", err)
	}
	if err := yaml.Unmarshal(data, &job); err != nil {
		return job, fmt.Errorf("設定ファイルの解析に失敗しました (%s): %w", path, err)
	}
	return job, nil
}

// Selection は Source を types.Selection に変換します。
func (j Job) Selection() (types.Selection, error) {
	sel, err := types.ParseSelection(j.Source)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidSource, err)
	}
	return sel, nil
}

// Validate は Job の値を検証します。
func (j Job) Validate() error {
	if j.Query == "" {
		return ErrEmptyQuery
	}
	if j.Pages < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidPages, j.Pages)
	}
	if _, err := j.Selection(); err != nil {
		return err
	}
	if _, ok := logger.ParseLevel(j.LogLevel); !ok {
		return fmt.Errorf("%w: %q", ErrInvalidLevel, j.LogLevel)
	}
	return nil
}
