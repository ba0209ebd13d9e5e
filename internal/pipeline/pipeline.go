package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/shouni/go-paper-scraper/pkg/export"
	"github.com/shouni/go-paper-scraper/pkg/extract"
	"github.com/shouni/go-paper-scraper/pkg/scraper"
	"github.com/shouni/go-paper-scraper/pkg/types"
)

// Exporter は、集約したレコードをファイルに書き出す機能のインターフェースです。
type Exporter interface {
	Export(records types.Collection, path string) error
}

// Options は、1回のスクレイピングとエクスポートの入力です。
type Options struct {
	Query     string
	Pages     int
	Selection types.Selection
	OutputDir string // 空の場合はカレントディレクトリ
}

// Result は、実行結果の概要です。
type Result struct {
	Path     string
	Articles int
}

// Runner は、集約からエクスポートまでの処理パイプラインです。
type Runner struct {
	scraper  scraper.Scraper
	exporter Exporter
	logger   *slog.Logger
}

// NewRunner は、依存性を注入して Runner を生成します。
func NewRunner(s scraper.Scraper, e Exporter, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Runner{scraper: s, exporter: e, logger: logger}
}

// New は、fetcher を共有する Google Scholar と PubMed の Extractor、および xlsx Exporter で Runner を組み立てます。
func New(fetcher extract.Fetcher, logger *slog.Logger) (*Runner, error) {
	scholar, err := extract.NewExtractor(fetcher, extract.NewScholar(), logger)
	if err != nil {
		return nil, fmt.Errorf("Extractorの初期化エラー: %w", err)
	}
	pubmed, err := extract.NewExtractor(fetcher, extract.NewPubMed(), logger)
	if err != nil {
		return nil, fmt.Errorf("Extractorの初期化エラー: %w", err)
	}
	return NewRunner(
		scraper.NewSequentialScraper(logger, scholar, pubmed),
		export.NewExporter(nil, logger),
		logger,
	), nil
}

// OutputPath は、選択されたソースに応じた既定のファイル名を dir に連結します。
func OutputPath(dir string, sel types.Selection) string {
	name := sel.FileStem() + ".xlsx"
	if dir == "" {
		return name
	}
	return filepath.Join(dir, name)
}

// Run は、レコードを集約して xlsx に書き出します。
// ページ取得の失敗は途中までの結果で続行し、エラーになるのは書き出しに失敗した場合です。
func (r *Runner) Run(ctx context.Context, opts Options) (Result, error) {
	records, err := r.scraper.Aggregate(ctx, opts.Selection, opts.Query, opts.Pages)
	if err != nil {
		return Result{}, fmt.Errorf("レコードの集約に失敗しました: %w", err)
	}

	path := OutputPath(opts.OutputDir, opts.Selection)
	if err := r.exporter.Export(records, path); err != nil {
		return Result{}, fmt.Errorf("Excelファイルへの保存に失敗しました: %w", err)
	}

	r.logger.Info("記事のスクレイピングと保存が完了しました", "path", path, "articles", len(records))
	return Result{Path: path, Articles: len(records)}, nil
}
