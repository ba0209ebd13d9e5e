package scraper

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/go-paper-scraper/pkg/types"
)

// SourceExtractor は、1つの取得元から検索結果を集める機能のインターフェースです。
// *extract.Extractor がこれを満たします。
type SourceExtractor interface {
	Source() types.Source
	Extract(ctx context.Context, query string, pages int) types.Collection
}

// Scraper は、選択されたソースのレコードを集約する機能を提供するインターフェースです。
type Scraper interface {
	Aggregate(ctx context.Context, sel types.Selection, query string, pages int) (types.Collection, error)
}

// SequentialScraper は、ソースを1つずつ順番に実行し、結果を連結します。
// 重複の除去やレコードの統合は行いません。
type SequentialScraper struct {
	extractors map[types.Source]SourceExtractor
	logger     *slog.Logger
}

// NewSequentialScraper は SequentialScraper を初期化します。
func NewSequentialScraper(logger *slog.Logger, extractors ...SourceExtractor) *SequentialScraper {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	m := make(map[types.Source]SourceExtractor, len(extractors))
	for _, e := range extractors {
		m[e.Source()] = e
	}
	return &SequentialScraper{extractors: m, logger: logger}
}

// Aggregate は sel.Sources() の順に各ソースを実行し、そのままの順序で連結したコレクションを返します。
// 個々のページ取得失敗はエラーになりません。エラーは未登録のソースが選択された場合のみです。
func (s *SequentialScraper) Aggregate(ctx context.Context, sel types.Selection, query string, pages int) (types.Collection, error) {
	sources := sel.Sources()
	if len(sources) == 0 {
		return nil, fmt.Errorf("不明なソース選択です: %s", sel)
	}

	var all types.Collection
	for _, src := range sources {
		e, ok := s.extractors[src]
		if !ok {
			return nil, fmt.Errorf("ソース %s の Extractor が登録されていません", src)
		}
		all = append(all, e.Extract(ctx, query, pages)...)
	}

	s.logger.Info("レコードを集約しました", "selection", sel.String(), "articles", len(all))
	return all, nil
}
