package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	textUtils "github.com/shouni/go-utils/text"

	"github.com/shouni/go-paper-scraper/pkg/httpclient"
	"github.com/shouni/go-paper-scraper/pkg/types"
)

// Extractor は、Fetcher と Schema を使ってページ送りと抽出のループを管理します。
type Extractor struct {
	fetcher Fetcher
	schema  Schema
	logger  *slog.Logger
}

// NewExtractor は、新しいExtractorのインスタンスを生成します。
// logger が nil の場合、ログは破棄されます。
func NewExtractor(fetcher Fetcher, schema Schema, logger *slog.Logger) (*Extractor, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("extract.NewExtractor: Fetcher cannot be nil")
	}
	if schema == nil {
		return nil, fmt.Errorf("extract.NewExtractor: Schema cannot be nil")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Extractor{
		fetcher: fetcher,
		schema:  schema,
		logger:  logger.With("source", schema.Source().String()),
	}, nil
}

// Source は、この Extractor の取得元を返します。
func (e *Extractor) Source() types.Source {
	return e.schema.Source()
}

// Extract は query の検索結果を先頭から pages ページ分取得し、レコードを返します。
// ページの取得に失敗した時点でループを打ち切り、それまでに集めたレコードだけを返します。
// 失敗はログに記録されるのみで、呼び出し元にエラーとして伝播しません。
func (e *Extractor) Extract(ctx context.Context, query string, pages int) types.Collection {
	e.logger.Info("記事のスクレイピングを開始します", "query", query, "pages", pages)

	var articles types.Collection
	for page := 0; page < pages; page++ {
		url := e.schema.PageURL(query, page)
		e.logger.Debug("ページを取得します", "url", url)

		doc, err := e.fetcher.FetchDocument(ctx, url)
		if err != nil {
			e.logFetchFailure(page, url, err)
			break
		}
		e.logger.Debug("ページの取得に成功しました", "page", page+1)

		found := e.schema.Parse(doc)
		for _, a := range found {
			articles = append(articles, a)
			e.logger.Debug("記事を抽出しました", "title", a.Title, "date", a.Date)
		}
		e.logger.Info("ページのスクレイピングが完了しました", "page", page+1, "articles", len(found))
	}

	e.logger.Info("記事のスクレイピングが完了しました", "articles", len(articles))
	return articles
}

func (e *Extractor) logFetchFailure(page int, url string, err error) {
	attrs := []any{"page", page + 1, "url", url}
	var statusErr *httpclient.StatusError
	if errors.As(err, &statusErr) {
		attrs = append(attrs, "status", statusErr.StatusCode)
	}
	attrs = append(attrs, "error", err)
	e.logger.Error("ページの取得に失敗したため、残りのページを中断します", attrs...)
}

// ----------------------------------------------------------------------
// フィールド抽出のヘルパー
// ----------------------------------------------------------------------

// fieldText は、selector に最初に一致した要素のテキストを整形して返します。
// 一致する要素がないかテキストが空の場合は placeholder を返します。
func fieldText(s *goquery.Selection, selector, placeholder string) string {
	found := s.Find(selector).First()
	if found.Length() == 0 {
		return placeholder
	}
	text := textUtils.NormalizeText(found.Text())
	if text == "" {
		return placeholder
	}
	return text
}

var (
	yearPattern        = regexp.MustCompile(`\d{4}`)
	boundedYearPattern = regexp.MustCompile(`\b\d{4}\b`)
)

// ExtractYear は raw に含まれる最初の4桁の数字列を返します。見つからない場合は NoDate です。
func ExtractYear(raw string) string {
	return firstMatch(yearPattern, raw)
}

// extractBoundedYear は単語境界で区切られた最初の4桁の数字列を返します。
func extractBoundedYear(raw string) string {
	return firstMatch(boundedYearPattern, raw)
}

func firstMatch(re *regexp.Regexp, raw string) string {
	if m := re.FindString(strings.TrimSpace(raw)); m != "" {
		return m
	}
	return types.NoDate
}
