package extract

import (
	"context"

	"github.com/PuerkitoBio/goquery"

	"github.com/shouni/go-paper-scraper/pkg/types"
)

// ----------------------------------------------------------------------
// 依存性の定義 (DIP)
// ----------------------------------------------------------------------

// Fetcher は、1ページ分のHTMLドキュメントを取得する機能のインターフェースを定義します。
// Extractor は、この抽象に依存します。
type Fetcher interface {
	FetchDocument(ctx context.Context, url string) (*goquery.Document, error)
}

// Schema は、取得元ごとのURL組み立てと検索結果ブロックの解析を定義します。
type Schema interface {
	Source() types.Source
	// PageURL は 0 始まりのページ番号からページURLを組み立てます。
	PageURL(query string, page int) string
	// Parse はページ内の検索結果ブロックごとに1件のレコードを返します。
	Parse(doc *goquery.Document) []types.Article
}
