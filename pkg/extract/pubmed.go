package extract

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/shouni/go-paper-scraper/pkg/types"
)

const (
	// PubMedBaseURL は、PubMed の検索エンドポイントです。記事リンクの基底URLも兼ねます。
	PubMedBaseURL = "https://pubmed.ncbi.nlm.nih.gov/"

	pubmedResultSelector  = "article.full-docsum"
	pubmedTitleSelector   = "a.docsum-title"
	pubmedAuthorSelector  = "span.docsum-authors.full-authors"
	pubmedJournalSelector = "span.docsum-journal-citation.full-journal-citation"
	pubmedDateSelector    = "span.docsum-journal-citation.short-journal-citation"
)

// PubMed は、NCBI PubMed の検索結果ページのスキーマです。
type PubMed struct {
	BaseURL string
}

// NewPubMed は、既定のエンドポイントを使う PubMed を返します。
func NewPubMed() *PubMed {
	return &PubMed{BaseURL: PubMedBaseURL}
}

func (p *PubMed) Source() types.Source { return types.SourcePubMed }

// PageURL は、1 始まりの page パラメータで検索ページのURLを組み立てます。
func (p *PubMed) PageURL(query string, page int) string {
	return fmt.Sprintf("%s?term=%s&page=%d", p.BaseURL, url.QueryEscape(query), page+1)
}

// Parse は article.full-docsum ブロックごとに Title, Author, Journal, Date, Link を抽出します。
func (p *PubMed) Parse(doc *goquery.Document) []types.Article {
	var articles []types.Article
	doc.Find(pubmedResultSelector).Each(func(i int, result *goquery.Selection) {
		articles = append(articles, types.Article{
			Source:  types.SourcePubMed,
			Title:   fieldText(result, pubmedTitleSelector, types.NoTitle),
			Author:  fieldText(result, pubmedAuthorSelector, types.NoAuthor),
			Journal: fieldText(result, pubmedJournalSelector, types.NoJournal),
			Date:    ExtractYear(fieldText(result, pubmedDateSelector, types.NoDate)),
			Link:    p.articleLink(result),
		})
	})
	return articles
}

// articleLink は、タイトルリンクの相対パスを基底URLに連結します。
func (p *PubMed) articleLink(result *goquery.Selection) string {
	href, ok := result.Find(pubmedTitleSelector).First().Attr("href")
	href = strings.TrimSpace(href)
	if !ok || href == "" {
		return types.NoLink
	}
	return strings.TrimSuffix(p.BaseURL, "/") + "/" + strings.TrimPrefix(href, "/")
}
