package extract

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/shouni/go-paper-scraper/pkg/types"
)

const (
	// ScholarBaseURL は、Google Scholar の検索エンドポイントです。
	ScholarBaseURL = "https://scholar.google.com/scholar"
	// ScholarPageSize は、1ページあたりの検索結果件数です (start パラメータの刻み幅)。
	ScholarPageSize = 10

	scholarResultSelector  = "div.gs_ri"
	scholarTitleSelector   = "h3.gs_rt"
	scholarAuthorsSelector = "div.gs_a"
)

// Scholar は、Google Scholar の検索結果ページのスキーマです。
type Scholar struct {
	BaseURL string
}

// NewScholar は、既定のエンドポイントを使う Scholar を返します。
func NewScholar() *Scholar {
	return &Scholar{BaseURL: ScholarBaseURL}
}

func (s *Scholar) Source() types.Source { return types.SourceScholar }

// PageURL は、start=page*10 のオフセットで検索ページのURLを組み立てます。
func (s *Scholar) PageURL(query string, page int) string {
	return fmt.Sprintf("%s?start=%d&q=%s&hl=en&as_sdt=0,5", s.BaseURL, page*ScholarPageSize, url.QueryEscape(query))
}

// Parse は div.gs_ri ブロックごとに Title, Authors, Date, Link を抽出します。
// Authors は著者・誌名・年を含む gs_a の行をそのまま保持します。
func (s *Scholar) Parse(doc *goquery.Document) []types.Article {
	var articles []types.Article
	doc.Find(scholarResultSelector).Each(func(i int, result *goquery.Selection) {
		authors := fieldText(result, scholarAuthorsSelector, types.NoAuthor)

		date := types.NoDate
		if authors != types.NoAuthor {
			date = extractBoundedYear(authors)
		}

		articles = append(articles, types.Article{
			Source:  types.SourceScholar,
			Title:   fieldText(result, scholarTitleSelector, types.NoTitle),
			Authors: authors,
			Date:    date,
			Link:    firstHref(result),
		})
	})
	return articles
}

// firstHref は、ブロック内で最初に現れる href 付きリンクを返します。
func firstHref(s *goquery.Selection) string {
	href, ok := s.Find("a[href]").First().Attr("href")
	href = strings.TrimSpace(href)
	if !ok || href == "" {
		return types.NoLink
	}
	return href
}
