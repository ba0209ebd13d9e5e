package feed

import (
	"strconv"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/shouni/go-paper-scraper/pkg/extract"
	"github.com/shouni/go-paper-scraper/pkg/types"
)

// ToCollection は、フィードの各アイテムを書誌レコードに変換します。
// 列構成は Google Scholar と同じ (Title, Authors, Date, Link) です。
func ToCollection(feed *gofeed.Feed) types.Collection {
	if feed == nil || len(feed.Items) == 0 {
		return types.Collection{}
	}

	articles := make(types.Collection, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		articles = append(articles, types.Article{
			Source:  types.SourceFeed,
			Title:   orPlaceholder(item.Title, types.NoTitle),
			Authors: orPlaceholder(authorNames(item), types.NoAuthor),
			Date:    itemYear(item),
			Link:    orPlaceholder(item.Link, types.NoLink),
		})
	}
	return articles
}

func authorNames(item *gofeed.Item) string {
	var names []string
	for _, p := range item.Authors {
		if p != nil && strings.TrimSpace(p.Name) != "" {
			names = append(names, strings.TrimSpace(p.Name))
		}
	}
	return strings.Join(names, ", ")
}

// itemYear は公開日 (なければ更新日) の年を返します。
// どちらも解析できない場合は生の日付文字列から4桁の数字列を探します。
func itemYear(item *gofeed.Item) string {
	switch {
	case item.PublishedParsed != nil:
		return strconv.Itoa(item.PublishedParsed.Year())
	case item.UpdatedParsed != nil:
		return strconv.Itoa(item.UpdatedParsed.Year())
	default:
		return extract.ExtractYear(item.Published + " " + item.Updated)
	}
}

func orPlaceholder(s, placeholder string) string {
	if s = strings.TrimSpace(s); s == "" {
		return placeholder
	}
	return s
}
