// Package summary は、書誌レコードから年・誌名・著者ごとの集計を作ります。
// 集計結果はグラフ描画のためだけに使われ、永続化されません。
package summary

import (
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shouni/go-paper-scraper/pkg/types"
)

// TopN は、誌名・著者のランキングで残す件数です。
const TopN = 10

// dateLayouts は、Date 列の解釈を試みるレイアウトです。
var dateLayouts = []string{
	"2006",
	"2006-01",
	"2006-01-02",
	"2006/01/02",
	"2006/1/2",
	"Jan 2006",
	"January 2006",
	"2006 Jan",
	"2006 Jan 2",
	"Jan 2, 2006",
	time.RFC3339,
}

// Count は、カテゴリとその件数の組です。
type Count struct {
	Label string
	Value int
}

// Point は、散布図の1点 (発行年とタイトル長) です。
type Point struct {
	Year   int
	Length int
}

// Year は Date 列の値を日付として解釈し、年を返します。
// 解釈できない値 (プレースホルダーを含む) は欠損として false を返します。
func Year(date string) (int, bool) {
	date = strings.TrimSpace(date)
	if date == "" {
		return 0, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, date); err == nil {
			return t.Year(), true
		}
	}
	return 0, false
}

// YearCounts は、年ごとの件数を年の昇順で返します。年が欠損したレコードは数えません。
func YearCounts(c types.Collection) []Count {
	counts := make(map[int]int)
	for _, a := range c {
		if y, ok := Year(a.Date); ok {
			counts[y]++
		}
	}
	years := make([]int, 0, len(counts))
	for y := range counts {
		years = append(years, y)
	}
	slices.Sort(years)

	out := make([]Count, 0, len(years))
	for _, y := range years {
		out = append(out, Count{Label: strconv.Itoa(y), Value: counts[y]})
	}
	return out
}

// HasJournal は、Journal 列が存在し、空でない値を1つ以上持つかを返します。
func HasJournal(c types.Collection) bool {
	return hasValue(c, types.ColumnJournal)
}

// HasAuthors は、Authors 列が存在し、空でない値を1つ以上持つかを返します。
func HasAuthors(c types.Collection) bool {
	return hasValue(c, types.ColumnAuthors)
}

func hasValue(c types.Collection, column string) bool {
	for _, a := range c {
		if v, ok := a.Field(column); ok && v != "" {
			return true
		}
	}
	return false
}

// TopJournals は、誌名ごとの件数の上位 n 件を返します。
// 同数の場合は先に現れた誌名が上位になります。
func TopJournals(c types.Collection, n int) []Count {
	var values []string
	for _, a := range c {
		if v, ok := a.Field(types.ColumnJournal); ok && v != "" {
			values = append(values, v)
		}
	}
	return top(values, n)
}

// TopAuthors は、Authors 列をカンマで分割した個々の著者名ごとの件数の上位 n 件を返します。
func TopAuthors(c types.Collection, n int) []Count {
	var values []string
	for _, a := range c {
		if v, ok := a.Field(types.ColumnAuthors); ok && v != "" {
			values = append(values, SplitAuthors(v)...)
		}
	}
	return top(values, n)
}

// SplitAuthors は、著者の連結文字列をカンマで分割し、前後の空白を除去します。
// セミコロンなど他の区切り文字は扱いません。空の要素は捨てます。
func SplitAuthors(s string) []string {
	var names []string
	for _, part := range strings.Split(s, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// top は出現回数を数え、降順 (同数は初出順) に並べた上位 n 件を返します。
func top(values []string, n int) []Count {
	index := make(map[string]int)
	var counts []Count
	for _, v := range values {
		if i, ok := index[v]; ok {
			counts[i].Value++
			continue
		}
		index[v] = len(counts)
		counts = append(counts, Count{Label: v, Value: 1})
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Value > counts[j].Value
	})
	if n >= 0 && len(counts) > n {
		counts = counts[:n]
	}
	return counts
}

// TitleLengths は、年が有効なレコードについてタイトルの文字数と年の組を返します。
func TitleLengths(c types.Collection) []Point {
	var points []Point
	for _, a := range c {
		if y, ok := Year(a.Date); ok {
			points = append(points, Point{Year: y, Length: utf8.RuneCountInString(a.Title)})
		}
	}
	return points
}

// Summary は、1回のエクスポートで描画するすべての集計です。
type Summary struct {
	Years        []Count
	Journals     []Count // HasJournal が false の場合は nil
	Authors      []Count // HasAuthors が false の場合は nil
	TitleLengths []Point
}

// Build はコレクション全体の集計を作ります。
// 有効な年を持つレコードが1件もない場合は false を返し、グラフは作成されません。
func Build(c types.Collection) (Summary, bool) {
	years := YearCounts(c)
	if len(years) == 0 {
		return Summary{}, false
	}
	s := Summary{
		Years:        years,
		TitleLengths: TitleLengths(c),
	}
	if HasJournal(c) {
		s.Journals = TopJournals(c, TopN)
	}
	if HasAuthors(c) {
		s.Authors = TopAuthors(c, TopN)
	}
	return s, true
}
