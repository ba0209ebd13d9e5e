package types

import (
	"fmt"
	"strings"
)

// フィールドが見つからなかった場合に代入するプレースホルダー文字列
const (
	NoTitle   = "No Title Found"
	NoAuthor  = "No Author Found"
	NoJournal = "No Journal Found"
	NoDate    = "No Date Found"
	NoLink    = "No Link Found"
)

// 表の列名
const (
	ColumnTitle   = "Title"
	ColumnAuthor  = "Author"
	ColumnAuthors = "Authors"
	ColumnJournal = "Journal"
	ColumnDate    = "Date"
	ColumnLink    = "Link"
)

// Source は、書誌情報の取得元を表します。
type Source int

const (
	SourceScholar Source = iota // Google Scholar
	SourcePubMed                // NCBI PubMed
	SourceFeed                  // RSS/Atom フィード
)

func (s Source) String() string {
	switch s {
	case SourceScholar:
		return "Google Scholar"
	case SourcePubMed:
		return "NCBI"
	case SourceFeed:
		return "Feed"
	default:
		return fmt.Sprintf("Source(%d)", int(s))
	}
}

// Selection は、スクレイピング対象として選択されたソースの組み合わせです。
type Selection int

const (
	SelectScholar Selection = iota
	SelectPubMed
	SelectBoth
)

// ParseSelection は、フラグや設定ファイルの文字列を Selection に変換します。
func ParseSelection(s string) (Selection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "scholar", "google scholar", "google-scholar":
		return SelectScholar, nil
	case "pubmed", "ncbi":
		return SelectPubMed, nil
	case "both", "all":
		return SelectBoth, nil
	}
	return 0, fmt.Errorf("不明なソースです: %q (scholar, pubmed, both のいずれかを指定してください)", s)
}

func (s Selection) String() string {
	switch s {
	case SelectScholar:
		return "scholar"
	case SelectPubMed:
		return "pubmed"
	case SelectBoth:
		return "both"
	default:
		return fmt.Sprintf("Selection(%d)", int(s))
	}
}

// Sources は、実行順に並べたソースの一覧を返します。Both の場合は Scholar が先です。
func (s Selection) Sources() []Source {
	switch s {
	case SelectScholar:
		return []Source{SourceScholar}
	case SelectPubMed:
		return []Source{SourcePubMed}
	case SelectBoth:
		return []Source{SourceScholar, SourcePubMed}
	default:
		return nil
	}
}

// FileStem は、出力ファイル名の既定の語幹を返します。
func (s Selection) FileStem() string {
	switch s {
	case SelectPubMed:
		return "ncbi_articles"
	case SelectBoth:
		return "combined_articles"
	default:
		return "google_scholar_articles"
	}
}

// Article は、1件の検索結果から抽出した書誌レコードです。
// どの列を持つかは Source によって決まり、持たない列は空文字列のままです。
type Article struct {
	Source  Source
	Title   string
	Author  string // PubMed: 著者 (単数列)
	Authors string // Scholar: 著者・誌名・年を含むカンマ区切りの一行
	Journal string
	Date    string // 4桁の年 または NoDate
	Link    string
}

// Columns は、このレコードが持つ列を表の列順で返します。
func (a Article) Columns() []string {
	if a.Source == SourcePubMed {
		return []string{ColumnTitle, ColumnAuthor, ColumnJournal, ColumnDate, ColumnLink}
	}
	return []string{ColumnTitle, ColumnAuthors, ColumnDate, ColumnLink}
}

// Field は、列名に対応する値と、このレコードがその列を持つかどうかを返します。
func (a Article) Field(column string) (string, bool) {
	for _, c := range a.Columns() {
		if c != column {
			continue
		}
		switch column {
		case ColumnTitle:
			return a.Title, true
		case ColumnAuthor:
			return a.Author, true
		case ColumnAuthors:
			return a.Authors, true
		case ColumnJournal:
			return a.Journal, true
		case ColumnDate:
			return a.Date, true
		case ColumnLink:
			return a.Link, true
		}
	}
	return "", false
}

// Collection は、スクレイピング順に並んだレコードの列です。重複は除去しません。
type Collection []Article

// Columns は、全レコードの列の和集合を初出順で返します。
func (c Collection) Columns() []string {
	var cols []string
	seen := make(map[string]bool)
	for _, a := range c {
		for _, col := range a.Columns() {
			if !seen[col] {
				seen[col] = true
				cols = append(cols, col)
			}
		}
	}
	return cols
}

// HasColumn は、いずれかのレコードが指定の列を持つかどうかを返します。
func (c Collection) HasColumn(column string) bool {
	for _, a := range c {
		if _, ok := a.Field(column); ok {
			return true
		}
	}
	return false
}
