package summary

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shouni/go-paper-scraper/pkg/types"
)

func TestYear(t *testing.T) {
	tests := []struct {
		date     string
		expected int
		ok       bool
	}{
		{"2019", 2019, true},
		{" 2021 ", 2021, true},
		{"2018-05-01", 2018, true},
		{"2017-11", 2017, true},
		{"Mar 2015", 2015, true},
		{"2012 Mar 4", 2012, true},
		{types.NoDate, 0, false},
		{"", 0, false},
		{"19", 0, false},
		{"2019abc", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			y, ok := Year(tt.date)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, y)
		})
	}
}

func TestYearCounts(t *testing.T) {
	c := types.Collection{
		{Date: "2020"}, {Date: "2018"}, {Date: types.NoDate}, {Date: "2020"}, {Date: "2019"},
	}
	assert.Equal(t, []Count{
		{Label: "2018", Value: 1},
		{Label: "2019", Value: 1},
		{Label: "2020", Value: 2},
	}, YearCounts(c))
}

func TestSplitAuthors(t *testing.T) {
	// セミコロンは区切りとして扱わない
	assert.Equal(t, []string{"Doe", "Jane; Smith", "John"}, SplitAuthors("Doe, Jane; Smith, John"))
	assert.Equal(t, []string{"A Vaswani", "N Shazeer - NeurIPS", "2017 - neurips.cc"}, SplitAuthors("A Vaswani, N Shazeer - NeurIPS, 2017 - neurips.cc"))
	assert.Equal(t, []string{"Solo"}, SplitAuthors("  Solo  "))
	assert.Empty(t, SplitAuthors(" , "))
}

func TestTopJournals(t *testing.T) {
	t.Run("25 records with 15 journals keeps top 10", func(t *testing.T) {
		var c types.Collection
		// J0..J4 は3件ずつ、J5..J14 は1件ずつ (5*3 + 10 = 25)
		for i := 0; i < 5; i++ {
			for k := 0; k < 3; k++ {
				c = append(c, types.Article{Source: types.SourcePubMed, Journal: fmt.Sprintf("J%d", i), Date: "2020"})
			}
		}
		for i := 5; i < 15; i++ {
			c = append(c, types.Article{Source: types.SourcePubMed, Journal: fmt.Sprintf("J%d", i), Date: "2020"})
		}
		assert.Len(t, c, 25)

		got := TopJournals(c, TopN)
		assert.Len(t, got, 10)
		for i := 0; i < 5; i++ {
			assert.Equal(t, Count{Label: fmt.Sprintf("J%d", i), Value: 3}, got[i])
		}
		// 同数は初出順
		for i := 5; i < 10; i++ {
			assert.Equal(t, Count{Label: fmt.Sprintf("J%d", i), Value: 1}, got[i])
		}
	})

	t.Run("ties broken by first encounter", func(t *testing.T) {
		c := types.Collection{
			{Source: types.SourcePubMed, Journal: "B"},
			{Source: types.SourcePubMed, Journal: "A"},
			{Source: types.SourcePubMed, Journal: "A"},
			{Source: types.SourcePubMed, Journal: "B"},
			{Source: types.SourcePubMed, Journal: "C"},
		}
		assert.Equal(t, []Count{{"B", 2}, {"A", 2}, {"C", 1}}, TopJournals(c, 10))
	})

	t.Run("scholar records have no journal column", func(t *testing.T) {
		c := types.Collection{{Source: types.SourceScholar, Journal: "ignored"}}
		assert.Empty(t, TopJournals(c, 10))
		assert.False(t, HasJournal(c))
	})
}

func TestTopAuthors(t *testing.T) {
	c := types.Collection{
		{Source: types.SourceScholar, Authors: "Doe, Smith"},
		{Source: types.SourceScholar, Authors: "Smith , Lee"},
		{Source: types.SourcePubMed, Author: "Doe J"},
	}
	assert.Equal(t, []Count{{"Smith", 2}, {"Doe", 1}, {"Lee", 1}}, TopAuthors(c, 10))
	assert.Equal(t, []Count{{"Smith", 2}}, TopAuthors(c, 1))
}

func TestTitleLengths(t *testing.T) {
	c := types.Collection{
		{Title: "abc", Date: "2001"},
		{Title: "深層学習", Date: "2002"},
		{Title: "skipped", Date: types.NoDate},
	}
	assert.Equal(t, []Point{{Year: 2001, Length: 3}, {Year: 2002, Length: 4}}, TitleLengths(c))
}

func TestBuild(t *testing.T) {
	t.Run("no usable dates", func(t *testing.T) {
		c := types.Collection{
			{Source: types.SourcePubMed, Journal: "J", Date: types.NoDate},
			{Source: types.SourceScholar, Authors: "A", Date: types.NoDate},
		}
		_, ok := Build(c)
		assert.False(t, ok)
	})

	t.Run("pubmed only has journals but no authors chart", func(t *testing.T) {
		c := types.Collection{{Source: types.SourcePubMed, Title: "t", Author: "Doe J", Journal: "J", Date: "2020"}}
		s, ok := Build(c)
		assert.True(t, ok)
		assert.Equal(t, []Count{{"J", 1}}, s.Journals)
		assert.Nil(t, s.Authors)
		assert.Len(t, s.TitleLengths, 1)
	})

	t.Run("scholar only has authors but no journals chart", func(t *testing.T) {
		c := types.Collection{{Source: types.SourceScholar, Title: "t", Authors: "A, B", Date: "2020"}}
		s, ok := Build(c)
		assert.True(t, ok)
		assert.Nil(t, s.Journals)
		assert.Equal(t, []Count{{"A", 1}, {"B", 1}}, s.Authors)
	})
}
