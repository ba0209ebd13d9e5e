package export

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/shouni/go-paper-scraper/pkg/chart"
	"github.com/shouni/go-paper-scraper/pkg/summary"
	"github.com/shouni/go-paper-scraper/pkg/types"
)

type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) Bar(l chart.Labels, counts []summary.Count) ([]byte, error) {
	args := m.Called(l.Title, counts)
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockRenderer) Line(l chart.Labels, counts []summary.Count) ([]byte, error) {
	args := m.Called(l.Title, counts)
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockRenderer) Scatter(l chart.Labels, points []summary.Point) ([]byte, error) {
	args := m.Called(l.Title, points)
	return args.Get(0).([]byte), args.Error(1)
}

func combinedRecords() types.Collection {
	return types.Collection{
		{Source: types.SourceScholar, Title: "Graph networks", Authors: "P Battaglia, J Hamrick - arXiv, 2018 - arxiv.org", Date: "2018", Link: "https://arxiv.org/1"},
		{Source: types.SourceScholar, Title: "Undated", Authors: "J Doe - Workshop", Date: types.NoDate, Link: types.NoLink},
		{Source: types.SourcePubMed, Title: "CRISPR screens", Author: "Doe J, Smith A.", Journal: "Nat Rev Cancer. 2019", Date: "2019", Link: "https://pubmed.ncbi.nlm.nih.gov/1/"},
	}
}

func openWorkbook(t *testing.T, path string) *excelize.File {
	t.Helper()
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestExport_Combined(t *testing.T) {
	path := filepath.Join(t.TempDir(), "combined_articles.xlsx")
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	err := NewExporter(chart.NewRenderer(), logger).Export(combinedRecords(), path)
	require.NoError(t, err)

	f := openWorkbook(t, path)
	assert.Equal(t, []string{
		SheetArticles, SheetYearly, SheetJournals, SheetAuthors, SheetDistribution, SheetComplexity,
	}, f.GetSheetList())

	rows, err := f.GetRows(SheetArticles)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Title", "Authors", "Date", "Link", "Author", "Journal"}, rows[0])
	assert.Equal(t, []string{"Graph networks", "P Battaglia, J Hamrick - arXiv, 2018 - arxiv.org", "2018", "https://arxiv.org/1"}, rows[1])
	// 年が欠損した行も表には残る
	assert.Equal(t, "Undated", rows[2][0])
	assert.Equal(t, types.NoDate, rows[2][2])
	// PubMed の行は Authors 列が空
	assert.Equal(t, []string{"CRISPR screens", "", "2019", "https://pubmed.ncbi.nlm.nih.gov/1/", "Doe J, Smith A.", "Nat Rev Cancer. 2019"}, rows[3])

	for _, sheet := range f.GetSheetList()[1:] {
		pics, err := f.GetPictures(sheet, "A1")
		require.NoError(t, err)
		assert.Len(t, pics, 1, sheet)
	}

	assert.Contains(t, logs.String(), "level=INFO msg=Excelファイルへの保存が完了しました")
	assert.NotContains(t, logs.String(), "level=WARN")
}

func TestExport_NoUsableDates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ncbi_articles.xlsx")
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	renderer := new(MockRenderer)

	records := types.Collection{
		{Source: types.SourcePubMed, Title: "A", Author: "X", Journal: "J", Date: types.NoDate, Link: "l"},
		{Source: types.SourcePubMed, Title: "B", Author: "Y", Journal: "J", Date: types.NoDate, Link: "l"},
	}
	require.NoError(t, NewExporter(renderer, logger).Export(records, path))

	f := openWorkbook(t, path)
	assert.Equal(t, []string{SheetArticles}, f.GetSheetList())
	rows, err := f.GetRows(SheetArticles)
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	renderer.AssertNotCalled(t, "Bar", mock.Anything, mock.Anything)
	assert.Contains(t, logs.String(), "level=WARN")
}

func TestExport_ConditionalCharts(t *testing.T) {
	t.Run("pubmed only skips authors chart", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ncbi_articles.xlsx")
		records := types.Collection{
			{Source: types.SourcePubMed, Title: "t1", Author: "Doe J", Journal: "J1", Date: "2020", Link: "l"},
			{Source: types.SourcePubMed, Title: "t2", Author: "Lee K", Journal: "J2", Date: "2021", Link: "l"},
		}
		require.NoError(t, NewExporter(nil, nil).Export(records, path))

		f := openWorkbook(t, path)
		assert.Equal(t, []string{SheetArticles, SheetYearly, SheetJournals, SheetDistribution, SheetComplexity}, f.GetSheetList())
	})

	t.Run("scholar only skips journals chart", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "google_scholar_articles.xlsx")
		records := types.Collection{
			{Source: types.SourceScholar, Title: "t1", Authors: "A, B", Date: "2020", Link: "l"},
			{Source: types.SourceScholar, Title: "t2", Authors: "A", Date: "2021", Link: "l"},
		}
		require.NoError(t, NewExporter(nil, nil).Export(records, path))

		f := openWorkbook(t, path)
		assert.Equal(t, []string{SheetArticles, SheetYearly, SheetAuthors, SheetDistribution, SheetComplexity}, f.GetSheetList())
	})
}

func TestExport_OutputPathInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "missing", "out.xlsx")

	err := NewExporter(nil, nil).Export(combinedRecords(), path)
	assert.Error(t, err)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestExport_RenderFailureLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.xlsx")
	renderer := new(MockRenderer)
	renderer.On("Bar", mock.Anything, mock.Anything).Return([]byte(nil), errors.New("boom"))

	err := NewExporter(renderer, nil).Export(combinedRecords(), path)
	assert.ErrorContains(t, err, "boom")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExport_EmptyCollection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	require.NoError(t, NewExporter(nil, nil).Export(nil, path))

	f := openWorkbook(t, path)
	assert.Equal(t, []string{SheetArticles}, f.GetSheetList())
}
