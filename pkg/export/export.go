package export

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mattn/go-runewidth"
	"github.com/xuri/excelize/v2"

	"github.com/shouni/go-paper-scraper/pkg/chart"
	"github.com/shouni/go-paper-scraper/pkg/summary"
	"github.com/shouni/go-paper-scraper/pkg/types"
)

// シート名
const (
	SheetArticles     = "Articles"
	SheetYearly       = "Yearly Frequency"
	SheetJournals     = "Top Journals"
	SheetAuthors      = "Top Authors"
	SheetDistribution = "Article Distribution Over Time"
	SheetComplexity   = "Article Complexity Over Time"

	defaultSheet = "Sheet1"

	minColumnWidth = 8
	maxColumnWidth = 80
)

// ChartRenderer は、集計結果を PNG に描画する機能のインターフェースです。
// *chart.Renderer がこれを満たします。
type ChartRenderer interface {
	Bar(l chart.Labels, counts []summary.Count) ([]byte, error)
	Line(l chart.Labels, counts []summary.Count) ([]byte, error)
	Scatter(l chart.Labels, points []summary.Point) ([]byte, error)
}

// Exporter は、レコードの表と集計グラフを xlsx ファイルに書き出します。
type Exporter struct {
	renderer ChartRenderer
	logger   *slog.Logger
}

// NewExporter は Exporter を初期化します。renderer が nil の場合は chart.NewRenderer() を使います。
func NewExporter(renderer ChartRenderer, logger *slog.Logger) *Exporter {
	if renderer == nil {
		renderer = chart.NewRenderer()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Exporter{renderer: renderer, logger: logger}
}

// Export は records を path に書き出します。
// 先頭シートにレコードの表を、有効な年がある場合は続くシートにグラフ画像を1枚ずつ配置します。
// 書き込みは同じディレクトリの一時ファイルを経由するため、失敗時に path へ中途半端なファイルは残りません。
func (e *Exporter) Export(records types.Collection, path string) error {
	e.logger.Info("記事をExcelファイルに保存します", "path", path, "articles", len(records))

	f := excelize.NewFile()
	defer f.Close()

	if err := writeArticles(f, records); err != nil {
		return err
	}

	if s, ok := summary.Build(records); ok {
		if err := e.writeCharts(f, s); err != nil {
			return err
		}
	} else {
		e.logger.Warn("グラフ作成に使える日付情報がないため、グラフを省略します")
	}

	if err := saveAtomic(f, path); err != nil {
		return err
	}
	e.logger.Info("Excelファイルへの保存が完了しました", "path", path)
	return nil
}

// writeArticles は、Articles シートにヘッダー行とレコードを書き込みます。
// レコードが持たない列のセルは空のままです。
func writeArticles(f *excelize.File, records types.Collection) error {
	if err := f.SetSheetName(defaultSheet, SheetArticles); err != nil {
		return fmt.Errorf("シート名の設定に失敗しました: %w", err)
	}

	columns := records.Columns()
	widths := make([]int, len(columns))
	for i, col := range columns {
		if err := setCell(f, i+1, 1, col); err != nil {
			return err
		}
		widths[i] = runewidth.StringWidth(col)
	}

	for r, a := range records {
		for i, col := range columns {
			v, ok := a.Field(col)
			if !ok {
				continue
			}
			if err := setCell(f, i+1, r+2, v); err != nil {
				return err
			}
			widths[i] = max(widths[i], runewidth.StringWidth(v))
		}
	}

	for i, w := range widths {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("列名の変換に失敗しました: %w", err)
		}
		width := float64(min(max(w+2, minColumnWidth), maxColumnWidth))
		if err := f.SetColWidth(SheetArticles, name, name, width); err != nil {
			return fmt.Errorf("列幅の設定に失敗しました: %w", err)
		}
	}
	return nil
}

func setCell(f *excelize.File, col, row int, value string) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("セル座標の変換に失敗しました: %w", err)
	}
	if err := f.SetCellStr(SheetArticles, cell, value); err != nil {
		return fmt.Errorf("セル %s の書き込みに失敗しました: %w", cell, err)
	}
	return nil
}

// writeCharts は、集計ごとにグラフを描画し、個別のシートの A1 に画像として配置します。
// 誌名グラフは Journal 列、著者グラフは Authors 列がある場合のみ作成します。
func (e *Exporter) writeCharts(f *excelize.File, s summary.Summary) error {
	type chartSheet struct {
		name   string
		render func() ([]byte, error)
	}

	sheets := []chartSheet{{
		name: SheetYearly,
		render: func() ([]byte, error) {
			return e.renderer.Bar(chart.Labels{Title: "Frequency of Articles by Year", X: "Year", Y: "Number of Articles"}, s.Years)
		},
	}}
	if s.Journals != nil {
		sheets = append(sheets, chartSheet{
			name: SheetJournals,
			render: func() ([]byte, error) {
				return e.renderer.Bar(chart.Labels{Title: "Top 10 Journals by Number of Articles", X: "Journal", Y: "Number of Articles"}, s.Journals)
			},
		})
	}
	if s.Authors != nil {
		sheets = append(sheets, chartSheet{
			name: SheetAuthors,
			render: func() ([]byte, error) {
				return e.renderer.Bar(chart.Labels{Title: "Top 10 Authors by Number of Articles", X: "Author", Y: "Number of Articles"}, s.Authors)
			},
		})
	}
	sheets = append(sheets,
		chartSheet{
			name: SheetDistribution,
			render: func() ([]byte, error) {
				return e.renderer.Line(chart.Labels{Title: "Distribution of Articles Over Time", X: "Year", Y: "Number of Articles"}, s.Years)
			},
		},
		chartSheet{
			name: SheetComplexity,
			render: func() ([]byte, error) {
				return e.renderer.Scatter(chart.Labels{Title: "Article Complexity (Title Length) Over Time", X: "Publication Year", Y: "Title Length (as a proxy for complexity)"}, s.TitleLengths)
			},
		},
	)

	for _, cs := range sheets {
		img, err := cs.render()
		if err != nil {
			return fmt.Errorf("グラフ %q の描画に失敗しました: %w", cs.name, err)
		}
		if err := insertImage(f, cs.name, img); err != nil {
			return err
		}
		e.logger.Debug("グラフシートを追加しました", "sheet", cs.name)
	}
	return nil
}

func insertImage(f *excelize.File, sheet string, img []byte) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("シート %q の作成に失敗しました: %w", sheet, err)
	}
	pic := &excelize.Picture{
		Extension: ".png",
		File:      img,
		Format:    &excelize.GraphicOptions{AltText: sheet},
	}
	if err := f.AddPictureFromBytes(sheet, "A1", pic); err != nil {
		return fmt.Errorf("シート %q への画像の挿入に失敗しました: %w", sheet, err)
	}
	return nil
}

// saveAtomic は、path と同じディレクトリに一時ファイルを書き出してから置き換えます。
func saveAtomic(f *excelize.File, path string) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".articles-*.xlsx.tmp")
	if err != nil {
		return fmt.Errorf("出力先 %s に書き込めません: %w", dir, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = f.WriteTo(tmp); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("Excelデータの書き込みに失敗しました: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("一時ファイルのクローズに失敗しました: %w", err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("出力ファイル %s の作成に失敗しました: %w", path, err)
	}
	return nil
}
