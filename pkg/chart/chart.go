package chart

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/shouni/go-paper-scraper/pkg/summary"
)

const (
	// DefaultWidth と DefaultHeight は、1枚のグラフ画像の大きさです (10x6 インチ)。
	DefaultWidth  = 10 * vg.Inch
	DefaultHeight = 6 * vg.Inch

	barWidth = 20 // ポイント
)

var (
	barColor     = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	scatterColor = color.RGBA{R: 31, G: 119, B: 180, A: 128}
)

// Renderer は、集計結果を PNG 画像に描画します。
type Renderer struct {
	width  vg.Length
	height vg.Length
}

// NewRenderer は既定サイズの Renderer を返します。
func NewRenderer() *Renderer {
	return &Renderer{width: DefaultWidth, height: DefaultHeight}
}

// Labels は、グラフのタイトルと軸ラベルです。
type Labels struct {
	Title string
	X     string
	Y     string
}

func (r *Renderer) newPlot(l Labels) *plot.Plot {
	p := plot.New()
	p.Title.Text = l.Title
	p.X.Label.Text = l.X
	p.Y.Label.Text = l.Y
	return p
}

// Bar は、カテゴリごとの件数を棒グラフとして描画します。
func (r *Renderer) Bar(l Labels, counts []summary.Count) ([]byte, error) {
	if len(counts) == 0 {
		return nil, fmt.Errorf("棒グラフ %q に描画するデータがありません", l.Title)
	}
	values := make(plotter.Values, len(counts))
	names := make([]string, len(counts))
	for i, c := range counts {
		values[i] = float64(c.Value)
		names[i] = c.Label
	}

	p := r.newPlot(l)
	bars, err := plotter.NewBarChart(values, vg.Points(barWidth))
	if err != nil {
		return nil, fmt.Errorf("棒グラフの作成に失敗しました: %w", err)
	}
	bars.Color = barColor
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalX(names...)

	// 誌名や著者名は長いため、目盛りラベルを斜めにする
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter

	return r.encode(p)
}

// Line は、年ごとの件数を折れ線グラフとして描画します。
func (r *Renderer) Line(l Labels, counts []summary.Count) ([]byte, error) {
	if len(counts) == 0 {
		return nil, fmt.Errorf("折れ線グラフ %q に描画するデータがありません", l.Title)
	}
	xys := make(plotter.XYs, len(counts))
	for i, c := range counts {
		x, err := strconv.ParseFloat(c.Label, 64)
		if err != nil {
			x = float64(i)
		}
		xys[i].X = x
		xys[i].Y = float64(c.Value)
	}

	p := r.newPlot(l)
	line, err := plotter.NewLine(xys)
	if err != nil {
		return nil, fmt.Errorf("折れ線グラフの作成に失敗しました: %w", err)
	}
	line.LineStyle.Color = barColor
	line.LineStyle.Width = vg.Points(1.5)
	p.Add(line)

	return r.encode(p)
}

// Scatter は、発行年とタイトル長の散布図を描画します。
func (r *Renderer) Scatter(l Labels, points []summary.Point) ([]byte, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("散布図 %q に描画するデータがありません", l.Title)
	}
	xys := make(plotter.XYs, len(points))
	for i, pt := range points {
		xys[i].X = float64(pt.Year)
		xys[i].Y = float64(pt.Length)
	}

	p := r.newPlot(l)
	scatter, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, fmt.Errorf("散布図の作成に失敗しました: %w", err)
	}
	scatter.GlyphStyle.Color = scatterColor
	scatter.GlyphStyle.Radius = vg.Points(3)
	scatter.GlyphStyle.Shape = draw.CircleGlyph{}
	p.Add(scatter)

	return r.encode(p)
}

func (r *Renderer) encode(p *plot.Plot) ([]byte, error) {
	w, err := p.WriterTo(r.width, r.height, "png")
	if err != nil {
		return nil, fmt.Errorf("PNGライターの作成に失敗しました: %w", err)
	}
	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("PNGへの書き出しに失敗しました: %w", err)
	}
	return buf.Bytes(), nil
}
