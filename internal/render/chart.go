package render

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/vicanso/go-charts/v2"

	"CornTicker/internal/model"
)

// ChartRenderer writes the price window as a PNG line chart.
type ChartRenderer struct {
	Path   string
	Title  string
	Width  int
	Height int
	log    zerolog.Logger
}

// NewChartRenderer creates a renderer writing to path.
func NewChartRenderer(path, title string, width, height int, logger zerolog.Logger) *ChartRenderer {
	return &ChartRenderer{Path: path, Title: title, Width: width, Height: height, log: logger}
}

// Render draws prices scaled to [lo, hi]. Labels come from the tail of
// recent, aligned with the newest prices.
func (r *ChartRenderer) Render(prices []float64, lo, hi float64, recent []model.PriceObservation) error {
	if len(prices) < 2 {
		r.log.Debug().Int("points", len(prices)).Msg("not enough points to draw")
		return nil
	}

	img, err := r.draw(prices, lo, hi, axisLabels(len(prices), recent))
	if err != nil {
		return err
	}
	return writeAtomic(r.Path, img)
}

func (r *ChartRenderer) draw(prices []float64, lo, hi float64, labels []string) ([]byte, error) {
	yMin, yMax := lo, hi
	painter, err := charts.LineRender([][]float64{prices},
		charts.PNGTypeOption(),
		charts.WidthOptionFunc(r.Width),
		charts.HeightOptionFunc(r.Height),
		charts.TitleTextOptionFunc(r.Title),
		charts.XAxisOptionFunc(charts.XAxisOption{Data: labels, BoundaryGap: charts.FalseFlag(), SplitNumber: 6}),
		charts.YAxisOptionFunc(charts.YAxisOption{Min: &yMin, Max: &yMax, DivideCount: 5}),
		charts.ThemeOptionFunc(charts.ThemeDark),
	)
	if err != nil {
		return nil, fmt.Errorf("render line chart: %w", err)
	}
	img, err := painter.Bytes()
	if err != nil {
		return nil, fmt.Errorf("encode chart: %w", err)
	}
	return img, nil
}

// axisLabels returns n labels, HH:MM of the newest observations, left-padded
// with blanks when fewer observations are stored than prices buffered.
func axisLabels(n int, recent []model.PriceObservation) []string {
	labels := make([]string, n)
	if len(recent) > n {
		recent = recent[len(recent)-n:]
	}
	offset := n - len(recent)
	for i, obs := range recent {
		labels[offset+i] = obs.Time.Format("15:04")
	}
	return labels
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".chart-*.png")
	if err != nil {
		return fmt.Errorf("create temp chart: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write chart: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close chart: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace chart: %w", err)
	}
	return nil
}
