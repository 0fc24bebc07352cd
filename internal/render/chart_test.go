package render

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"CornTicker/internal/model"
)

func TestAxisLabels_AlignsNewest(t *testing.T) {
	base := time.Date(2025, 10, 15, 9, 0, 0, 0, time.Local)
	recent := []model.PriceObservation{
		{Time: base, Price: 1},
		{Time: base.Add(time.Minute), Price: 2},
	}

	got := axisLabels(4, recent)
	want := []string{"", "", "09:00", "09:01"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("label %d: expected %q, got %q", i, want[i], got[i])
		}
	}

	got = axisLabels(1, recent)
	if len(got) != 1 || got[0] != "09:01" {
		t.Errorf("expected only the newest label, got %v", got)
	}
}

func TestRender_WritesPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chart.png")
	r := NewChartRenderer(path, "Corn Futures (/ZCZ25)", 800, 600, zerolog.Nop())

	base := time.Date(2025, 10, 15, 9, 0, 0, 0, time.Local)
	prices := []float64{421.25, 422.5, 420.75}
	recent := make([]model.PriceObservation, len(prices))
	for i, p := range prices {
		recent[i] = model.PriceObservation{Time: base.Add(time.Duration(i) * time.Minute), Price: p}
	}

	if err := r.Render(prices, 400, 500, recent); err != nil {
		t.Fatalf("render: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read chart: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Error("expected PNG output")
	}
}

func TestRender_SkipsSinglePoint(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chart.png")
	r := NewChartRenderer(path, "t", 800, 600, zerolog.Nop())
	if err := r.Render([]float64{420}, 400, 500, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("no chart should be written for a single point")
	}
}
