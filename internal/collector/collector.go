package collector

import (
	"context"
	"fmt"
	"time"

	"CornTicker/internal/model"
)

// MockFetcher returns controllable prices for development and testing.
// Each call consumes the next entry of Prices/Errs; the last entry repeats.
type MockFetcher struct {
	Prices []float64
	Errs   []error
	Calls  int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchPrice(_ context.Context) (float64, error) {
	i := m.Calls
	m.Calls++
	if len(m.Errs) > 0 {
		if err := m.Errs[min(i, len(m.Errs)-1)]; err != nil {
			return 0, err
		}
	}
	if len(m.Prices) == 0 {
		return 0, ErrNoValidPrice
	}
	return m.Prices[min(i, len(m.Prices)-1)], nil
}

// Collector turns fetched prices into timestamped observations.
type Collector struct {
	Fetcher Fetcher
	Now     func() time.Time
}

// NewCollector creates a new Collector stamping observations with local time.
func NewCollector(fetcher Fetcher) *Collector {
	return &Collector{Fetcher: fetcher, Now: time.Now}
}

// Collect fetches the current price and stamps it, truncated to the second.
func (c *Collector) Collect(ctx context.Context) (model.PriceObservation, error) {
	price, err := c.Fetcher.FetchPrice(ctx)
	if err != nil {
		return model.PriceObservation{}, fmt.Errorf("%s: %w", c.Fetcher.Name(), err)
	}
	if !model.ValidPrice(price) {
		return model.PriceObservation{}, fmt.Errorf("%s: %w: %v", c.Fetcher.Name(), model.ErrInvalidPrice, price)
	}
	return model.PriceObservation{
		Time:  c.Now().Local().Truncate(time.Second),
		Price: price,
	}, nil
}
