package series

// Display range constants for the price chart.
const (
	Capacity = 60

	Margin     = 10.0
	Floor      = 300.0
	Ceiling    = 600.0
	MinSpan    = 1.0
	InitialMin = 400.0
	InitialMax = 500.0
)

// Buffer is a fixed-capacity window of the most recent prices together with
// a display range that only ever widens.
type Buffer struct {
	prices   []float64
	capacity int
	min, max float64
}

// NewBuffer creates a Buffer with the default capacity and starting range.
func NewBuffer() *Buffer {
	return NewBufferWithRange(Capacity, InitialMin, InitialMax)
}

// NewBufferWithRange creates a Buffer with an explicit capacity and starting range.
func NewBufferWithRange(capacity int, lo, hi float64) *Buffer {
	if capacity <= 0 {
		capacity = Capacity
	}
	b := &Buffer{
		prices:   make([]float64, 0, capacity+1),
		capacity: capacity,
		min:      lo,
		max:      hi,
	}
	b.normalize()
	return b
}

// Push appends price and evicts the oldest entries past capacity.
func (b *Buffer) Push(price float64) {
	b.prices = append(b.prices, price)
	if over := len(b.prices) - b.capacity; over > 0 {
		// Shift in place so the backing array never grows.
		n := copy(b.prices, b.prices[over:])
		b.prices = b.prices[:n]
	}

	if lo := price - Margin; lo < b.min {
		b.min = lo
	}
	if hi := price + Margin; hi > b.max {
		b.max = hi
	}
	b.normalize()
}

func (b *Buffer) normalize() {
	b.min = clamp(b.min)
	b.max = clamp(b.max)
	if b.max-b.min < MinSpan {
		b.max = b.min + MinSpan
	}
}

func clamp(v float64) float64 {
	if v < Floor {
		return Floor
	}
	if v > Ceiling {
		return Ceiling
	}
	return v
}

// Range returns the current display range.
func (b *Buffer) Range() (lo, hi float64) {
	return b.min, b.max
}

// Prices returns a copy of the buffered prices, oldest first.
func (b *Buffer) Prices() []float64 {
	out := make([]float64, len(b.prices))
	copy(out, b.prices)
	return out
}

func (b *Buffer) Len() int { return len(b.prices) }

func (b *Buffer) Capacity() int { return b.capacity }
