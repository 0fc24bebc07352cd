package recorder

import (
	"errors"

	"CornTicker/internal/model"
)

// ErrWrite wraps storage-layer failures on append.
var ErrWrite = errors.New("write price")

// Recorder is the append-only price log.
type Recorder interface {
	Append(obs model.PriceObservation) error
	// Recent returns up to limit of the newest observations, oldest first.
	Recent(limit int) ([]model.PriceObservation, error)
	Close() error
}
