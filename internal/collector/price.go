package collector

import (
	"github.com/tidwall/gjson"

	"CornTicker/internal/model"
)

// priceField is a quote field paired with the test a value must pass.
type priceField struct {
	name  string
	valid func(gjson.Result) bool
}

// priceFields lists the quote fields in priority order. Zero or negative
// values mean the exchange has no data for that field.
var priceFields = []priceField{
	{name: "lastPrice", valid: positiveNumber},
	{name: "closePrice", valid: positiveNumber},
	{name: "mark", valid: positiveNumber},
}

func positiveNumber(r gjson.Result) bool {
	return r.Type == gjson.Number && model.ValidPrice(r.Float())
}

// ExtractPrice picks the first usable price from the quote object keyed by
// symbol and reports which field supplied it.
func ExtractPrice(body []byte, symbol string) (float64, string, error) {
	if !gjson.ValidBytes(body) {
		return 0, "", ErrSchema
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return 0, "", ErrSchema
	}
	entry, ok := root.Map()[symbol]
	if !ok {
		return 0, "", ErrSchema
	}
	quote := entry.Get("quote")
	if !quote.IsObject() {
		return 0, "", ErrSchema
	}
	for _, f := range priceFields {
		if v := quote.Get(f.name); f.valid(v) {
			return v.Float(), f.name, nil
		}
	}
	return 0, "", ErrNoValidPrice
}
