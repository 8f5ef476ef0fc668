package types

import "strconv"

// PriceLevel is a single (price, size) entry in an orderbook. The CLOB API
// encodes both as decimal strings.
type PriceLevel struct {
	Price string `json:"price"`
	Size  string `json:"size"`
}

// PriceFloat returns the parsed price, or 0 if unparseable.
func (l PriceLevel) PriceFloat() float64 {
	price, err := strconv.ParseFloat(l.Price, 64)
	if err != nil {
		return 0
	}
	return price
}

// SizeFloat returns the parsed size, or 0 if unparseable.
func (l PriceLevel) SizeFloat() float64 {
	size, err := strconv.ParseFloat(l.Size, 64)
	if err != nil {
		return 0
	}
	return size
}

// Orderbook is a point-in-time snapshot of a token's book from the CLOB
// /book endpoint. Asks are ordered ascending by price, bids descending,
// so index 0 is always the best level on each side.
type Orderbook struct {
	Market    string       `json:"market"`
	AssetID   string       `json:"asset_id"`
	Timestamp string       `json:"timestamp"`
	Bids      []PriceLevel `json:"bids"`
	Asks      []PriceLevel `json:"asks"`
}

// BestAsk returns the lowest ask price and its size.
// ok is false when the book has no ask side.
func (b *Orderbook) BestAsk() (price, size float64, ok bool) {
	if b == nil || len(b.Asks) == 0 {
		return 0, 0, false
	}
	return b.Asks[0].PriceFloat(), b.Asks[0].SizeFloat(), true
}

// BestBid returns the highest bid price and its size.
// ok is false when the book has no bid side.
func (b *Orderbook) BestBid() (price, size float64, ok bool) {
	if b == nil || len(b.Bids) == 0 {
		return 0, 0, false
	}
	return b.Bids[0].PriceFloat(), b.Bids[0].SizeFloat(), true
}
