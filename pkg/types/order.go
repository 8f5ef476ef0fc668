package types

// Order sides accepted by the gateway.
const (
	SideBuy  = "BUY"
	SideSell = "SELL"
)

// OrderResult is the CLOB API response to a submitted order.
type OrderResult struct {
	OrderID string  `json:"orderID"`
	Status  string  `json:"status"`
	Price   float64 `json:"price,string"`
	Size    float64 `json:"size,string"`
}

// SellResult confirms a position sell executed through the gateway.
type SellResult struct {
	Status  string  `json:"status"`
	OrderID string  `json:"order_id"`
	Size    float64 `json:"size"`
}
