package model

// Product is an entry of the external product catalog keyed by integer id.
type Product struct {
	Rating   *float64 `json:"rating"`
	Title    string   `json:"title"`
	Category string   `json:"category"`
	Brand    string   `json:"brand"`
	Price    float64  `json:"price"`
	ID       int      `json:"id"`
}
