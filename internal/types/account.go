package types

import "time"

// AccountSnapshot represents the account state at a single point in time.
// It is re-fetched immediately before every risk check and never cached
// across evaluation cycles.
type AccountSnapshot struct {
	// TotalBalance is the total quote-currency balance including frozen funds
	TotalBalance float64 `json:"total_balance" yaml:"total_balance"`
	// AvailableBalance is the quote-currency balance free for new orders
	AvailableBalance float64 `json:"available_balance" yaml:"available_balance"`
	// FrozenBalance is the quote-currency balance locked in open orders
	FrozenBalance float64 `json:"frozen_balance" yaml:"frozen_balance"`
	// Assets maps base-asset symbols to their free quantities
	Assets map[string]float64 `json:"assets" yaml:"assets"`
	// OpenPositions are the currently open positions
	OpenPositions []Position `json:"open_positions" yaml:"open_positions"`
	// RetrievedAt is the time the snapshot was fetched
	RetrievedAt time.Time `json:"retrieved_at" yaml:"retrieved_at"`
}

// AssetQty returns the free quantity held for the given base asset.
func (a AccountSnapshot) AssetQty(asset string) float64 {
	return a.Assets[asset]
}

// Position represents an open position.
type Position struct {
	Symbol        string       `json:"symbol" yaml:"symbol"`
	Size          float64      `json:"size" yaml:"size"`
	EntryPrice    float64      `json:"entry_price" yaml:"entry_price"`
	MarkPrice     float64      `json:"mark_price" yaml:"mark_price"`
	UnrealizedPnL float64      `json:"unrealized_pnl" yaml:"unrealized_pnl"`
	Side          PositionType `json:"side" yaml:"side"`
}
