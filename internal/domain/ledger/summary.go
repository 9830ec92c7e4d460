package ledger

// Summary is the reduction of a movement list into net counters.
type Summary struct {
	CountIn          int `json:"countIn"`
	CountOut         int `json:"countOut"`
	CountAdjustments int `json:"countAdjustments"`
	CountSales       int `json:"countSales"`

	// TotalIn, TotalOut and TotalSales are accumulated as absolute
	// values; TotalAdjustments preserves sign because adjustments may
	// be net positive or negative.
	TotalIn          int64 `json:"totalIn"`
	TotalOut         int64 `json:"totalOut"`
	TotalAdjustments int64 `json:"totalAdjustments"`
	TotalSales       int64 `json:"totalSales"`

	// NetChange = TotalIn - TotalOut + TotalAdjustments - TotalSales.
	NetChange int64 `json:"netChange"`
}

// Summarize reduces a movement list into per-type counters.
// It is a stateless fold: empty input yields an all-zero summary.
func Summarize(movements []Movement) Summary {
	var s Summary
	for i := range movements {
		m := &movements[i]
		switch m.Type {
		case TypeIn:
			s.CountIn++
			s.TotalIn += m.Quantity
		case TypeOut:
			s.CountOut++
			s.TotalOut += m.Quantity
		case TypeAdjustment:
			s.CountAdjustments++
			s.TotalAdjustments += m.Quantity
		case TypeSale:
			s.CountSales++
			s.TotalSales += m.Quantity
		}
	}
	s.NetChange = s.TotalIn - s.TotalOut + s.TotalAdjustments - s.TotalSales
	return s
}
