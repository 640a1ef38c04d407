package risk

// Level buckets how much of the balance is committed to open trades.
type Level string

const (
	Low    Level = "low"
	Medium Level = "medium"
	High   Level = "high"
)

// LevelFor maps balance and committed exposure to a risk level:
// under 10% of balance is low, under 25% medium, anything above high.
func LevelFor(balance, exposure float64) Level {
	pct := PortfolioAtRisk(balance, exposure)
	switch {
	case pct < 10:
		return Low
	case pct < 25:
		return Medium
	default:
		return High
	}
}

// PortfolioAtRisk returns exposure as a percentage of balance.
// A depleted balance with open exposure counts as fully at risk.
func PortfolioAtRisk(balance, exposure float64) float64 {
	if balance <= 0 {
		if exposure > 0 {
			return 100
		}
		return 0
	}
	return exposure / balance * 100
}
