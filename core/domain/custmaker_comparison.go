package domain

// CategoryCount is one GROUP BY row from the customer table.
type CategoryCount struct {
	Value string `json:"value" db:"value"`
	Count int64  `json:"count" db:"count"`
}

// RatioRow is one bar/slice of a comparison chart. Ratio is a percentage
// rounded to two decimals.
type RatioRow struct {
	Label string  `json:"label"`
	Ratio float64 `json:"ratio"`
	Count int64   `json:"count,omitempty"`
}

// Comparison pairs the reference side with the generated side.
type Comparison struct {
	Title     string     `json:"title"`
	Reference []RatioRow `json:"reference"`
	Actual    []RatioRow `json:"actual"`
	Message   string     `json:"message,omitempty"`
}

// PointComparison compares a single label across both sides.
type PointComparison struct {
	Label     string  `json:"label"`
	Reference float64 `json:"reference"`
	Actual    float64 `json:"actual"`
}
