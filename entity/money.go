package entity

// Dollars converts integer cents into a decimal dollar amount.
func Dollars(cents int64) float64 {
	return float64(cents) / 100
}
