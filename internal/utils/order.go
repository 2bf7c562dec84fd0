package utils

import "math"

// CalculateMaxQuantity calculates the maximum quantity that can be bought
// with the given balance, reserving enough for the commission fee.
func CalculateMaxQuantity(balance float64, price float64, feeRate float64) float64 {
	if price <= 0 || balance <= 0 {
		return 0
	}

	return balance / (price * (1 + feeRate))
}

// RoundToDecimalPrecision rounds the quantity down to the specified decimal
// precision. Rounding down never overspends the balance.
func RoundToDecimalPrecision(quantity float64, decimalPrecision int) float64 {
	multiplier := math.Pow10(decimalPrecision)

	return math.Floor(quantity*multiplier) / multiplier
}

// CalculateOrderQuantityByPercentage calculates the order quantity for the
// given fraction of the balance.
func CalculateOrderQuantityByPercentage(balance float64, price float64, feeRate float64, percentage float64) float64 {
	return CalculateMaxQuantity(balance*percentage, price, feeRate)
}
