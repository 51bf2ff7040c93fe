// Package utils contains small numeric helpers shared across the scanner packages.
package utils

import "math"

// DegToRad converts degrees to radians.
func DegToRad(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// Float64AlmostEqual compares two float64s and returns if the difference between them is less than epsilon.
func Float64AlmostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) <= epsilon
}

// ceilSlack absorbs rounding in value/step so exact multiples do not gain a division.
const ceilSlack = 1e-9

// CeilDiv returns ceil(value/step) as an int, saturating at math.MaxInt. A non-positive value yields 0.
func CeilDiv(value, step float64) int {
	if value <= 0 {
		return 0
	}
	q := math.Ceil(value/step - ceilSlack)
	if math.IsNaN(q) || q >= math.MaxInt {
		return math.MaxInt
	}
	return int(q)
}

// MaxInt returns the larger of two ints.
func MaxInt(a, b int) int {
	if a < b {
		return b
	}
	return a
}
