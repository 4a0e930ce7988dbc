// Package numeric holds the rounding rules shared by the analytics and
// aggregation packages.
package numeric

import "math"

// RoundHalfUp rounds to the nearest integer, halves toward +Inf.
func RoundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}

// RoundInt rounds half-up and converts to int64.
func RoundInt(x float64) int64 {
	return int64(RoundHalfUp(x))
}

// RoundTenth rounds half-up to one decimal place.
func RoundTenth(x float64) float64 {
	return RoundHalfUp(x*10) / 10
}

// PercentOf returns part/whole as a percentage with one decimal place,
// computed as round(part/whole*1000)/10. A zero whole yields 0.
func PercentOf(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return RoundHalfUp(part/whole*1000) / 10
}

// MeanInt returns round(sum/len) half-up, 0 for an empty slice.
func MeanInt(values []int64) int64 {
	if len(values) == 0 {
		return 0
	}
	var sum int64
	for _, v := range values {
		sum += v
	}
	return RoundInt(float64(sum) / float64(len(values)))
}

// Sum adds the values.
func Sum(values []int64) int64 {
	var sum int64
	for _, v := range values {
		sum += v
	}
	return sum
}
