// Package analytics computes per-page weekly statistics: week-over-week
// change, trends, best and worst weeks, descriptive statistics, volatility,
// rankings and consistent-growth detection.
//
// Functions are pure. Inputs are never reordered in place; every sort works
// on a copy.
package analytics
