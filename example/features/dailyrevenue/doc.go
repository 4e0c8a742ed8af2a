// Package dailyrevenue implements the Daily Revenue report.
//
// The report tracks captured payments per calendar day (UTC). It is built as
// a typed projection: every dispatch returns the day's running total, which
// callers like a revenue dashboard can consume directly. At the processor the
// projection runs through AsUntyped, where the returned totals are discarded
// and only the tracker's state matters.
package dailyrevenue
