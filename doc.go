// Package chronogrid generates ordered timestamp sequences between two
// instants, spaced by a fixed or calendar-aware interval, for use as the
// backing values of temporal data columns.
package chronogrid
