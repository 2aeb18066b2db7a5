// Package retention schedules pruning of asset_history rows older than a
// configured window. It never touches the assets or findings tables, and
// is disabled by default so history remains unbounded unless an operator
// opts in.
package retention
