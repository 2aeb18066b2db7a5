// Package store implements the SQLite-backed Asset Store: de-duplicated
// asset persistence, body history, findings, custom rules, API specs, and
// the tag/folder supplements. It satisfies proxy.AssetStore and feeds
// scanner.CustomRuleProvider from the same database.
package store
