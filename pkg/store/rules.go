package store

import (
	"context"
	"database/sql"

	"github.com/apisec/sentinel/pkg/scanner"
)

// CustomRuleRecord is a persisted operator-defined rule, the database
// counterpart of scanner.CustomRule.
type CustomRuleRecord struct {
	ID          int64  `json:"id"`
	RuleID      string `json:"rule_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Regex       string `json:"regex"`
	Severity    string `json:"severity"`
}

// GetCustomRules lists every stored custom rule.
func (s *Store) GetCustomRules(ctx context.Context) ([]CustomRuleRecord, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, rule_id, name, description, regex, severity FROM custom_rules")
	if err != nil {
		return nil, NewStoreError("get_custom_rules", err)
	}
	defer rows.Close()

	var out []CustomRuleRecord
	for rows.Next() {
		var r CustomRuleRecord
		if err := rows.Scan(&r.ID, &r.RuleID, &r.Name, &r.Description, &r.Regex, &r.Severity); err != nil {
			return nil, NewStoreError("scan_custom_rule", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// AddCustomRule persists a new custom rule and returns its id.
func (s *Store) AddCustomRule(ctx context.Context, r CustomRuleRecord) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO custom_rules (rule_id, name, description, regex, severity) VALUES (?, ?, ?, ?, ?)",
		r.RuleID, r.Name, r.Description, r.Regex, r.Severity,
	)
	if err != nil {
		return 0, NewStoreError("add_custom_rule", err)
	}
	return res.LastInsertId()
}

// DeleteCustomRule removes a custom rule by id.
func (s *Store) DeleteCustomRule(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM custom_rules WHERE id = ?", id); err != nil {
		return NewStoreError("delete_custom_rule", err)
	}
	return nil
}

// CustomRules implements scanner.CustomRuleProvider, feeding every stored
// custom rule into the passive Scanner on each scan invocation.
func (s *Store) CustomRules() ([]scanner.CustomRule, error) {
	rows, err := s.db.Query("SELECT rule_id, name, description, regex, severity FROM custom_rules")
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, NewStoreError("load_custom_rules", err)
	}
	defer rows.Close()

	var out []scanner.CustomRule
	for rows.Next() {
		var r scanner.CustomRule
		if err := rows.Scan(&r.RuleID, &r.Name, &r.Description, &r.Regex, &r.Severity); err != nil {
			return nil, NewStoreError("scan_custom_rule", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
