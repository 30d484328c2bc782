package repository

import (
	"database/sql"
	"time"

	"github.com/candraczapansky/salon-notify/internal/apperrors"
	"github.com/candraczapansky/salon-notify/internal/model"
)

type RuleRepositoryInterface interface {
	ListActive() ([]*model.Rule, error)
	List() ([]*model.Rule, error)
	GetByID(id int) (*model.Rule, error)
	Create(r *model.Rule) error
	Update(r *model.Rule) error
	Delete(id int) error
	IncrementSentCount(id int) error
}

type RuleRepository struct {
	DB *sql.DB
}

const ruleColumns = `id, name, trigger, custom_trigger_name, channel, active, subject, body, location_id, sent_count, created_at, updated_at`

func scanRule(row interface{ Scan(...interface{}) error }) (*model.Rule, error) {
	var r model.Rule
	err := row.Scan(&r.ID, &r.Name, &r.Trigger, &r.CustomTriggerName, &r.Channel,
		&r.Active, &r.Subject, &r.Body, &r.LocationID, &r.SentCount, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *RuleRepository) Create(rule *model.Rule) error {
	rule.CreatedAt = time.Now()
	query := `
        INSERT INTO rules (name, trigger, custom_trigger_name, channel, active, subject, body, location_id, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id
    `
	return r.DB.QueryRow(query, rule.Name, rule.Trigger, rule.CustomTriggerName, rule.Channel,
		rule.Active, rule.Subject, rule.Body, rule.LocationID, rule.CreatedAt).Scan(&rule.ID)
}

func (r *RuleRepository) Update(rule *model.Rule) error {
	query := `
        UPDATE rules
        SET name=$1, trigger=$2, custom_trigger_name=$3, channel=$4, active=$5,
            subject=$6, body=$7, location_id=$8, updated_at=NOW()
        WHERE id=$9
    `
	_, err := r.DB.Exec(query, rule.Name, rule.Trigger, rule.CustomTriggerName, rule.Channel,
		rule.Active, rule.Subject, rule.Body, rule.LocationID, rule.ID)
	return err
}

func (r *RuleRepository) Delete(id int) error {
	_, err := r.DB.Exec(`DELETE FROM rules WHERE id=$1`, id)
	return err
}

func (r *RuleRepository) GetByID(id int) (*model.Rule, error) {
	rule, err := scanRule(r.DB.QueryRow(`SELECT `+ruleColumns+` FROM rules WHERE id=$1`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NewRuleNotFound(id)
		}
		return nil, err
	}
	return rule, nil
}

func (r *RuleRepository) List() ([]*model.Rule, error) {
	return r.list(`SELECT ` + ruleColumns + ` FROM rules ORDER BY id`)
}

func (r *RuleRepository) ListActive() ([]*model.Rule, error) {
	return r.list(`SELECT ` + ruleColumns + ` FROM rules WHERE active=true ORDER BY id`)
}

func (r *RuleRepository) list(query string) ([]*model.Rule, error) {
	rows, err := r.DB.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rules := []*model.Rule{}
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

// IncrementSentCount bumps the rule's sent counter after a successful send.
// Counters are additive only; no cross-operation atomicity is needed.
func (r *RuleRepository) IncrementSentCount(id int) error {
	_, err := r.DB.Exec(`UPDATE rules SET sent_count=sent_count+1 WHERE id=$1`, id)
	return err
}

var _ RuleRepositoryInterface = (*RuleRepository)(nil)
