// internal/apperrors/errors.go
package apperrors

import "fmt"

// ErrRuleNotFound is a sentinel error
type ErrRuleNotFound struct {
	RuleID int
}

func (e *ErrRuleNotFound) Error() string {
	return fmt.Sprintf("rule with ID %d not found", e.RuleID)
}

func NewRuleNotFound(id int) error {
	return &ErrRuleNotFound{RuleID: id}
}

// ErrCampaignNotFound is a sentinel error
type ErrCampaignNotFound struct {
	CampaignID int
}

func (e *ErrCampaignNotFound) Error() string {
	return fmt.Sprintf("campaign with ID %d not found", e.CampaignID)
}

func NewCampaignNotFound(id int) error {
	return &ErrCampaignNotFound{CampaignID: id}
}

// ErrCampaignNotSendable means the campaign's status does not allow sending.
type ErrCampaignNotSendable struct {
	CampaignID int
	Status     string
}

func (e *ErrCampaignNotSendable) Error() string {
	return fmt.Sprintf("campaign %d cannot be sent in status: %s", e.CampaignID, e.Status)
}

func NewCampaignNotSendable(id int, status string) error {
	return &ErrCampaignNotSendable{CampaignID: id, Status: status}
}

// ErrClientNotFound is a sentinel error
type ErrClientNotFound struct {
	ClientID int
}

func (e *ErrClientNotFound) Error() string {
	return fmt.Sprintf("client with ID %d not found", e.ClientID)
}

func NewClientNotFound(id int) error {
	return &ErrClientNotFound{ClientID: id}
}
