// internal/model/location.go
package model

import "strings"

// Location is read-only reference data consulted by branding resolution.
type Location struct {
	ID      int    `db:"id" json:"id"`
	Name    string `db:"name" json:"name"`
	Phone   string `db:"phone" json:"phone"`
	Address string `db:"address" json:"address"`
	City    string `db:"city" json:"city"`
	State   string `db:"state" json:"state"`
	Zip     string `db:"zip" json:"zip"`
}

// FullAddress joins the non-empty address fragments with ", ".
func (l *Location) FullAddress() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{l.Address, l.City, l.State, l.Zip} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, strings.TrimSpace(p))
		}
	}
	return strings.Join(parts, ", ")
}
