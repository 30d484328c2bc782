// internal/model/client.go
package model

// Client is a salon client account with contact addresses and per-channel
// messaging preferences. Several accounts may share one phone or email.
type Client struct {
	ID        int    `db:"id" json:"id"`
	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
	Email     string `db:"email" json:"email"`
	Phone     string `db:"phone" json:"phone"`

	EmailAppointmentReminders bool `db:"email_appointment_reminders" json:"email_appointment_reminders"`
	SMSAppointmentReminders   bool `db:"sms_appointment_reminders" json:"sms_appointment_reminders"`
	EmailAccountManagement    bool `db:"email_account_management" json:"email_account_management"`
	SMSAccountManagement      bool `db:"sms_account_management" json:"sms_account_management"`
	EmailPromotions           bool `db:"email_promotions" json:"email_promotions"`
	SMSPromotions             bool `db:"sms_promotions" json:"sms_promotions"`
}

// FullName joins the non-empty name parts.
func (c *Client) FullName() string {
	switch {
	case c.FirstName == "":
		return c.LastName
	case c.LastName == "":
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

// ContactFor returns the client's address for a channel ("" when missing).
func (c *Client) ContactFor(channel string) string {
	if channel == ChannelSMS {
		return c.Phone
	}
	return c.Email
}

// PromotionsOptIn reports whether the client consented to marketing on the
// given channel.
func (c *Client) PromotionsOptIn(channel string) bool {
	if channel == ChannelSMS {
		return c.SMSPromotions
	}
	return c.EmailPromotions
}
