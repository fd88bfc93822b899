package domain

import "time"

// Recipient is one phone number targeted by a campaign. Phone numbers are
// unique within a campaign.
type Recipient struct {
	ID          string            `json:"id"`
	CampaignID  string            `json:"campaign_id"`
	PhoneNumber string            `json:"phone_number"`
	Name        string            `json:"name,omitempty"`
	Email       string            `json:"email,omitempty"`
	CustomData  map[string]string `json:"custom_data,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}
