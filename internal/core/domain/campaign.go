package domain

import "time"

// CampaignStatus is the lifecycle state of a campaign.
type CampaignStatus string

const (
	CampaignDraft     CampaignStatus = "draft"
	CampaignScheduled CampaignStatus = "scheduled"
	CampaignSending   CampaignStatus = "sending"
	CampaignCompleted CampaignStatus = "completed"
	CampaignFailed    CampaignStatus = "failed"
	CampaignCancelled CampaignStatus = "cancelled"
)

// IsValid reports whether s is a known campaign status.
func (s CampaignStatus) IsValid() bool {
	switch s {
	case CampaignDraft, CampaignScheduled, CampaignSending,
		CampaignCompleted, CampaignFailed, CampaignCancelled:
		return true
	}
	return false
}

// Campaign is a WhatsApp bulk-message campaign owned by one company.
type Campaign struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	CompanyID   string         `json:"company_id"`
	CreatedBy   string         `json:"created_by"`
	Status      CampaignStatus `json:"status"`

	MessageTemplate   string            `json:"message_template"`
	TemplateVariables map[string]string `json:"template_variables,omitempty"`

	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	TotalRecipients int64 `json:"total_recipients"`
	SentCount       int64 `json:"sent_count"`
	DeliveredCount  int64 `json:"delivered_count"`
	FailedCount     int64 `json:"failed_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsEditable reports whether the campaign's content may still be changed.
func (c *Campaign) IsEditable() bool {
	return c.Status == CampaignDraft || c.Status == CampaignScheduled
}

// IsSendable reports whether the campaign may be handed to the sender.
// Only drafts with at least one recipient qualify.
func (c *Campaign) IsSendable() bool {
	return c.Status == CampaignDraft && c.TotalRecipients > 0
}

// SuccessRate is the delivered/sent percentage.
func (c *Campaign) SuccessRate() float64 {
	if c.SentCount == 0 {
		return 0
	}
	return float64(c.DeliveredCount) / float64(c.SentCount) * 100
}

// Progress is the sent/total percentage.
func (c *Campaign) Progress() float64 {
	if c.TotalRecipients == 0 {
		return 0
	}
	return float64(c.SentCount) / float64(c.TotalRecipients) * 100
}
