package domain

import "time"

// SmartLink is a trackable short URL embedded in campaign messages.
type SmartLink struct {
	ID             string     `json:"id"`
	CampaignID     string     `json:"campaign_id"`
	ShortCode      string     `json:"short_code"`
	DestinationURL string     `json:"destination_url"`
	Title          string     `json:"title,omitempty"`
	IsActive       bool       `json:"is_active"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`

	ClickCount       int64 `json:"click_count"`
	UniqueClickCount int64 `json:"unique_click_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsExpired reports whether the link has passed its expiry, if any.
func (l *SmartLink) IsExpired(now time.Time) bool {
	return l.ExpiresAt != nil && now.After(*l.ExpiresAt)
}

// ClickEvent is one click on a smart link, with the analytics fields we can
// derive without external lookups.
type ClickEvent struct {
	ID          string    `json:"id"`
	SmartLinkID string    `json:"smart_link_id"`
	IPAddress   string    `json:"ip_address"`
	UserAgent   string    `json:"user_agent,omitempty"`
	DeviceType  string    `json:"device_type,omitempty"`
	Referrer    string    `json:"referrer,omitempty"`
	ClickedAt   time.Time `json:"clicked_at"`
}
