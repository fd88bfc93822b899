package domain

import "time"

// MessageStatus is the delivery state of a single outbound message.
type MessageStatus string

const (
	MessagePending   MessageStatus = "pending"
	MessageSent      MessageStatus = "sent"
	MessageDelivered MessageStatus = "delivered"
	MessageRead      MessageStatus = "read"
	MessageFailed    MessageStatus = "failed"
)

// IsValid reports whether s is a known message status.
func (s MessageStatus) IsValid() bool {
	switch s {
	case MessagePending, MessageSent, MessageDelivered, MessageRead, MessageFailed:
		return true
	}
	return false
}

// MessageLog records one message sent to one recipient. Entries are written
// by the delivery pipeline and read-only from the API's point of view.
type MessageLog struct {
	ID          string        `json:"id"`
	CampaignID  string        `json:"campaign_id"`
	RecipientID string        `json:"recipient_id"`
	PhoneNumber string        `json:"phone_number"`
	Status      MessageStatus `json:"status"`

	MessageContent    string `json:"message_content"`
	WhatsAppMessageID string `json:"whatsapp_message_id,omitempty"`
	ErrorMessage      string `json:"error_message,omitempty"`

	SentAt      *time.Time `json:"sent_at,omitempty"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
	ReadAt      *time.Time `json:"read_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
