package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pinglayer/pinglayer-api/internal/core/domain"
)

const messageLogsCollection = "message_logs"

// MongoMessageLogRepository reads the delivery audit trail. The delivery
// pipeline writes these documents; the API only pages through them.
type MongoMessageLogRepository struct {
	coll *mongo.Collection
}

func NewMessageLogRepository(db *mongo.Database) *MongoMessageLogRepository {
	return &MongoMessageLogRepository{coll: db.Collection(messageLogsCollection)}
}

type mongoMessageLog struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	CampaignID  string             `bson:"campaign_id"`
	RecipientID string             `bson:"recipient_id"`
	PhoneNumber string             `bson:"phone_number"`
	Status      string             `bson:"status"`

	MessageContent    string `bson:"message_content"`
	WhatsAppMessageID string `bson:"whatsapp_message_id,omitempty"`
	ErrorMessage      string `bson:"error_message,omitempty"`

	SentAt      int64 `bson:"sent_at,omitempty"`
	DeliveredAt int64 `bson:"delivered_at,omitempty"`
	ReadAt      int64 `bson:"read_at,omitempty"`
	CreatedAt   int64 `bson:"created_at"`
}

func (mm *mongoMessageLog) toDomain() *domain.MessageLog {
	return &domain.MessageLog{
		ID:                mm.ID.Hex(),
		CampaignID:        mm.CampaignID,
		RecipientID:       mm.RecipientID,
		PhoneNumber:       mm.PhoneNumber,
		Status:            domain.MessageStatus(mm.Status),
		MessageContent:    mm.MessageContent,
		WhatsAppMessageID: mm.WhatsAppMessageID,
		ErrorMessage:      mm.ErrorMessage,
		SentAt:            unixToTimePtr(mm.SentAt),
		DeliveredAt:       unixToTimePtr(mm.DeliveredAt),
		ReadAt:            unixToTimePtr(mm.ReadAt),
		CreatedAt:         unixToTime(mm.CreatedAt),
	}
}

func (r *MongoMessageLogRepository) ListByCampaign(ctx context.Context, campaignID string, status domain.MessageStatus, page, limit int) ([]*domain.MessageLog, int64, error) {
	filter := bson.M{"campaign_id": campaignID}
	if status != "" {
		filter["status"] = string(status)
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count message logs: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list message logs: %w", err)
	}
	defer cursor.Close(ctx)

	logs := make([]*domain.MessageLog, 0)
	for cursor.Next(ctx) {
		var mm mongoMessageLog
		if err := cursor.Decode(&mm); err != nil {
			return nil, 0, fmt.Errorf("decode message log: %w", err)
		}
		logs = append(logs, mm.toDomain())
	}
	return logs, total, cursor.Err()
}
