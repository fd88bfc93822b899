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

const recipientsCollection = "recipients"

// MongoRecipientRepository persists campaign recipients. The unique index on
// (campaign_id, phone_number) backs the duplicate detection.
type MongoRecipientRepository struct {
	coll *mongo.Collection
}

func NewRecipientRepository(db *mongo.Database) *MongoRecipientRepository {
	return &MongoRecipientRepository{coll: db.Collection(recipientsCollection)}
}

type mongoRecipient struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	CampaignID  string             `bson:"campaign_id"`
	PhoneNumber string             `bson:"phone_number"`
	Name        string             `bson:"name,omitempty"`
	Email       string             `bson:"email,omitempty"`
	CustomData  map[string]string  `bson:"custom_data,omitempty"`
	CreatedAt   int64              `bson:"created_at"`
}

func (mr *mongoRecipient) toDomain() *domain.Recipient {
	return &domain.Recipient{
		ID:          mr.ID.Hex(),
		CampaignID:  mr.CampaignID,
		PhoneNumber: mr.PhoneNumber,
		Name:        mr.Name,
		Email:       mr.Email,
		CustomData:  mr.CustomData,
		CreatedAt:   unixToTime(mr.CreatedAt),
	}
}

func (r *MongoRecipientRepository) Insert(ctx context.Context, recipient *domain.Recipient) (*domain.Recipient, error) {
	doc := mongoRecipient{
		CampaignID:  recipient.CampaignID,
		PhoneNumber: recipient.PhoneNumber,
		Name:        recipient.Name,
		Email:       recipient.Email,
		CustomData:  recipient.CustomData,
		CreatedAt:   recipient.CreatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrRecipientExists
		}
		return nil, fmt.Errorf("insert recipient: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *MongoRecipientRepository) FindByID(ctx context.Context, campaignID, recipientID string) (*domain.Recipient, error) {
	oid, err := primitive.ObjectIDFromHex(recipientID)
	if err != nil {
		return nil, domain.ErrRecipientNotFound
	}

	var mr mongoRecipient
	filter := bson.M{"_id": oid, "campaign_id": campaignID}
	if err := r.coll.FindOne(ctx, filter).Decode(&mr); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrRecipientNotFound
		}
		return nil, fmt.Errorf("find recipient: %w", err)
	}
	return mr.toDomain(), nil
}

func (r *MongoRecipientRepository) List(ctx context.Context, campaignID string, page, limit int) ([]*domain.Recipient, int64, error) {
	filter := bson.M{"campaign_id": campaignID}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count recipients: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list recipients: %w", err)
	}
	defer cursor.Close(ctx)

	recipients := make([]*domain.Recipient, 0)
	for cursor.Next(ctx) {
		var mr mongoRecipient
		if err := cursor.Decode(&mr); err != nil {
			return nil, 0, fmt.Errorf("decode recipient: %w", err)
		}
		recipients = append(recipients, mr.toDomain())
	}
	return recipients, total, cursor.Err()
}

func (r *MongoRecipientRepository) Count(ctx context.Context, campaignID string) (int64, error) {
	total, err := r.coll.CountDocuments(ctx, bson.M{"campaign_id": campaignID})
	if err != nil {
		return 0, fmt.Errorf("count recipients: %w", err)
	}
	return total, nil
}

func (r *MongoRecipientRepository) Delete(ctx context.Context, campaignID, recipientID string) error {
	oid, err := primitive.ObjectIDFromHex(recipientID)
	if err != nil {
		return domain.ErrRecipientNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid, "campaign_id": campaignID})
	if err != nil {
		return fmt.Errorf("delete recipient: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrRecipientNotFound
	}
	return nil
}

func (r *MongoRecipientRepository) DeleteAll(ctx context.Context, campaignID string) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{"campaign_id": campaignID})
	if err != nil {
		return 0, fmt.Errorf("delete recipients: %w", err)
	}
	return res.DeletedCount, nil
}
