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

const campaignsCollection = "campaigns"

// MongoCampaignRepository persists campaigns. Every read and write filters
// by company_id so a cross-tenant id probe is indistinguishable from a miss.
type MongoCampaignRepository struct {
	coll *mongo.Collection
}

func NewCampaignRepository(db *mongo.Database) *MongoCampaignRepository {
	return &MongoCampaignRepository{coll: db.Collection(campaignsCollection)}
}

type mongoCampaign struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description,omitempty"`
	CompanyID   string             `bson:"company_id"`
	CreatedBy   string             `bson:"created_by"`
	Status      string             `bson:"status"`

	MessageTemplate   string            `bson:"message_template"`
	TemplateVariables map[string]string `bson:"template_variables,omitempty"`

	ScheduledAt int64 `bson:"scheduled_at,omitempty"`
	StartedAt   int64 `bson:"started_at,omitempty"`
	CompletedAt int64 `bson:"completed_at,omitempty"`

	TotalRecipients int64 `bson:"total_recipients"`
	SentCount       int64 `bson:"sent_count"`
	DeliveredCount  int64 `bson:"delivered_count"`
	FailedCount     int64 `bson:"failed_count"`

	CreatedAt int64 `bson:"created_at"`
	UpdatedAt int64 `bson:"updated_at"`
}

func (mc *mongoCampaign) toDomain() *domain.Campaign {
	return &domain.Campaign{
		ID:                mc.ID.Hex(),
		Name:              mc.Name,
		Description:       mc.Description,
		CompanyID:         mc.CompanyID,
		CreatedBy:         mc.CreatedBy,
		Status:            domain.CampaignStatus(mc.Status),
		MessageTemplate:   mc.MessageTemplate,
		TemplateVariables: mc.TemplateVariables,
		ScheduledAt:       unixToTimePtr(mc.ScheduledAt),
		StartedAt:         unixToTimePtr(mc.StartedAt),
		CompletedAt:       unixToTimePtr(mc.CompletedAt),
		TotalRecipients:   mc.TotalRecipients,
		SentCount:         mc.SentCount,
		DeliveredCount:    mc.DeliveredCount,
		FailedCount:       mc.FailedCount,
		CreatedAt:         unixToTime(mc.CreatedAt),
		UpdatedAt:         unixToTime(mc.UpdatedAt),
	}
}

func fromDomainCampaign(c *domain.Campaign) mongoCampaign {
	return mongoCampaign{
		Name:              c.Name,
		Description:       c.Description,
		CompanyID:         c.CompanyID,
		CreatedBy:         c.CreatedBy,
		Status:            string(c.Status),
		MessageTemplate:   c.MessageTemplate,
		TemplateVariables: c.TemplateVariables,
		ScheduledAt:       timePtrToUnix(c.ScheduledAt),
		StartedAt:         timePtrToUnix(c.StartedAt),
		CompletedAt:       timePtrToUnix(c.CompletedAt),
		TotalRecipients:   c.TotalRecipients,
		SentCount:         c.SentCount,
		DeliveredCount:    c.DeliveredCount,
		FailedCount:       c.FailedCount,
		CreatedAt:         c.CreatedAt.Unix(),
		UpdatedAt:         c.UpdatedAt.Unix(),
	}
}

func (r *MongoCampaignRepository) Create(ctx context.Context, campaign *domain.Campaign) (*domain.Campaign, error) {
	doc := fromDomainCampaign(campaign)

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert campaign: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *MongoCampaignRepository) FindByID(ctx context.Context, companyID, campaignID string) (*domain.Campaign, error) {
	oid, err := primitive.ObjectIDFromHex(campaignID)
	if err != nil {
		return nil, domain.ErrCampaignNotFound
	}

	var mc mongoCampaign
	filter := bson.M{"_id": oid, "company_id": companyID}
	if err := r.coll.FindOne(ctx, filter).Decode(&mc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrCampaignNotFound
		}
		return nil, fmt.Errorf("find campaign: %w", err)
	}
	return mc.toDomain(), nil
}

func (r *MongoCampaignRepository) List(ctx context.Context, companyID string, status domain.CampaignStatus) ([]*domain.Campaign, error) {
	filter := bson.M{"company_id": companyID}
	if status != "" {
		filter["status"] = string(status)
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	defer cursor.Close(ctx)

	campaigns := make([]*domain.Campaign, 0)
	for cursor.Next(ctx) {
		var mc mongoCampaign
		if err := cursor.Decode(&mc); err != nil {
			return nil, fmt.Errorf("decode campaign: %w", err)
		}
		campaigns = append(campaigns, mc.toDomain())
	}
	return campaigns, cursor.Err()
}

func (r *MongoCampaignRepository) Update(ctx context.Context, campaign *domain.Campaign) error {
	oid, err := primitive.ObjectIDFromHex(campaign.ID)
	if err != nil {
		return domain.ErrCampaignNotFound
	}

	doc := fromDomainCampaign(campaign)
	doc.UpdatedAt = timeNowUnix()

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": oid, "company_id": campaign.CompanyID}, doc)
	if err != nil {
		return fmt.Errorf("update campaign: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrCampaignNotFound
	}
	return nil
}

func (r *MongoCampaignRepository) Delete(ctx context.Context, companyID, campaignID string) error {
	oid, err := primitive.ObjectIDFromHex(campaignID)
	if err != nil {
		return domain.ErrCampaignNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid, "company_id": companyID})
	if err != nil {
		return fmt.Errorf("delete campaign: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrCampaignNotFound
	}
	return nil
}

func (r *MongoCampaignRepository) SetRecipientTotal(ctx context.Context, campaignID string, total int64) error {
	oid, err := primitive.ObjectIDFromHex(campaignID)
	if err != nil {
		return domain.ErrCampaignNotFound
	}

	_, err = r.coll.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"total_recipients": total, "updated_at": timeNowUnix()}},
	)
	if err != nil {
		return fmt.Errorf("set recipient total: %w", err)
	}
	return nil
}
