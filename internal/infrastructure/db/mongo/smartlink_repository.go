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

const (
	smartLinksCollection  = "smart_links"
	clickEventsCollection = "click_events"
)

// MongoSmartLinkRepository persists smart links and their click events.
type MongoSmartLinkRepository struct {
	links  *mongo.Collection
	clicks *mongo.Collection
}

func NewSmartLinkRepository(db *mongo.Database) *MongoSmartLinkRepository {
	return &MongoSmartLinkRepository{
		links:  db.Collection(smartLinksCollection),
		clicks: db.Collection(clickEventsCollection),
	}
}

type mongoSmartLink struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	CampaignID     string             `bson:"campaign_id"`
	ShortCode      string             `bson:"short_code"`
	DestinationURL string             `bson:"destination_url"`
	Title          string             `bson:"title,omitempty"`
	IsActive       bool               `bson:"is_active"`
	ExpiresAt      int64              `bson:"expires_at,omitempty"`

	ClickCount       int64 `bson:"click_count"`
	UniqueClickCount int64 `bson:"unique_click_count"`

	CreatedAt int64 `bson:"created_at"`
	UpdatedAt int64 `bson:"updated_at"`
}

type mongoClickEvent struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	SmartLinkID string             `bson:"smart_link_id"`
	IPAddress   string             `bson:"ip_address"`
	UserAgent   string             `bson:"user_agent,omitempty"`
	DeviceType  string             `bson:"device_type,omitempty"`
	Referrer    string             `bson:"referrer,omitempty"`
	ClickedAt   int64              `bson:"clicked_at"`
}

func (ml *mongoSmartLink) toDomain() *domain.SmartLink {
	return &domain.SmartLink{
		ID:               ml.ID.Hex(),
		CampaignID:       ml.CampaignID,
		ShortCode:        ml.ShortCode,
		DestinationURL:   ml.DestinationURL,
		Title:            ml.Title,
		IsActive:         ml.IsActive,
		ExpiresAt:        unixToTimePtr(ml.ExpiresAt),
		ClickCount:       ml.ClickCount,
		UniqueClickCount: ml.UniqueClickCount,
		CreatedAt:        unixToTime(ml.CreatedAt),
		UpdatedAt:        unixToTime(ml.UpdatedAt),
	}
}

func (me *mongoClickEvent) toDomain() *domain.ClickEvent {
	return &domain.ClickEvent{
		ID:          me.ID.Hex(),
		SmartLinkID: me.SmartLinkID,
		IPAddress:   me.IPAddress,
		UserAgent:   me.UserAgent,
		DeviceType:  me.DeviceType,
		Referrer:    me.Referrer,
		ClickedAt:   unixToTime(me.ClickedAt),
	}
}

func (r *MongoSmartLinkRepository) Create(ctx context.Context, link *domain.SmartLink) (*domain.SmartLink, error) {
	doc := mongoSmartLink{
		CampaignID:       link.CampaignID,
		ShortCode:        link.ShortCode,
		DestinationURL:   link.DestinationURL,
		Title:            link.Title,
		IsActive:         link.IsActive,
		ExpiresAt:        timePtrToUnix(link.ExpiresAt),
		ClickCount:       link.ClickCount,
		UniqueClickCount: link.UniqueClickCount,
		CreatedAt:        link.CreatedAt.Unix(),
		UpdatedAt:        link.UpdatedAt.Unix(),
	}

	res, err := r.links.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrLinkExists
		}
		return nil, fmt.Errorf("insert smart link: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *MongoSmartLinkRepository) FindByID(ctx context.Context, linkID string) (*domain.SmartLink, error) {
	oid, err := primitive.ObjectIDFromHex(linkID)
	if err != nil {
		return nil, domain.ErrLinkNotFound
	}

	var ml mongoSmartLink
	if err := r.links.FindOne(ctx, bson.M{"_id": oid}).Decode(&ml); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrLinkNotFound
		}
		return nil, fmt.Errorf("find smart link: %w", err)
	}
	return ml.toDomain(), nil
}

func (r *MongoSmartLinkRepository) FindByCode(ctx context.Context, code string) (*domain.SmartLink, error) {
	var ml mongoSmartLink
	if err := r.links.FindOne(ctx, bson.M{"short_code": code}).Decode(&ml); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrLinkNotFound
		}
		return nil, fmt.Errorf("find smart link by code: %w", err)
	}
	return ml.toDomain(), nil
}

func (r *MongoSmartLinkRepository) ListByCampaign(ctx context.Context, campaignID string) ([]*domain.SmartLink, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.links.Find(ctx, bson.M{"campaign_id": campaignID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list smart links: %w", err)
	}
	defer cursor.Close(ctx)

	links := make([]*domain.SmartLink, 0)
	for cursor.Next(ctx) {
		var ml mongoSmartLink
		if err := cursor.Decode(&ml); err != nil {
			return nil, fmt.Errorf("decode smart link: %w", err)
		}
		links = append(links, ml.toDomain())
	}
	return links, cursor.Err()
}

func (r *MongoSmartLinkRepository) Update(ctx context.Context, link *domain.SmartLink) error {
	oid, err := primitive.ObjectIDFromHex(link.ID)
	if err != nil {
		return domain.ErrLinkNotFound
	}

	res, err := r.links.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{
			"title":      link.Title,
			"is_active":  link.IsActive,
			"updated_at": timeNowUnix(),
		}},
	)
	if err != nil {
		return fmt.Errorf("update smart link: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrLinkNotFound
	}
	return nil
}

func (r *MongoSmartLinkRepository) IncrementClicks(ctx context.Context, linkID string, unique bool) error {
	oid, err := primitive.ObjectIDFromHex(linkID)
	if err != nil {
		return domain.ErrLinkNotFound
	}

	inc := bson.M{"click_count": 1}
	if unique {
		inc["unique_click_count"] = 1
	}

	_, err = r.links.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$inc": inc})
	if err != nil {
		return fmt.Errorf("increment clicks: %w", err)
	}
	return nil
}

func (r *MongoSmartLinkRepository) InsertClick(ctx context.Context, event *domain.ClickEvent) error {
	doc := mongoClickEvent{
		SmartLinkID: event.SmartLinkID,
		IPAddress:   event.IPAddress,
		UserAgent:   event.UserAgent,
		DeviceType:  event.DeviceType,
		Referrer:    event.Referrer,
		ClickedAt:   event.ClickedAt.Unix(),
	}

	if _, err := r.clicks.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert click event: %w", err)
	}
	return nil
}

func (r *MongoSmartLinkRepository) RecentClicks(ctx context.Context, linkID string, limit int) ([]*domain.ClickEvent, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "clicked_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.clicks.Find(ctx, bson.M{"smart_link_id": linkID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list click events: %w", err)
	}
	defer cursor.Close(ctx)

	events := make([]*domain.ClickEvent, 0)
	for cursor.Next(ctx) {
		var me mongoClickEvent
		if err := cursor.Decode(&me); err != nil {
			return nil, fmt.Errorf("decode click event: %w", err)
		}
		events = append(events, me.toDomain())
	}
	return events, cursor.Err()
}
