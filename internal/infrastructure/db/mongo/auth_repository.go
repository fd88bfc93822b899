package mongo

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pinglayer/pinglayer-api/internal/core/domain"
)

const (
	usersCollection     = "users"
	companiesCollection = "companies"
)

// MongoAuthRepository persists users and companies.
type MongoAuthRepository struct {
	users     *mongo.Collection
	companies *mongo.Collection
}

func NewAuthRepository(db *mongo.Database) *MongoAuthRepository {
	return &MongoAuthRepository{
		users:     db.Collection(usersCollection),
		companies: db.Collection(companiesCollection),
	}
}

type mongoUser struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Email        string             `bson:"email"`
	FullName     string             `bson:"full_name"`
	PasswordHash string             `bson:"password_hash"`
	CompanyID    string             `bson:"company_id"`
	IsActive     bool               `bson:"is_active"`
	IsAdmin      bool               `bson:"is_admin"`
	CreatedAt    int64              `bson:"created_at"`
	UpdatedAt    int64              `bson:"updated_at"`
}

type mongoCompany struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Slug      string             `bson:"slug"`
	IsActive  bool               `bson:"is_active"`
	Plan      string             `bson:"plan"`
	CreatedAt int64              `bson:"created_at"`
	UpdatedAt int64              `bson:"updated_at"`
}

func (mu *mongoUser) toDomain() *domain.User {
	return &domain.User{
		ID:           mu.ID.Hex(),
		Email:        mu.Email,
		FullName:     mu.FullName,
		PasswordHash: mu.PasswordHash,
		CompanyID:    mu.CompanyID,
		IsActive:     mu.IsActive,
		IsAdmin:      mu.IsAdmin,
		CreatedAt:    unixToTime(mu.CreatedAt),
		UpdatedAt:    unixToTime(mu.UpdatedAt),
	}
}

func (mc *mongoCompany) toDomain() *domain.Company {
	return &domain.Company{
		ID:        mc.ID.Hex(),
		Name:      mc.Name,
		Slug:      mc.Slug,
		IsActive:  mc.IsActive,
		Plan:      mc.Plan,
		CreatedAt: unixToTime(mc.CreatedAt),
		UpdatedAt: unixToTime(mc.UpdatedAt),
	}
}

func (r *MongoAuthRepository) CreateCompany(ctx context.Context, company *domain.Company) (*domain.Company, error) {
	doc := mongoCompany{
		Name:      company.Name,
		Slug:      company.Slug,
		IsActive:  company.IsActive,
		Plan:      company.Plan,
		CreatedAt: company.CreatedAt.Unix(),
		UpdatedAt: company.UpdatedAt.Unix(),
	}

	res, err := r.companies.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrCompanyExists
		}
		return nil, fmt.Errorf("insert company: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *MongoAuthRepository) DeleteCompany(ctx context.Context, companyID string) error {
	oid, err := primitive.ObjectIDFromHex(companyID)
	if err != nil {
		return domain.ErrCompanyNotFound
	}
	if _, err := r.companies.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return fmt.Errorf("delete company: %w", err)
	}
	return nil
}

func (r *MongoAuthRepository) FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	oid, err := primitive.ObjectIDFromHex(companyID)
	if err != nil {
		return nil, domain.ErrCompanyNotFound
	}

	var mc mongoCompany
	if err := r.companies.FindOne(ctx, bson.M{"_id": oid}).Decode(&mc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrCompanyNotFound
		}
		return nil, fmt.Errorf("find company: %w", err)
	}
	return mc.toDomain(), nil
}

func (r *MongoAuthRepository) FindCompanyBySlug(ctx context.Context, slug string) (*domain.Company, error) {
	var mc mongoCompany
	if err := r.companies.FindOne(ctx, bson.M{"slug": slug}).Decode(&mc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrCompanyNotFound
		}
		return nil, fmt.Errorf("find company by slug: %w", err)
	}
	return mc.toDomain(), nil
}

func (r *MongoAuthRepository) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	doc := mongoUser{
		Email:        strings.ToLower(user.Email),
		FullName:     user.FullName,
		PasswordHash: user.PasswordHash,
		CompanyID:    user.CompanyID,
		IsActive:     user.IsActive,
		IsAdmin:      user.IsAdmin,
		CreatedAt:    user.CreatedAt.Unix(),
		UpdatedAt:    user.UpdatedAt.Unix(),
	}

	res, err := r.users.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrEmailExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *MongoAuthRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	var mu mongoUser
	if err := r.users.FindOne(ctx, bson.M{"_id": oid}).Decode(&mu); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain(), nil
}

func (r *MongoAuthRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var mu mongoUser
	if err := r.users.FindOne(ctx, bson.M{"email": strings.ToLower(email)}).Decode(&mu); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return mu.toDomain(), nil
}

func (r *MongoAuthRepository) ListUsersByCompany(ctx context.Context, companyID string) ([]*domain.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.users.Find(ctx, bson.M{"company_id": companyID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cursor.Close(ctx)

	users := make([]*domain.User, 0)
	for cursor.Next(ctx) {
		var mu mongoUser
		if err := cursor.Decode(&mu); err != nil {
			return nil, fmt.Errorf("decode user: %w", err)
		}
		users = append(users, mu.toDomain())
	}
	return users, cursor.Err()
}

func (r *MongoAuthRepository) SetUserActive(ctx context.Context, companyID, userID string, active bool) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return domain.ErrUserNotFound
	}

	res, err := r.users.UpdateOne(ctx,
		bson.M{"_id": oid, "company_id": companyID},
		bson.M{"$set": bson.M{"is_active": active, "updated_at": timeNowUnix()}},
	)
	if err != nil {
		return fmt.Errorf("set user active: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
