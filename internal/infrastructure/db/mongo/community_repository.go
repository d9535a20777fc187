package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/commonroom/community-platform/internal/core/domain"
)

const collectionCommunities = "communities"

type CommunityRepository struct {
	col *mongo.Collection
}

func NewCommunityRepository(db *mongo.Database) *CommunityRepository {
	return &CommunityRepository{col: db.Collection(collectionCommunities)}
}

type communityDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description"`
	CreatorID   string             `bson:"creator_id"`
	Members     []string           `bson:"members"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (d communityDoc) toDomain() *domain.Community {
	members := d.Members
	if members == nil {
		members = []string{}
	}
	return &domain.Community{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		CreatorID:   d.CreatorID,
		Members:     members,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func (r *CommunityRepository) Create(ctx context.Context, c *domain.Community) (*domain.Community, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := communityDoc{
		Name:        c.Name,
		Description: c.Description,
		CreatorID:   c.CreatorID,
		Members:     c.Members,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateCommunity
		}
		return nil, fmt.Errorf("insert community: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *CommunityRepository) FindByID(ctx context.Context, id string) (*domain.Community, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrCommunityNotFound
	}

	var doc communityDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCommunityNotFound
		}
		return nil, fmt.Errorf("find community: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *CommunityRepository) List(ctx context.Context) ([]domain.Community, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list communities: %w", err)
	}
	defer cur.Close(ctx)

	var out []domain.Community
	for cur.Next(ctx) {
		var doc communityDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode community: %w", err)
		}
		out = append(out, *doc.toDomain())
	}
	return out, cur.Err()
}

// Update writes name, description and the membership set in one document
// update. Renaming onto an existing name surfaces the unique-index violation.
func (r *CommunityRepository) Update(ctx context.Context, c *domain.Community) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(c.ID)
	if err != nil {
		return domain.ErrCommunityNotFound
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"name":        c.Name,
		"description": c.Description,
		"members":     c.Members,
		"updated_at":  c.UpdatedAt,
	}})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateCommunity
		}
		return fmt.Errorf("update community: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrCommunityNotFound
	}
	return nil
}

func (r *CommunityRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrCommunityNotFound
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete community: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrCommunityNotFound
	}
	return nil
}

// EnsureIndexes creates the unique name constraint and the membership index.
func (r *CommunityRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "members", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
