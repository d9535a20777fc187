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

const collectionPosts = "posts"

type PostRepository struct {
	col *mongo.Collection
}

func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{col: db.Collection(collectionPosts)}
}

type postDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Content     string             `bson:"content"`
	AuthorID    string             `bson:"author_id"`
	CommunityID string             `bson:"community_id,omitempty"`
	Upvotes     []string           `bson:"upvotes"`
	Downvotes   []string           `bson:"downvotes"`
	CreatedAt   time.Time          `bson:"created_at"`
}

func (d postDoc) toDomain() *domain.Post {
	// Defensive default: documents written before the vote ledger existed may
	// lack the arrays entirely.
	up, down := d.Upvotes, d.Downvotes
	if up == nil {
		up = []string{}
	}
	if down == nil {
		down = []string{}
	}
	return &domain.Post{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Content:     d.Content,
		AuthorID:    d.AuthorID,
		CommunityID: d.CommunityID,
		Upvotes:     up,
		Downvotes:   down,
		CreatedAt:   d.CreatedAt,
	}
}

func (r *PostRepository) Create(ctx context.Context, p *domain.Post) (*domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := postDoc{
		Title:       p.Title,
		Content:     p.Content,
		AuthorID:    p.AuthorID,
		CommunityID: p.CommunityID,
		Upvotes:     p.Upvotes,
		Downvotes:   p.Downvotes,
		CreatedAt:   p.CreatedAt,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *PostRepository) FindByID(ctx context.Context, id string) (*domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrPostNotFound
	}

	var doc postDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *PostRepository) ListAll(ctx context.Context) ([]domain.Post, error) {
	return r.list(ctx, bson.M{})
}

func (r *PostRepository) ListByCommunity(ctx context.Context, communityID string) ([]domain.Post, error) {
	return r.list(ctx, bson.M{"community_id": communityID})
}

func (r *PostRepository) list(ctx context.Context, filter bson.M) ([]domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer cur.Close(ctx)

	var out []domain.Post
	for cur.Next(ctx) {
		var doc postDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode post: %w", err)
		}
		out = append(out, *doc.toDomain())
	}
	return out, cur.Err()
}

// ApplyVote writes one user's vote transition with $pull/$addToSet on the two
// ledger arrays in a single document update. Writing only the voter's own
// membership keeps concurrent votes by different users from clobbering each
// other.
func (r *PostRepository) ApplyVote(ctx context.Context, id, userID string, dir domain.VoteDirection, removed bool) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrPostNotFound
	}

	same, opposite := "upvotes", "downvotes"
	if dir == domain.VoteDown {
		same, opposite = "downvotes", "upvotes"
	}

	pull := bson.M{opposite: userID}
	update := bson.M{"$pull": pull}
	if removed {
		pull[same] = userID
	} else {
		update["$addToSet"] = bson.M{same: userID}
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("apply vote: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

func (r *PostRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrPostNotFound
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

// EnsureIndexes creates the feed and lookup indexes on the posts collection.
func (r *PostRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "community_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "author_id", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
