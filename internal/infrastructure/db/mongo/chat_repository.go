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

const (
	collectionChats    = "chats"
	collectionMessages = "messages"
)

type ChatRepository struct {
	chats    *mongo.Collection
	messages *mongo.Collection
}

func NewChatRepository(db *mongo.Database) *ChatRepository {
	return &ChatRepository{
		chats:    db.Collection(collectionChats),
		messages: db.Collection(collectionMessages),
	}
}

type chatDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Participants []string           `bson:"participants"`
	// PairKey is the canonical pair joined as "a:b". A unique index on the
	// participants array would be multikey (unique per element), so the
	// one-chat-per-pair constraint lives on this derived scalar instead.
	PairKey   string    `bson:"pair_key"`
	CreatedAt time.Time `bson:"created_at"`
}

func pairKey(pair [2]string) string {
	return pair[0] + ":" + pair[1]
}

func (d chatDoc) toDomain() *domain.Chat {
	c := &domain.Chat{
		ID:        d.ID.Hex(),
		CreatedAt: d.CreatedAt,
	}
	copy(c.Participants[:], d.Participants)
	return c
}

func (r *ChatRepository) Create(ctx context.Context, c *domain.Chat) (*domain.Chat, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := chatDoc{
		Participants: c.Participants[:],
		PairKey:      pairKey(c.Participants),
		CreatedAt:    c.CreatedAt,
	}

	res, err := r.chats.InsertOne(ctx, doc)
	if err != nil {
		// Concurrent open of the same pair hits the unique index; resolve to
		// the surviving document.
		if mongo.IsDuplicateKeyError(err) {
			return r.FindByParticipants(ctx, c.Participants)
		}
		return nil, fmt.Errorf("insert chat: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *ChatRepository) FindByID(ctx context.Context, id string) (*domain.Chat, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrChatNotFound
	}

	var doc chatDoc
	if err := r.chats.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrChatNotFound
		}
		return nil, fmt.Errorf("find chat: %w", err)
	}
	return doc.toDomain(), nil
}

// FindByParticipants looks up a chat by its canonical participant pair.
func (r *ChatRepository) FindByParticipants(ctx context.Context, pair [2]string) (*domain.Chat, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc chatDoc
	if err := r.chats.FindOne(ctx, bson.M{"pair_key": pairKey(pair)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrChatNotFound
		}
		return nil, fmt.Errorf("find chat by participants: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ChatRepository) ListByUser(ctx context.Context, userID string) ([]domain.Chat, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.chats.Find(ctx, bson.M{"participants": userID}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}
	defer cur.Close(ctx)

	var out []domain.Chat
	for cur.Next(ctx) {
		var doc chatDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode chat: %w", err)
		}
		out = append(out, *doc.toDomain())
	}
	return out, cur.Err()
}

// InsertMessage persists one message. The id is assigned by the caller (uuid).
func (r *ChatRepository) InsertMessage(ctx context.Context, m *domain.Message) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.messages.InsertOne(ctx, m); err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

func (r *ChatRepository) ListMessages(ctx context.Context, chatID string) ([]domain.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.messages.Find(ctx, bson.M{"chat_id": chatID}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer cur.Close(ctx)

	var out []domain.Message
	for cur.Next(ctx) {
		var m domain.Message
		if err := cur.Decode(&m); err != nil {
			return nil, fmt.Errorf("decode message: %w", err)
		}
		out = append(out, m)
	}
	return out, cur.Err()
}

// EnsureIndexes creates the participant-pair uniqueness and message ordering
// indexes.
func (r *ChatRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if _, err := r.chats.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "pair_key", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "participants", Value: 1}}},
	}); err != nil {
		return err
	}

	_, err := r.messages.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "chat_id", Value: 1}, {Key: "created_at", Value: 1}}},
	})
	return err
}
