package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/clubhouse/members-only/internal/core/domain"
)

const messagesCollection = "messages"

type MessageRepository struct {
	col *mongo.Collection
}

func NewMessageRepository(db *mongo.Database) *MessageRepository {
	return &MessageRepository{col: db.Collection(messagesCollection)}
}

type mongoAuthor struct {
	ID        primitive.ObjectID `bson:"_id"`
	FirstName string             `bson:"first_name"`
	LastName  string             `bson:"last_name"`
}

type mongoMessage struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Title      string             `bson:"title"`
	Text       string             `bson:"text"`
	Edited     bool               `bson:"edited"`
	AuthorID   primitive.ObjectID `bson:"author_id"`
	Author     *mongoAuthor       `bson:"author,omitempty"`
	CreatedAt  time.Time          `bson:"created_at"`
	ModifiedAt time.Time          `bson:"modified_at"`
}

func (mm *mongoMessage) toDomain() *domain.Message {
	m := &domain.Message{
		ID:         mm.ID.Hex(),
		Title:      mm.Title,
		Text:       mm.Text,
		Edited:     mm.Edited,
		AuthorID:   mm.AuthorID.Hex(),
		CreatedAt:  mm.CreatedAt,
		ModifiedAt: mm.ModifiedAt,
	}
	if mm.Author != nil {
		m.Author = &domain.Author{
			ID:        mm.Author.ID.Hex(),
			FirstName: mm.Author.FirstName,
			LastName:  mm.Author.LastName,
		}
	}
	return m
}

// Create inserts a new message document.
func (r *MessageRepository) Create(ctx context.Context, m *domain.Message) (*domain.Message, error) {
	authorID, err := primitive.ObjectIDFromHex(m.AuthorID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoMessage{
		Title:      m.Title,
		Text:       m.Text,
		Edited:     m.Edited,
		AuthorID:   authorID,
		CreatedAt:  m.CreatedAt,
		ModifiedAt: m.ModifiedAt,
	}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("insert message: unexpected id type %T", res.InsertedID)
	}
	doc.ID = oid
	return doc.toDomain(), nil
}

// List returns every message in creation order with its author resolved.
func (r *MessageRepository) List(ctx context.Context) ([]*domain.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Aggregate(ctx, withAuthor(nil))
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoMessage
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list messages: decode: %w", err)
	}

	out := make([]*domain.Message, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

// FindByID retrieves a single message with its author resolved.
func (r *MessageRepository) FindByID(ctx context.Context, id string) (*domain.Message, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrMessageNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Aggregate(ctx, withAuthor(bson.D{{Key: "_id", Value: oid}}))
	if err != nil {
		return nil, fmt.Errorf("find message: %w", err)
	}
	defer cur.Close(ctx)

	if !cur.Next(ctx) {
		if err := cur.Err(); err != nil {
			return nil, fmt.Errorf("find message: %w", err)
		}
		return nil, domain.ErrMessageNotFound
	}

	var doc mongoMessage
	if err := cur.Decode(&doc); err != nil {
		return nil, fmt.Errorf("find message: decode: %w", err)
	}
	return doc.toDomain(), nil
}

// Update persists the revisable fields of m.
func (r *MessageRepository) Update(ctx context.Context, m *domain.Message) error {
	oid, err := primitive.ObjectIDFromHex(m.ID)
	if err != nil {
		return domain.ErrMessageNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"title":       m.Title,
		"text":        m.Text,
		"edited":      m.Edited,
		"modified_at": m.ModifiedAt,
	}}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("update message: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrMessageNotFound
	}
	return nil
}

func (r *MessageRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrMessageNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrMessageNotFound
	}
	return nil
}

// DeleteAll wipes the collection. Used by the seeder only.
func (r *MessageRepository) DeleteAll(ctx context.Context) error {
	_, err := r.col.DeleteMany(ctx, bson.M{})
	return err
}

// EnsureIndexes creates the index backing the creation-order listing.
func (r *MessageRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}},
		{Keys: bson.D{{Key: "author_id", Value: 1}}},
	})
	return err
}

// withAuthor builds the aggregation that joins each message with the
// first and last name of its author. Messages whose author no longer
// exists are kept with a nil author.
func withAuthor(match bson.D) mongo.Pipeline {
	var p mongo.Pipeline
	if match != nil {
		p = append(p, bson.D{{Key: "$match", Value: match}})
	}
	return append(p,
		bson.D{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}}},
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: usersCollection},
			{Key: "localField", Value: "author_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "author"},
		}}},
		bson.D{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$author"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "author.email", Value: 0},
			{Key: "author.password_hash", Value: 0},
			{Key: "author.is_member", Value: 0},
			{Key: "author.is_admin", Value: 0},
			{Key: "author.created_at", Value: 0},
			{Key: "author.updated_at", Value: 0},
		}}},
	)
}
