package mongo

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/clubhouse/members-only/internal/core/domain"
)

func newMockT(t *testing.T) *mtest.T {
	return mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
}

func emptyCursor(mt *mtest.T, coll string) bson.D {
	return mtest.CreateCursorResponse(0, mt.DB.Name()+"."+coll, mtest.FirstBatch)
}

func TestUserRepository_Create(t *testing.T) {
	mt := newMockT(t)

	mt.Run("assigns id", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		repo := NewUserRepository(mt.DB)

		u, err := repo.Create(context.Background(), &domain.User{Email: "alice@example.com", FirstName: "Alice"})
		if err != nil {
			mt.Fatalf("create: %v", err)
		}
		if _, err := primitive.ObjectIDFromHex(u.ID); err != nil {
			mt.Fatalf("expected ObjectID hex, got %q", u.ID)
		}
		if u.FirstName != "Alice" {
			mt.Fatalf("unexpected user: %+v", u)
		}
	})

	mt.Run("duplicate email", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: members_only.users index: email_1",
		}))
		repo := NewUserRepository(mt.DB)

		_, err := repo.Create(context.Background(), &domain.User{Email: "alice@example.com"})
		if !errors.Is(err, domain.ErrUserExists) {
			mt.Fatalf("expected ErrUserExists, got %v", err)
		}
	})

	mt.Run("other write error", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 121, Message: "validation failed"}))
		repo := NewUserRepository(mt.DB)

		_, err := repo.Create(context.Background(), &domain.User{Email: "alice@example.com"})
		if err == nil || errors.Is(err, domain.ErrUserExists) {
			mt.Fatalf("expected a plain store error, got %v", err)
		}
	})
}

func TestUserRepository_Find(t *testing.T) {
	mt := newMockT(t)

	mt.Run("by email", func(mt *mtest.T) {
		oid := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, mt.DB.Name()+"."+usersCollection, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: oid},
			{Key: "first_name", Value: "Alice"},
			{Key: "email", Value: "alice@example.com"},
			{Key: "is_member", Value: true},
		}))
		repo := NewUserRepository(mt.DB)

		u, err := repo.FindByEmail(context.Background(), "alice@example.com")
		if err != nil {
			mt.Fatalf("find: %v", err)
		}
		if u.ID != oid.Hex() || u.FirstName != "Alice" || !u.IsMember || u.IsAdmin {
			mt.Fatalf("unexpected user: %+v", u)
		}
	})

	mt.Run("missing", func(mt *mtest.T) {
		mt.AddMockResponses(emptyCursor(mt, usersCollection))
		repo := NewUserRepository(mt.DB)

		if _, err := repo.FindByID(context.Background(), primitive.NewObjectID().Hex()); !errors.Is(err, domain.ErrUserNotFound) {
			mt.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})

	mt.Run("malformed id", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)

		if _, err := repo.FindByID(context.Background(), "not-an-id"); !errors.Is(err, domain.ErrUserNotFound) {
			mt.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})
}

func TestUserRepository_GrantRole(t *testing.T) {
	mt := newMockT(t)
	id := primitive.NewObjectID().Hex()

	mt.Run("granted", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))
		repo := NewUserRepository(mt.DB)

		if err := repo.GrantRole(context.Background(), id, domain.RoleAdmin); err != nil {
			mt.Fatalf("grant: %v", err)
		}
	})

	mt.Run("unknown user", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))
		repo := NewUserRepository(mt.DB)

		if err := repo.GrantRole(context.Background(), id, domain.RoleMember); !errors.Is(err, domain.ErrUserNotFound) {
			mt.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})

	mt.Run("unknown role", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)

		err := repo.GrantRole(context.Background(), id, domain.Role("owner"))
		if err == nil || errors.Is(err, domain.ErrUserNotFound) {
			mt.Fatalf("expected an unknown role error, got %v", err)
		}
	})
}

func TestMessageRepository_FindByID(t *testing.T) {
	mt := newMockT(t)

	mt.Run("resolves author", func(mt *mtest.T) {
		oid, author := primitive.NewObjectID(), primitive.NewObjectID()
		created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, mt.DB.Name()+"."+messagesCollection, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: oid},
			{Key: "title", Value: "Hello"},
			{Key: "text", Value: "World"},
			{Key: "author_id", Value: author},
			{Key: "author", Value: bson.D{
				{Key: "_id", Value: author},
				{Key: "first_name", Value: "Alice"},
				{Key: "last_name", Value: "Johnson"},
			}},
			{Key: "created_at", Value: created},
			{Key: "modified_at", Value: created},
		}))
		repo := NewMessageRepository(mt.DB)

		m, err := repo.FindByID(context.Background(), oid.Hex())
		if err != nil {
			mt.Fatalf("find: %v", err)
		}
		if m.ID != oid.Hex() || m.Title != "Hello" || m.Author == nil || m.Author.FullName() != "Alice Johnson" {
			mt.Fatalf("unexpected message: %+v", m)
		}
	})

	mt.Run("missing", func(mt *mtest.T) {
		mt.AddMockResponses(emptyCursor(mt, messagesCollection))
		repo := NewMessageRepository(mt.DB)

		if _, err := repo.FindByID(context.Background(), primitive.NewObjectID().Hex()); !errors.Is(err, domain.ErrMessageNotFound) {
			mt.Fatalf("expected ErrMessageNotFound, got %v", err)
		}
	})

	mt.Run("malformed id", func(mt *mtest.T) {
		repo := NewMessageRepository(mt.DB)

		if _, err := repo.FindByID(context.Background(), "nope"); !errors.Is(err, domain.ErrMessageNotFound) {
			mt.Fatalf("expected ErrMessageNotFound, got %v", err)
		}
	})
}

func TestMessageRepository_Update(t *testing.T) {
	mt := newMockT(t)
	m := &domain.Message{ID: primitive.NewObjectID().Hex(), Title: "t", Text: "x", Edited: true, ModifiedAt: time.Now()}

	mt.Run("updated", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))
		if err := NewMessageRepository(mt.DB).Update(context.Background(), m); err != nil {
			mt.Fatalf("update: %v", err)
		}
	})

	mt.Run("no match", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))
		if err := NewMessageRepository(mt.DB).Update(context.Background(), m); !errors.Is(err, domain.ErrMessageNotFound) {
			mt.Fatalf("expected ErrMessageNotFound, got %v", err)
		}
	})
}

func TestMessageRepository_Delete(t *testing.T) {
	mt := newMockT(t)
	id := primitive.NewObjectID().Hex()

	mt.Run("deleted", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))
		if err := NewMessageRepository(mt.DB).Delete(context.Background(), id); err != nil {
			mt.Fatalf("delete: %v", err)
		}
	})

	mt.Run("nothing deleted", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))
		if err := NewMessageRepository(mt.DB).Delete(context.Background(), id); !errors.Is(err, domain.ErrMessageNotFound) {
			mt.Fatalf("expected ErrMessageNotFound, got %v", err)
		}
	})

	mt.Run("malformed id", func(mt *mtest.T) {
		if err := NewMessageRepository(mt.DB).Delete(context.Background(), "nope"); !errors.Is(err, domain.ErrMessageNotFound) {
			mt.Fatalf("expected ErrMessageNotFound, got %v", err)
		}
	})
}
