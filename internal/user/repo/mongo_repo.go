package repo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/ovaphlow/pitchfork/service-auth-go/internal/user/entity"
)

const usersCollection = "users"

// userDocument is the mongo shape of a user.
type userDocument struct {
	ID           bson.ObjectID `bson:"_id,omitempty"`
	Email        string        `bson:"email"`
	Name         string        `bson:"name"`
	PasswordHash string        `bson:"password_hash,omitempty"`
	CreatedAt    time.Time     `bson:"created_at"`
	UpdatedAt    time.Time     `bson:"updated_at"`
}

func (d *userDocument) toEntity() *entity.User {
	return &entity.User{
		ID:           d.ID.Hex(),
		Email:        d.Email,
		Name:         d.Name,
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// MongoRepo stores users in a mongo collection with a unique index on email.
type MongoRepo struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func NewMongoRepo(db *mongo.Database, timeout time.Duration) *MongoRepo {
	return &MongoRepo{coll: db.Collection(usersCollection), timeout: timeout}
}

func (r *MongoRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}

// EnsureIndexes creates the unique email index. Idempotent.
func (r *MongoRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	})
	return err
}

func (r *MongoRepo) Create(ctx context.Context, email, name, passwordHash string) (*entity.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	doc := userDocument{
		ID:           bson.NewObjectID(),
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return doc.toEntity(), nil
}

func (r *MongoRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return r.findOne(ctx, bson.D{{Key: "email", Value: email}})
}

// FindByID treats an id that is not an ObjectID as absent.
func (r *MongoRepo) FindByID(ctx context.Context, id string) (*entity.User, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return r.findOne(ctx, bson.D{{Key: "_id", Value: oid}},
		options.FindOne().SetProjection(bson.D{{Key: "password_hash", Value: 0}}))
}

func (r *MongoRepo) findOne(ctx context.Context, filter bson.D, opts ...options.Lister[options.FindOneOptions]) (*entity.User, error) {
	var doc userDocument
	if err := r.coll.FindOne(ctx, filter, opts...).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc.toEntity(), nil
}
