package repo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestUserDocumentToEntity(t *testing.T) {
	oid := bson.NewObjectID()
	now := time.Now().UTC()
	doc := userDocument{ID: oid, Email: "a@x.com", Name: "Ann", PasswordHash: "h", CreatedAt: now, UpdatedAt: now}

	u := doc.toEntity()
	assert.Equal(t, oid.Hex(), u.ID)
	assert.Equal(t, "a@x.com", u.Email)
	assert.Equal(t, "h", u.PasswordHash)
	assert.Equal(t, now, u.CreatedAt)
}

func TestMongoRepoFindByIDRejectsNonObjectID(t *testing.T) {
	r := &MongoRepo{}
	_, err := r.FindByID(context.Background(), "not-an-object-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserDocumentBSONOmitsEmptyHash(t *testing.T) {
	raw, err := bson.Marshal(userDocument{ID: bson.NewObjectID(), Email: "a@x.com"})
	assert.NoError(t, err)

	var m bson.M
	assert.NoError(t, bson.Unmarshal(raw, &m))
	_, has := m["password_hash"]
	assert.False(t, has)
	assert.Equal(t, "a@x.com", m["email"])
}
