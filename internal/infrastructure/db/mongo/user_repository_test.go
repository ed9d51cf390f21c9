package mongo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taskmanager/task-manager-api/internal/core/domain"
)

func TestToMongoUser_StoresTokensAsSubdocuments(t *testing.T) {
	u := domain.NewUser("Ana", "ana@example.com", "hash", 30)
	u.Tokens = []string{"t1", "t2"}

	doc := toMongoUser(u)

	require.Len(t, doc.Tokens, 2)
	assert.Equal(t, "t1", doc.Tokens[0].Token)
	assert.Equal(t, "t2", doc.Tokens[1].Token)
	assert.True(t, doc.ID.IsZero())
}

func TestToMongoUser_NilTokensBecomeEmptyArray(t *testing.T) {
	u := &domain.User{Name: "Ana", Email: "ana@example.com"}

	raw, err := bson.Marshal(toMongoUser(u))
	require.NoError(t, err)

	var m bson.M
	require.NoError(t, bson.Unmarshal(raw, &m))
	tokens, ok := m["tokens"].(bson.A)
	require.True(t, ok, "tokens must be stored as an array, got %T", m["tokens"])
	assert.Empty(t, tokens)
	_, hasAvatar := m["avatar"]
	assert.False(t, hasAvatar)
}

func TestToDomainUser_MarksPersisted(t *testing.T) {
	oid := primitive.NewObjectID()
	now := time.Now().UTC().Truncate(time.Millisecond)

	u := toDomainUser(mongoUser{
		ID:        oid,
		Name:      "Ana",
		Email:     "ana@example.com",
		Password:  "$2a$08$hash",
		Tokens:    []mongoToken{{Token: "t1"}},
		CreatedAt: now,
		UpdatedAt: now,
	})

	assert.Equal(t, oid.Hex(), u.ID)
	assert.Equal(t, []string{"t1"}, u.Tokens)
	assert.False(t, u.IsNew())
	assert.False(t, u.PasswordModified())
}

func TestUpdateDocument_UnsetsEmptyAvatar(t *testing.T) {
	u := &domain.User{Name: "Ana", Email: "ana@example.com"}

	update := updateDocument(u)

	assert.Contains(t, update, "$unset")
	set := update["$set"].(bson.M)
	assert.NotContains(t, set, "avatar")
}

func TestUpdateDocument_SetsAvatar(t *testing.T) {
	u := &domain.User{Name: "Ana", Email: "ana@example.com", Avatar: []byte{0x89, 'P', 'N', 'G'}}

	update := updateDocument(u)

	assert.NotContains(t, update, "$unset")
	set := update["$set"].(bson.M)
	assert.Equal(t, u.Avatar, set["avatar"])
}

func TestToDomainTask(t *testing.T) {
	owner := primitive.NewObjectID()
	id := primitive.NewObjectID()

	task := toDomainTask(mongoTask{ID: id, Owner: owner, Description: "buy milk"})

	assert.Equal(t, id.Hex(), task.ID)
	assert.Equal(t, owner.Hex(), task.Owner)
	assert.Equal(t, "buy milk", task.Description)
}
