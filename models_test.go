package auth_test

import (
	"encoding/json"
	"testing"

	auth "github.com/goliatone/go-user-service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserPublicProjection(t *testing.T) {
	user := &auth.User{
		ID:           uuid.New(),
		Email:        "user@example.com",
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
	}

	pub := user.Public()
	assert.Equal(t, user.ID, pub.ID)
	assert.Equal(t, user.Email, pub.Email)

	raw, err := json.Marshal(pub)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "password")
	assert.NotContains(t, string(raw), user.PasswordHash)
}

func TestUserJSONNeverExposesHash(t *testing.T) {
	user := &auth.User{
		ID:           uuid.New(),
		Email:        "user@example.com",
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
	}

	raw, err := json.Marshal(user)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), user.PasswordHash)
}

func TestNewIdentityFromUser(t *testing.T) {
	t.Run("adapts a user", func(t *testing.T) {
		user := &auth.User{ID: uuid.New(), Email: "user@example.com"}
		identity := auth.NewIdentityFromUser(user)
		require.NotNil(t, identity)
		assert.Equal(t, user.ID.String(), identity.ID())
		assert.Equal(t, user.Email, identity.Email())
	})

	t.Run("nil user yields nil identity", func(t *testing.T) {
		assert.Nil(t, auth.NewIdentityFromUser(nil))
	})
}
