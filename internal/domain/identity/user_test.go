package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Run("creates customer with hashed password", func(t *testing.T) {
		user, err := NewUser("Ravi", "Ravi@Example.com", "secret123")
		require.NoError(t, err)

		assert.Equal(t, "ravi@example.com", user.Email)
		assert.Equal(t, RoleCustomer, user.Role)
		assert.False(t, user.IsAdmin())
		assert.NotEqual(t, "secret123", user.PasswordHash)
		assert.True(t, user.CheckPassword("secret123"))
		assert.False(t, user.CheckPassword("wrong"))
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		_, err := NewUser("Ravi", "not-an-email", "secret123")
		assert.Error(t, err)
	})

	t.Run("rejects short password", func(t *testing.T) {
		_, err := NewUser("Ravi", "ravi@example.com", "123")
		assert.Error(t, err)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewUser("", "ravi@example.com", "secret123")
		assert.Error(t, err)
	})
}

func TestNewAdmin(t *testing.T) {
	admin, err := NewAdmin("Admin", "admin@example.com", "secret123")
	require.NoError(t, err)

	assert.Equal(t, RoleAdmin, admin.Role)
	assert.True(t, admin.IsAdmin())
}

func TestUser_SetPassword(t *testing.T) {
	user, err := NewUser("Ravi", "ravi@example.com", "secret123")
	require.NoError(t, err)

	require.NoError(t, user.SetPassword("newsecret"))
	assert.True(t, user.CheckPassword("newsecret"))
	assert.False(t, user.CheckPassword("secret123"))

	assert.Error(t, user.SetPassword("abc"))
}
