package handlers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/gdg-garage/campus-events/internal/auth"
	"github.com/gdg-garage/campus-events/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAPIKey(t *testing.T) {
	a, err := GenerateAPIKey()
	require.NoError(t, err)
	b, err := GenerateAPIKey()
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}

func TestAPIKeys(t *testing.T) {
	env := newTestEnv(t)

	var created APIKeyResponse
	t.Run("Create", func(t *testing.T) {
		rr := env.api.Post("/api-keys", adminHeader, map[string]any{"name": "scanner"})
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
		created = decode[APIKeyResponse](t, rr)
		assert.Equal(t, "scanner", created.Name)
		assert.Len(t, created.Key, 64)
	})

	t.Run("NewKeyAuthenticates", func(t *testing.T) {
		rr := env.api.Get("/me", auth.APIKeyHeader+": "+created.Key)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	})

	t.Run("ListMasksKeys", func(t *testing.T) {
		rr := env.api.Get("/api-keys", adminHeader)
		require.Equal(t, http.StatusOK, rr.Code)
		keys := decode[[]APIKeyResponse](t, rr)
		require.Len(t, keys, 2)
		for _, k := range keys {
			assert.True(t, strings.HasPrefix(k.Key, "..."), k.Key)
		}
	})

	t.Run("OtherAdminsKeysAreHidden", func(t *testing.T) {
		other := models.Admin{DiscordID: "7", Username: "someone"}
		require.NoError(t, env.db.Create(&other).Error)
		require.NoError(t, env.db.Create(&models.APIKey{AdminID: other.ID, Key: "other-key", Name: "theirs"}).Error)

		rr := env.api.Get("/api-keys", adminHeader)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Len(t, decode[[]APIKeyResponse](t, rr), 2)
	})

	t.Run("Delete", func(t *testing.T) {
		rr := env.api.Delete("/api-keys/"+itoa(created.ID), adminHeader)
		assert.Equal(t, http.StatusNoContent, rr.Code)

		rr = env.api.Delete("/api-keys/"+itoa(created.ID), adminHeader)
		assert.Equal(t, http.StatusNotFound, rr.Code)

		rr = env.api.Get("/me", auth.APIKeyHeader+": "+created.Key)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
