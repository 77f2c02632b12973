package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientReadsStoredToken(t *testing.T) {
	viper.Set("token", "from-config")
	defer viper.Set("token", "")
	t.Setenv("STAFFEYE_TOKEN", "")

	c, err := NewClient()
	require.NoError(t, err)
	assert.Equal(t, "from-config", c.token)

	// The env var overrides the stored token for scripting.
	t.Setenv("STAFFEYE_TOKEN", "from-env")
	c, err = NewClient()
	require.NoError(t, err)
	assert.Equal(t, "from-env", c.token)
}

func TestLoginObtainsAndKeepsToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v1/auth/login", r.URL.Path)

		var creds struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		if creds.Email != "admin@x.com" || creds.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "invalid credentials"})
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"token": "issued-token"})
	}))
	defer srv.Close()

	t.Setenv("STAFFEYE_API_URL", srv.URL)
	t.Setenv("STAFFEYE_TOKEN", "")
	viper.Set("token", "")

	c, err := NewClient()
	require.NoError(t, err)

	token, err := c.Login("admin@x.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "issued-token", token)
	assert.Equal(t, "issued-token", c.token, "subsequent requests must carry the token")

	_, err = c.Login("admin@x.com", "wrong")
	assert.Error(t, err)
}
