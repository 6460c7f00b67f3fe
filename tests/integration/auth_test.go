//go:build integration

package integration

import (
	"encoding/json"
	"net/http"
	"testing"

	"credit_scoring/internal/handler"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAuth_SignupLoginFlow covers the complete authentication flow.
func TestAuth_SignupLoginFlow(t *testing.T) {
	env := SetupTestEnv(t)
	defer env.Cleanup(t)

	router := handler.SetupHandler(env.DB, env.RedisClient, env.Config)

	// Signup
	w := doRequest(router, "POST", "/api/auth/signup", map[string]string{
		"name":     "Marie Dupont",
		"email":    "Marie@Example.com",
		"password": "s3cret-pass",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// Duplicate email conflicts, case-insensitively.
	w = doRequest(router, "POST", "/api/auth/signup", map[string]string{
		"name":     "Marie Again",
		"email":    "marie@example.com",
		"password": "other-pass",
	}, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	// Login with the stored (lowercased) email.
	w = doRequest(router, "POST", "/api/auth/login", map[string]string{
		"email":    "marie@example.com",
		"password": "s3cret-pass",
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var loginResp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &loginResp))
	token := loginResp["token"].(string)
	assert.NotEmpty(t, token)
	assert.NotEmpty(t, loginResp["refresh_token"])

	userJSON := loginResp["user"].(map[string]interface{})
	assert.Equal(t, "marie@example.com", userJSON["email"])
	assert.Equal(t, "analyst", userJSON["role"])
	_, hasPassword := userJSON["password"]
	assert.False(t, hasPassword, "password hash must never be serialized")

	// Me returns the profile for the bearer token.
	w = doRequest(router, "GET", "/api/auth/me", nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	var meResp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &meResp))
	assert.Equal(t, "Marie Dupont", meResp["name"])

	// Refresh yields a usable access token.
	w = doRequest(router, "POST", "/api/auth/refresh", map[string]string{
		"refresh_token": loginResp["refresh_token"].(string),
	}, "")
	require.Equal(t, http.StatusOK, w.Code)

	var refreshResp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &refreshResp))
	w = doRequest(router, "GET", "/api/auth/me", nil, refreshResp["token"].(string))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuth_WrongPassword(t *testing.T) {
	env := SetupTestEnv(t)
	defer env.Cleanup(t)

	router := handler.SetupHandler(env.DB, env.RedisClient, env.Config)

	w := doRequest(router, "POST", "/api/auth/signup", map[string]string{
		"name":     "Marie Dupont",
		"email":    "marie@example.com",
		"password": "s3cret-pass",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(router, "POST", "/api/auth/login", map[string]string{
		"email":    "marie@example.com",
		"password": "wrong-pass",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Unknown email answers identically.
	w = doRequest(router, "POST", "/api/auth/login", map[string]string{
		"email":    "nobody@example.com",
		"password": "s3cret-pass",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
