package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/auth-smoke/internal/models"
	"github.com/hongminglow/auth-smoke/internal/models/dto"
	"github.com/hongminglow/auth-smoke/internal/storage/postgres"
)

// TestAuthIntegration exercises register/login/me against a live Postgres database.
func TestAuthIntegration(t *testing.T) {
	if os.Getenv("RUN_AUTH_INTEGRATION") != "true" {
		t.Skip("set RUN_AUTH_INTEGRATION=true to run this integration test")
	}

	loadDotEnv()
	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		t.Fatal("DATABASE_URL is required")
	}

	store, err := postgres.NewPlayerStore(context.Background(), dbURL)
	require.NoError(t, err)
	defer store.Close()

	ts := newTestServer(t, store)

	suffix := time.Now().UnixNano() % 1_000_000_000
	nick := fmt.Sprintf("it_%d", suffix)
	register := dto.RegisterRequest{
		Name:     "Integration Player",
		Nick:     nick,
		Email:    nick + "@example.com",
		Password: "Senha@123",
		Gang:     models.GangTomatoes,
	}

	status, body := doJSON(t, http.MethodPost, ts.URL+"/auth/register", register, "")
	require.Equal(t, http.StatusOK, status, string(body))
	var user models.UserRecord
	require.NoError(t, json.Unmarshal(body, &user))
	assert.Equal(t, register.Nick, user.Nick)
	assert.Equal(t, register.Email, user.Email)

	status, body = doJSON(t, http.MethodPost, ts.URL+"/auth/login", dto.LoginRequest{Identifier: nick, Password: register.Password}, "")
	require.Equal(t, http.StatusOK, status, string(body))
	var login dto.LoginResponse
	require.NoError(t, json.Unmarshal(body, &login))
	assert.Equal(t, user.ID, login.User.ID)
	assert.NotEmpty(t, strings.TrimSpace(login.Token))

	t.Logf("created player %s (id=%d) and logged in via /auth/login", nick, user.ID)
}

func loadDotEnv() {
	paths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}
	for _, path := range paths {
		_ = godotenv.Overload(path)
	}
}
