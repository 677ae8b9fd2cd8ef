package cmd

import (
	"bytes"
	"context"
	"log/slog"
	"net"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/auth-smoke/internal/config"
	"github.com/hongminglow/auth-smoke/internal/server"
	"github.com/hongminglow/auth-smoke/internal/storage/memory"
	"github.com/hongminglow/auth-smoke/internal/validate"
)

func restoreLogger(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
}

func refusedURL(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())
	return "http://" + addr
}

func TestRun_ExitsCleanlyOnFailures(t *testing.T) {
	restoreLogger(t)
	var out bytes.Buffer

	err := run(context.Background(), config.Smoke{BaseURL: refusedURL(t), Timeout: time.Second}, &out, false)
	assert.NoError(t, err)
	assert.Contains(t, out.String(), "Exception while registering joao")
}

func TestRun_StrictReportsFailures(t *testing.T) {
	restoreLogger(t)
	var out bytes.Buffer

	err := run(context.Background(), config.Smoke{BaseURL: refusedURL(t), Strict: true, Timeout: time.Second}, &out, false)
	assert.ErrorIs(t, err, errStepsFailed)
}

func TestRun_StrictReportsInterruption(t *testing.T) {
	restoreLogger(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err := run(ctx, config.Smoke{BaseURL: refusedURL(t), Strict: true}, &out, false)
	assert.ErrorIs(t, err, errStepsFailed)
	assert.Contains(t, out.String(), "Run interrupted")
}

func TestRun_InterruptionExitsCleanlyWithoutStrict(t *testing.T) {
	restoreLogger(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	assert.NoError(t, run(ctx, config.Smoke{BaseURL: refusedURL(t)}, &out, false))
}

func TestRootLong_DocumentsConfigErrors(t *testing.T) {
	assert.Contains(t, rootCmd.Long, "invalid setting")
}

func TestRun_StrictPassesAgainstHealthyService(t *testing.T) {
	restoreLogger(t)
	cfg := config.Config{JWTSecret: "secret", JWTIssuer: "auth-smoke", JWTTTL: time.Hour, AnonTTL: time.Hour}
	ts := httptest.NewServer(server.Handler(cfg, memory.NewPlayerStore(), validate.MustNew()))
	defer ts.Close()

	var out bytes.Buffer
	err := run(context.Background(), config.Smoke{BaseURL: ts.URL, Strict: true}, &out, false)
	require.NoError(t, err, out.String())
	assert.Contains(t, out.String(), "User 2: maria")
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	versionCmd.Run(versionCmd, nil)
	assert.Equal(t, "authsmoke v"+version+"\n", out.String())
}
