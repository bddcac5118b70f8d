package main

import (
	"bytes"
	"context"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"cocktailnerd/internal/backend"
	"cocktailnerd/internal/config"
	"cocktailnerd/internal/session"
	"cocktailnerd/internal/stubserver"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setup(t *testing.T) *bytes.Buffer {
	t.Helper()
	logger = zap.NewNop()
	cfg = config.DefaultConfig()
	gin.SetMode(gin.TestMode)
	return &bytes.Buffer{}
}

func testCmd(out *bytes.Buffer) *cobra.Command {
	cmd := &cobra.Command{}
	cmd.SetOut(out)
	cmd.SetContext(context.Background())
	return cmd
}

func TestCategories(t *testing.T) {
	out := setup(t)
	require.NoError(t, runCategories(testCmd(out), nil))
	assert.Equal(t, strings.Join(config.DefaultCategories, "\n")+"\n", out.String())
}

func TestInitConfig(t *testing.T) {
	out := setup(t)
	path := filepath.Join(t.TempDir(), "cocktail.yaml")
	forceInit = false

	require.NoError(t, runInitConfig(testCmd(out), []string{path}))
	assert.Contains(t, out.String(), "Wrote "+path)

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultCategories, loaded.Session.Categories)

	err = runInitConfig(testCmd(out), []string{path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	forceInit = true
	t.Cleanup(func() { forceInit = false })
	assert.NoError(t, runInitConfig(testCmd(out), []string{path}))
}

func TestRecommend_AgainstStub(t *testing.T) {
	out := setup(t)
	ts := httptest.NewServer(stubserver.New(stubserver.Config{}, nil, nil).Handler())
	defer ts.Close()

	b := backend.NewHTTPClient(ts.URL, time.Second)
	require.NoError(t, recommend(context.Background(), testCmd(out), b, []string{"for", "a", "party"}, []string{"Sweet"}))

	assert.Contains(t, out.String(), "Daiquiri")
	assert.Contains(t, out.String(), "for a party")
	assert.NotContains(t, out.String(), "\n\n", "newlines are stripped from the response")
}

func TestRecommend_PlaceholderQuery(t *testing.T) {
	out := setup(t)
	var got backend.Request
	b := backend.Func(func(_ context.Context, req backend.Request) (backend.Payload, error) {
		got = req
		return backend.Payload(`{"response":"Mojito"}`), nil
	})

	require.NoError(t, recommend(context.Background(), testCmd(out), b, nil, nil))
	assert.Equal(t, "no categories selected", got.Query)
	assert.Equal(t, "Mojito\n", out.String())
}

func TestRecommend_UnknownTag(t *testing.T) {
	out := setup(t)
	b := backend.Func(func(context.Context, backend.Request) (backend.Payload, error) {
		t.Error("backend must not be called")
		return nil, nil
	})

	err := recommend(context.Background(), testCmd(out), b, nil, []string{"Salty"})
	var unknown *session.UnknownCategoryError
	assert.True(t, errors.As(err, &unknown))
}

func TestRecommend_BackendError(t *testing.T) {
	out := setup(t)
	b := backend.Func(func(context.Context, backend.Request) (backend.Payload, error) {
		return nil, &backend.TransportError{StatusCode: 500, Message: "Backend exploded"}
	})

	err := recommend(context.Background(), testCmd(out), b, []string{"q"}, nil)
	require.Error(t, err)
	assert.Equal(t, "Backend exploded", err.Error())
	assert.Empty(t, out.String())
}

func TestRecommend_Timeout(t *testing.T) {
	out := setup(t)
	cfg.Session.Timeout = "20ms"
	b := backend.Func(func(ctx context.Context, _ backend.Request) (backend.Payload, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})

	err := recommend(context.Background(), testCmd(out), b, []string{"q"}, nil)
	require.Error(t, err)
	assert.Equal(t, session.TimeoutMessage, err.Error())
}

func TestRecommend_SlowBackendWithinSessionTimeout(t *testing.T) {
	out := setup(t)
	slow := backend.Func(func(ctx context.Context, req backend.Request) (backend.Payload, error) {
		select {
		case <-time.After(150 * time.Millisecond):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		return stubserver.Canned{}.Recommend(ctx, req)
	})
	ts := httptest.NewServer(stubserver.New(stubserver.Config{}, slow, nil).Handler())
	defer ts.Close()

	cfg.Backend.BaseURL = ts.URL
	cfg.Backend.Timeout = "50ms"
	cfg.Session.Timeout = "5s"

	b, err := newBackend(context.Background(), cfg)
	require.NoError(t, err)
	require.NoError(t, recommend(context.Background(), testCmd(out), b, []string{"q"}, []string{"Bitter"}))
	assert.Contains(t, out.String(), "Negroni")
}

func TestRecommend_InvalidConfig(t *testing.T) {
	out := setup(t)
	cfg.Sanitizer.Policy = "loose"

	err := recommend(context.Background(), testCmd(out), backend.Func(nil), nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestHello(t *testing.T) {
	out := setup(t)
	ts := httptest.NewServer(stubserver.New(stubserver.Config{}, nil, nil).Handler())
	defer ts.Close()
	cfg.Backend.BaseURL = ts.URL

	require.NoError(t, runHello(testCmd(out), nil))
	assert.Equal(t, "Hello, World! (success)\n", out.String())
}

func TestNewBackend(t *testing.T) {
	setup(t)

	b, err := newBackend(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &backend.HTTPClient{}, b)

	cfg.Backend.Provider = "carrier-pigeon"
	_, err = newBackend(context.Background(), cfg)
	assert.Error(t, err)
}

func TestRootPreRunLoadsConfig(t *testing.T) {
	setup(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "c.yaml")
	require.NoError(t, os.WriteFile(path, []byte("session:\n  categories: [Smoky]\n"), 0644))

	configPath = path
	timeout = 5 * time.Second
	t.Cleanup(func() {
		configPath = defaultConfigPath
		timeout = 0
	})

	cmd := &cobra.Command{Use: "categories"}
	rootCmd.AddCommand(cmd)
	t.Cleanup(func() { rootCmd.RemoveCommand(cmd) })

	require.NoError(t, rootCmd.PersistentPreRunE(cmd, nil))
	assert.Equal(t, []string{"Smoky"}, cfg.Session.Categories)
	assert.Equal(t, 5*time.Second, cfg.GetSessionTimeout())
	rootCmd.PersistentPostRun(cmd, nil)
}
