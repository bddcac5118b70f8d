package logging

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"cocktailnerd/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestDisabledByDefault(t *testing.T) {
	t.Cleanup(CloseAll)
	require.NoError(t, Initialize(config.LoggingConfig{DebugMode: false}))

	assert.False(t, IsDebugMode())
	assert.False(t, IsCategoryEnabled(CategorySession))
	// A no-op logger must never panic.
	Get(CategorySession).Info("dropped")
}

// TestAllCategoriesLog tests that every category writes to the shared file when debug_mode is true
func TestAllCategoriesLog(t *testing.T) {
	t.Cleanup(CloseAll)

	logPath := filepath.Join(t.TempDir(), "logs", "cocktail.log")
	require.NoError(t, Initialize(config.LoggingConfig{
		DebugMode: true,
		Level:     "debug",
		Format:    "json",
		File:      logPath,
	}))

	categories := []Category{CategoryBoot, CategorySession, CategoryAPI, CategoryUI, CategoryStub}
	for _, cat := range categories {
		Get(cat).Debug("hello from " + string(cat))
	}
	Sync()

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	content := string(data)
	for _, cat := range categories {
		assert.Contains(t, content, `"logger":"`+string(cat)+`"`)
	}
}

func TestCategoryFilter(t *testing.T) {
	t.Cleanup(CloseAll)

	require.NoError(t, Initialize(config.LoggingConfig{
		DebugMode:  true,
		File:       filepath.Join(t.TempDir(), "cocktail.log"),
		Categories: map[string]bool{"api": false, "session": true},
	}))

	assert.True(t, IsCategoryEnabled(CategorySession))
	assert.False(t, IsCategoryEnabled(CategoryAPI))
	assert.True(t, IsCategoryEnabled(CategoryUI), "unspecified categories default to enabled")
}

func TestInvalidLevel(t *testing.T) {
	t.Cleanup(CloseAll)

	err := Initialize(config.LoggingConfig{DebugMode: true, Level: "loud"})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "loud"))
}

func TestSetBaseWithObserver(t *testing.T) {
	t.Cleanup(CloseAll)

	core, logs := observer.New(zapcore.DebugLevel)
	SetBase(zap.New(core))

	Get(CategoryAPI).Info("request sent", zap.String("request_id", "abc"))

	entries := logs.FilterMessage("request sent").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "api", entries[0].LoggerName)
	assert.Equal(t, "abc", entries[0].ContextMap()["request_id"])
}

func TestConcurrentGet(t *testing.T) {
	t.Cleanup(CloseAll)

	core, logs := observer.New(zapcore.InfoLevel)
	SetBase(zap.New(core))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			Get(CategorySession).Info("tick")
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, logs.FilterMessage("tick").Len())
}
