package configwatcher

import (
	"context"
	"image"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/bft-labs/meshscreen/pkg/log"
	"github.com/bft-labs/meshscreen/pkg/screen"
)

type noopLogger struct{}

func (noopLogger) Debug(string, ...log.Field) {}
func (noopLogger) Info(string, ...log.Field)  {}
func (noopLogger) Warn(string, ...log.Field)  {}
func (noopLogger) Error(string, ...log.Field) {}

// fakeController records settings updates.
type fakeController struct {
	screen.Null
	mu       sync.Mutex
	settings screen.Settings
	updates  int
}

func (c *fakeController) Mode() screen.Mode     { return screen.ModeNormal }
func (c *fakeController) Snapshot() image.Image { return nil }
func (c *fakeController) Stats() screen.Stats   { return screen.Stats{} }

func (c *fakeController) Settings() screen.Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settings
}

func (c *fakeController) UpdateSettings(fn func(*screen.Settings)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&c.settings)
	c.updates++
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func TestPlugin_ReloadsDisplaySettings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	writeConfig(t, path, "panel = \"memory\"\n")

	ctrl := &fakeController{settings: screen.Settings{GPSEnabled: true}}
	plugin := New(Config{DebounceDelay: 10 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := plugin.Initialize(ctx, screen.PluginConfig{
		Logger:     noopLogger{},
		Controller: ctrl,
		ConfigPath: path,
	}); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	defer plugin.Shutdown(ctx)

	writeConfig(t, path, "[display]\nregion = \"EU_868\"\nauto_carousel = \"10s\"\n")

	waitFor(t, "reload", func() bool { return plugin.Reloads() > 0 })

	st := ctrl.Settings()
	if st.Region != "EU_868" {
		t.Errorf("Region = %q, want EU_868", st.Region)
	}
	if st.AutoCarousel != 10*time.Second {
		t.Errorf("AutoCarousel = %v, want 10s", st.AutoCarousel)
	}
	if !st.GPSEnabled {
		t.Error("GPSEnabled should be left alone when absent from the file")
	}
}

func TestPlugin_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	writeConfig(t, path, "")

	ctrl := &fakeController{}
	plugin := New(Config{DebounceDelay: 10 * time.Millisecond})

	ctx := context.Background()
	if err := plugin.Initialize(ctx, screen.PluginConfig{
		Logger:     noopLogger{},
		Controller: ctrl,
		ConfigPath: path,
	}); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	writeConfig(t, filepath.Join(dir, "other.toml"), "[display]\nregion = \"US\"\n")
	time.Sleep(100 * time.Millisecond)

	if err := plugin.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown failed: %v", err)
	}
	if plugin.Reloads() != 0 {
		t.Errorf("Reloads() = %d, want 0", plugin.Reloads())
	}
}

func TestPlugin_InvalidFileKeepsSettings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	writeConfig(t, path, "")

	ctrl := &fakeController{settings: screen.Settings{Region: "US"}}
	plugin := New(Config{DebounceDelay: 10 * time.Millisecond})

	ctx := context.Background()
	if err := plugin.Initialize(ctx, screen.PluginConfig{
		Logger:     noopLogger{},
		Controller: ctrl,
		ConfigPath: path,
	}); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	writeConfig(t, path, "[display]\nregion = \"EU_868\"\nauto_carousel = \"often\"\n")
	time.Sleep(150 * time.Millisecond)

	if err := plugin.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown failed: %v", err)
	}
	if got := ctrl.Settings().Region; got != "US" {
		t.Errorf("Region = %q, want US (a bad file must not apply partially)", got)
	}
	if plugin.Reloads() != 0 {
		t.Errorf("Reloads() = %d, want 0", plugin.Reloads())
	}
}

func TestPlugin_DisabledWithoutPath(t *testing.T) {
	plugin := New(DefaultConfig())
	ctx := context.Background()

	if err := plugin.Initialize(ctx, screen.PluginConfig{Logger: noopLogger{}}); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if err := plugin.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown failed: %v", err)
	}
}

func TestPlugin_Name(t *testing.T) {
	if got := New(DefaultConfig()).Name(); got != "configwatcher" {
		t.Errorf("Name() = %q, want configwatcher", got)
	}
}
