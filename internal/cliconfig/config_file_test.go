package cliconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bft-labs/meshscreen/internal/app"
)

func TestApplyFileConfig(t *testing.T) {
	trueVal := true
	falseVal := false

	tests := []struct {
		name       string
		fileConfig FileConfig
		changed    map[string]bool
		initial    Config
		expected   Config
		wantErr    bool
	}{
		{
			name: "applies all valid config values",
			fileConfig: FileConfig{
				Panel:       "oled",
				Width:       128,
				Height:      32,
				BootTimeout: "2s",
				Flip:        &trueVal,
				Welcome:     &falseVal,
				Display: DisplaySettings{
					Region:       "EU_868",
					AutoCarousel: "30s",
					Imperial:     &trueVal,
				},
			},
			changed: map[string]bool{},
			initial: Config{Welcome: true},
			expected: Config{
				Panel:        "oled",
				Width:        128,
				Height:       32,
				BootTimeout:  2 * time.Second,
				Flip:         true,
				Welcome:      false,
				Region:       "EU_868",
				AutoCarousel: 30 * time.Second,
				Imperial:     true,
			},
		},
		{
			name: "respects changed flags",
			fileConfig: FileConfig{
				Panel:   "eink",
				OEMText: "ACME",
			},
			changed: map[string]bool{"panel": true},
			initial: Config{Panel: "memory"},
			expected: Config{
				Panel:   "memory", // unchanged because flag was set
				OEMText: "ACME",
			},
		},
		{
			name: "zero values leave defaults alone",
			fileConfig: FileConfig{
				Width: 0,
			},
			changed:  map[string]bool{},
			initial:  Config{Width: 128, Welcome: true},
			expected: Config{Width: 128, Welcome: true},
		},
		{
			name: "returns error for invalid duration",
			fileConfig: FileConfig{
				Display: DisplaySettings{AutoCarousel: "often"},
			},
			changed: map[string]bool{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.initial
			err := ApplyFileConfig(&cfg, tt.fileConfig, tt.changed)

			if tt.wantErr && err == nil {
				t.Error("ApplyFileConfig() expected error but got nil")
				return
			}
			if !tt.wantErr && err != nil {
				t.Errorf("ApplyFileConfig() unexpected error: %v", err)
				return
			}
			if tt.wantErr {
				return
			}

			if cfg.Panel != tt.expected.Panel {
				t.Errorf("Panel = %v, want %v", cfg.Panel, tt.expected.Panel)
			}
			if cfg.OEMText != tt.expected.OEMText {
				t.Errorf("OEMText = %v, want %v", cfg.OEMText, tt.expected.OEMText)
			}
			if cfg.Width != tt.expected.Width || cfg.Height != tt.expected.Height {
				t.Errorf("size = %dx%d, want %dx%d", cfg.Width, cfg.Height, tt.expected.Width, tt.expected.Height)
			}
			if cfg.BootTimeout != tt.expected.BootTimeout {
				t.Errorf("BootTimeout = %v, want %v", cfg.BootTimeout, tt.expected.BootTimeout)
			}
			if cfg.Flip != tt.expected.Flip {
				t.Errorf("Flip = %v, want %v", cfg.Flip, tt.expected.Flip)
			}
			if cfg.Welcome != tt.expected.Welcome {
				t.Errorf("Welcome = %v, want %v", cfg.Welcome, tt.expected.Welcome)
			}
			if cfg.Region != tt.expected.Region {
				t.Errorf("Region = %v, want %v", cfg.Region, tt.expected.Region)
			}
			if cfg.AutoCarousel != tt.expected.AutoCarousel {
				t.Errorf("AutoCarousel = %v, want %v", cfg.AutoCarousel, tt.expected.AutoCarousel)
			}
			if cfg.Imperial != tt.expected.Imperial {
				t.Errorf("Imperial = %v, want %v", cfg.Imperial, tt.expected.Imperial)
			}
		})
	}
}

func TestApplyDisplaySettings(t *testing.T) {
	falseVal := false
	st := app.Settings{Region: "US", GPSEnabled: true, Imperial: true}

	err := ApplyDisplaySettings(&st, DisplaySettings{
		Region:     "EU_433",
		GPSEnabled: &falseVal,
	})
	if err != nil {
		t.Fatalf("ApplyDisplaySettings() error = %v", err)
	}
	if st.Region != "EU_433" {
		t.Errorf("Region = %v, want EU_433", st.Region)
	}
	if st.GPSEnabled {
		t.Error("GPSEnabled = true, want false")
	}
	if !st.Imperial {
		t.Error("Imperial should be left alone when absent from the file")
	}

	if err := ApplyDisplaySettings(&st, DisplaySettings{AutoCarousel: "x"}); err == nil {
		t.Error("ApplyDisplaySettings() expected error for invalid duration")
	}
}

func TestLoadFileConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	tomlContent := `
panel = "oled"
bus = "/dev/i2c-1"
height = 32
boot_timeout = "3s"
flip = true

[display]
region = "EU_868"
auto_carousel = "15s"
imperial = true
`

	if err := os.WriteFile(configPath, []byte(tomlContent), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	fc, err := LoadFileConfig(configPath)
	if err != nil {
		t.Fatalf("LoadFileConfig() error = %v", err)
	}

	if fc.Panel != "oled" {
		t.Errorf("Panel = %v, want oled", fc.Panel)
	}
	if fc.Bus != "/dev/i2c-1" {
		t.Errorf("Bus = %v, want /dev/i2c-1", fc.Bus)
	}
	if fc.Height != 32 {
		t.Errorf("Height = %v, want 32", fc.Height)
	}
	if fc.BootTimeout != "3s" {
		t.Errorf("BootTimeout = %v, want 3s", fc.BootTimeout)
	}
	if fc.Flip == nil || !*fc.Flip {
		t.Errorf("Flip = %v, want true", fc.Flip)
	}
	if fc.Display.Region != "EU_868" {
		t.Errorf("Display.Region = %v, want EU_868", fc.Display.Region)
	}
	if fc.Display.AutoCarousel != "15s" {
		t.Errorf("Display.AutoCarousel = %v, want 15s", fc.Display.AutoCarousel)
	}
	if fc.Display.Imperial == nil || !*fc.Display.Imperial {
		t.Errorf("Display.Imperial = %v, want true", fc.Display.Imperial)
	}
}

func TestLoadFileConfig_InvalidFile(t *testing.T) {
	_, err := LoadFileConfig("/nonexistent/path/config.toml")
	if err == nil {
		t.Error("LoadFileConfig() expected error for nonexistent file")
	}
}

func TestLoadFileConfig_InvalidTOML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.toml")

	invalidContent := `
panel = "oled"
this is not valid toml
`

	if err := os.WriteFile(configPath, []byte(invalidContent), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	_, err := LoadFileConfig(configPath)
	if err == nil {
		t.Error("LoadFileConfig() expected error for invalid TOML")
	}
}

func TestDefaultConfigPath(t *testing.T) {
	path := DefaultConfigPath()

	if path != "" && !strings.Contains(path, ".meshscreen") {
		t.Errorf("DefaultConfigPath() = %v, should contain .meshscreen", path)
	}
}

func TestFileExists(t *testing.T) {
	tmpDir := t.TempDir()
	existingFile := filepath.Join(tmpDir, "exists.txt")

	if err := os.WriteFile(existingFile, []byte("test"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	if !FileExists(existingFile) {
		t.Error("FileExists() = false, want true for existing file")
	}

	if FileExists(filepath.Join(tmpDir, "nonexistent.txt")) {
		t.Error("FileExists() = true, want false for nonexistent file")
	}
}
