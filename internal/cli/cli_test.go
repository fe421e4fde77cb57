package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vijay-prabhu/jobmatch/internal/config"
)

func TestDefaultConfigParses(t *testing.T) {
	cfg, err := config.Parse([]byte(defaultConfig))
	if err != nil {
		t.Fatalf("default config is invalid: %v", err)
	}
	def := config.Default()
	if cfg.Hybrid != def.Hybrid || cfg.Collaborative != def.Collaborative || cfg.Scheduler != def.Scheduler {
		t.Errorf("default config drifted from config.Default():\n%+v\n%+v", cfg, def)
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"12h", 12 * time.Hour, false},
		{"7d", 7 * 24 * time.Hour, false},
		{"2w", 14 * 24 * time.Hour, false},
		{"1m", 30 * 24 * time.Hour, false},
		{"d", 0, true},
		{"xd", 0, true},
		{"5y", 0, true},
	}
	for _, tt := range tests {
		got, err := parseDuration(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseDuration(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseDuration(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSinceFlag(t *testing.T) {
	since, err := sinceFlag("")
	if err != nil || since != nil {
		t.Errorf("sinceFlag(\"\") = %v, %v", since, err)
	}

	since, err = sinceFlag("1d")
	if err != nil {
		t.Fatalf("sinceFlag failed: %v", err)
	}
	if d := time.Since(*since); d < 24*time.Hour || d > 25*time.Hour {
		t.Errorf("since is %v ago, want about a day", d)
	}
}

func TestOpenApp(t *testing.T) {
	tests := []struct {
		backend string
		wantErr bool
	}{
		{"sqlite", false},
		{"memory", false},
	}
	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "config.toml")
			data := fmt.Sprintf(`
[database]
path = %q

[catalog]
path = %q

[store]
backend = %q

[logging]
level = "error"
`, filepath.Join(dir, "jobmatch.db"), filepath.Join(dir, "catalog.db"), tt.backend)
			if err := os.WriteFile(path, []byte(data), 0644); err != nil {
				t.Fatal(err)
			}

			old := configPath
			configPath = path
			t.Cleanup(func() { configPath = old })

			a, err := openApp(context.Background())
			if (err != nil) != tt.wantErr {
				t.Fatalf("openApp error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if a.engine == nil || a.catalog == nil || a.audit == nil {
				t.Errorf("app not fully opened: %+v", a)
			}
			if err := a.Close(); err != nil {
				t.Errorf("Close failed: %v", err)
			}
		})
	}
}
