package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "stocksim.yaml", `
currency: EUR
log_level: debug
source:
  provider: yahoo
  timeout: 3s
cache:
  redis_addr: localhost:6379
storage:
  driver: sqlite
`)

	tests := []struct {
		name    string
		path    string
		dotenv  string
		environ []string
		want    Config
	}{
		{
			name:    "defaults",
			path:    filepath.Join(dir, "missing.yaml"),
			environ: []string{"STOCKSIM_SOURCE_API_KEY=k"},
			want: Config{
				Currency: "USD",
				LogLevel: "info",
				Source:   Source{Provider: "eodhd", APIKey: "k", Timeout: 10 * time.Second},
				Cache:    Cache{TTL: 12 * time.Hour},
				Storage:  Storage{Driver: "jsonl"},
			},
		},
		{
			name: "file",
			path: file,
			want: Config{
				Currency: "EUR",
				LogLevel: "debug",
				Source:   Source{Provider: "yahoo", Timeout: 3 * time.Second},
				Cache:    Cache{RedisAddr: "localhost:6379", TTL: 12 * time.Hour},
				Storage:  Storage{Driver: "sqlite", DSN: "stocksim.db"},
			},
		},
		{
			name:    "environment overrides file",
			path:    file,
			dotenv:  "STOCKSIM_CURRENCY=GBP\nSTOCKSIM_CACHE_TTL=1h\n",
			environ: []string{"STOCKSIM_CURRENCY=CHF", "STOCKSIM_STORAGE_DSN=portfolios.db"},
			want: Config{
				Currency: "CHF",
				LogLevel: "debug",
				Source:   Source{Provider: "yahoo", Timeout: 3 * time.Second},
				Cache:    Cache{RedisAddr: "localhost:6379", TTL: time.Hour},
				Storage:  Storage{Driver: "sqlite", DSN: "portfolios.db"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dotenv := filepath.Join(t.TempDir(), ".env")
			if tt.dotenv != "" {
				writeFile(t, filepath.Dir(dotenv), ".env", tt.dotenv)
			}
			got, err := load(tt.path, dotenv, tt.environ)
			if err != nil {
				t.Fatalf("load() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, *got); diff != "" {
				t.Errorf("load() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"bad yaml", "currency: [", "parse config"},
		{"bad level", "log_level: loud\nsource: {provider: yahoo}", "log_level"},
		{"unknown provider", "source: {provider: bloomberg}", "unknown source.provider"},
		{"missing key", "source: {provider: eodhd}", "api_key"},
		{"alpaca secret", "source: {provider: alpaca, api_key: k}", "api_secret"},
		{"pgx dsn", "source: {provider: yahoo}\nstorage: {driver: pgx}", "storage.dsn"},
		{"unknown driver", "source: {provider: yahoo}\nstorage: {driver: csv}", "unknown storage.driver"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := writeFile(t, dir, "c.yaml", tt.yaml)
			_, err := load(path, filepath.Join(dir, ".env"), nil)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("load() error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Level(t *testing.T) {
	c := Config{LogLevel: "warn"}
	if got := c.Level(); got != zerolog.WarnLevel {
		t.Errorf("Level() = %v, want warn", got)
	}
}
