package config

import (
	"strings"
	"testing"
	"time"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "zero value", cfg: Config{}},
		{name: "table format", cfg: Config{Format: "TABLE"}},
		{
			name: "full",
			cfg: Config{
				Format:      "json",
				Scan:        ScanConfig{MaxLineBytes: 1 << 20},
				Compression: CompressionConfig{Level: 19},
				Watch:       WatchConfig{Debounce: "1s"},
			},
		},
		{name: "bad format", cfg: Config{Format: "yaml"}, wantErr: "invalid format"},
		{name: "negative line limit", cfg: Config{Scan: ScanConfig{MaxLineBytes: -1}}, wantErr: "max_line_bytes"},
		{name: "level too high", cfg: Config{Compression: CompressionConfig{Level: 23}}, wantErr: "compression.level"},
		{name: "bad debounce", cfg: Config{Watch: WatchConfig{Debounce: "soon"}}, wantErr: "watch.debounce"},
		{name: "negative debounce", cfg: Config{Watch: WatchConfig{Debounce: "-1s"}}, wantErr: "negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_DebounceDuration(t *testing.T) {
	cfg := Config{}
	d, err := cfg.DebounceDuration()
	if err != nil {
		t.Fatalf("DebounceDuration() error = %v", err)
	}
	if d != DefaultDebounce {
		t.Errorf("default debounce = %v, want %v", d, DefaultDebounce)
	}

	cfg.Watch.Debounce = "250ms"
	d, err = cfg.DebounceDuration()
	if err != nil {
		t.Fatalf("DebounceDuration() error = %v", err)
	}
	if d != 250*time.Millisecond {
		t.Errorf("debounce = %v, want 250ms", d)
	}
}
