package cli

import (
	"flag"
	"testing"

	urfavecli "github.com/urfave/cli/v2"
)

func TestSplitKV(t *testing.T) {
	tests := []struct {
		in    string
		key   string
		value string
		ok    bool
	}{
		{"USER=alice", "USER", "alice", true},
		{"TOKEN=a=b=c", "TOKEN", "a=b=c", true},
		{"EMPTY=", "EMPTY", "", true},
		{"=value", "", "", false},
		{"novalue", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			k, v, ok := splitKV(tt.in)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && (k != tt.key || v != tt.value) {
				t.Errorf("got %q=%q, want %q=%q", k, v, tt.key, tt.value)
			}
		})
	}
}

func TestLoadConfigFlagOverrides(t *testing.T) {
	set := flag.NewFlagSet("test", 0)
	set.String("config", "", "")
	set.String("api-key", "", "")
	set.String("vision-url", "", "")
	set.String("device", "", "")
	set.String("output", "", "")
	set.Bool("basic", false, "")

	set.Set("api-key", "flag-key")
	set.Set("output", t.TempDir())
	set.Set("basic", "true")

	app := urfavecli.NewApp()
	ctx := urfavecli.NewContext(app, set, nil)

	cfg, err := loadConfig(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Vision.APIKey != "flag-key" {
		t.Errorf("APIKey = %q", cfg.Vision.APIKey)
	}
	if cfg.Intelligent() {
		t.Error("--basic should disable intelligent mode")
	}
}
