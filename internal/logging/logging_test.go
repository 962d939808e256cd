package logging

import "testing"

func TestNewLevels(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "defaults", cfg: Config{}},
		{name: "debug console", cfg: Config{Level: "debug", Format: "console"}},
		{name: "upper case json", cfg: Config{Level: "ERROR", Format: "JSON"}},
		{name: "bad level", cfg: Config{Level: "loud"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			Sync(logger)
		})
	}
}

func TestNewDefaultLevelIsWarn(t *testing.T) {
	logger, err := New(Config{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if logger.Core().Enabled(-1) {
		t.Error("debug enabled by default")
	}
	if !logger.Core().Enabled(1) {
		t.Error("warn disabled by default")
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("MOBSF_LOG_LEVEL", "debug")
	t.Setenv("MOBSF_LOG_FORMAT", "json")

	cfg := FromEnv()
	if cfg.Level != "debug" || cfg.Format != "json" {
		t.Errorf("FromEnv = %+v", cfg)
	}
}

func TestBuildConfigDisablesStacktraces(t *testing.T) {
	for _, format := range []string{"console", "json"} {
		zcfg, err := buildConfig(Config{Format: format})
		if err != nil {
			t.Fatalf("%s: buildConfig failed: %v", format, err)
		}
		if !zcfg.DisableStacktrace {
			t.Errorf("%s: stack traces enabled", format)
		}
		if len(zcfg.OutputPaths) != 1 || zcfg.OutputPaths[0] != "stderr" {
			t.Errorf("%s: OutputPaths = %v", format, zcfg.OutputPaths)
		}
	}
}
