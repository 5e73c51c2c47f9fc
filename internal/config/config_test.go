package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var allVars = []string{
	"TICKFSM_MAX_TICKS",
	"TICKFSM_TICK_INTERVAL",
	"TICKFSM_LOG_LEVEL",
	"TICKFSM_LOG_FORMAT",
	"TICKFSM_MAX_CHAIN",
}

// clearEnv unsets every config variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range allVars {
		t.Setenv(key, "") // Registers restoration of the original value.
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoad(t *testing.T) {
	// Test Types
	type (
		given struct {
			env map[string]string
		}
		want struct {
			cfg Config
			err error
		}
	)

	defaults := Config{
		MaxTicks:     100,
		TickInterval: 10 * time.Millisecond,
		LogLevel:     slog.LevelInfo,
		LogFormat:    FormatText,
		MaxChain:     0,
	}

	// Test Cases
	tests := []struct {
		name  string
		given given
		want  want
	}{
		{
			name:  "defaults when nothing is set",
			given: given{},
			want:  want{cfg: defaults},
		},
		{
			name: "environment overrides defaults",
			given: given{
				env: map[string]string{
					"TICKFSM_MAX_TICKS":     "5",
					"TICKFSM_TICK_INTERVAL": "1s",
					"TICKFSM_LOG_LEVEL":     "debug",
					"TICKFSM_LOG_FORMAT":    "json",
					"TICKFSM_MAX_CHAIN":     "16",
				},
			},
			want: want{
				cfg: Config{
					MaxTicks:     5,
					TickInterval: time.Second,
					LogLevel:     slog.LevelDebug,
					LogFormat:    FormatJSON,
					MaxChain:     16,
				},
			},
		},
		{
			name:  "unparsable value",
			given: given{env: map[string]string{"TICKFSM_MAX_TICKS": "many"}},
			want:  want{err: ErrParsingConfig},
		},
		{
			name:  "unknown log format",
			given: given{env: map[string]string{"TICKFSM_LOG_FORMAT": "xml"}},
			want:  want{err: ErrInvalidConfig},
		},
		{
			name:  "non-positive max ticks",
			given: given{env: map[string]string{"TICKFSM_MAX_TICKS": "0"}},
			want:  want{err: ErrInvalidConfig},
		},
		{
			name:  "negative max chain",
			given: given{env: map[string]string{"TICKFSM_MAX_CHAIN": "-1"}},
			want:  want{err: ErrInvalidConfig},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			/* ---------------------------------- Given --------------------------------- */
			require := require.New(t)
			clearEnv(t)
			for k, v := range tt.given.env {
				t.Setenv(k, v)
			}

			/* ---------------------------------- When ---------------------------------- */
			cfg, err := Load()

			/* ---------------------------------- Then ---------------------------------- */
			if tt.want.err != nil {
				require.ErrorIs(err, tt.want.err)
				return
			}
			require.NoError(err)
			require.Equal(tt.want.cfg, cfg)
		})
	}
}

func TestLoad_EnvFiles(t *testing.T) {
	t.Run("reads values from an explicit env file", func(t *testing.T) {
		require := require.New(t)
		clearEnv(t)
		path := filepath.Join(t.TempDir(), "demo.env")
		require.NoError(os.WriteFile(path, []byte("TICKFSM_MAX_TICKS=7\nTICKFSM_LOG_FORMAT=json\n"), 0o600))

		cfg, err := Load(path)

		require.NoError(err)
		require.Equal(7, cfg.MaxTicks)
		require.Equal(FormatJSON, cfg.LogFormat)
	})

	t.Run("environment takes precedence over the env file", func(t *testing.T) {
		require := require.New(t)
		clearEnv(t)
		t.Setenv("TICKFSM_MAX_TICKS", "3")
		path := filepath.Join(t.TempDir(), "demo.env")
		require.NoError(os.WriteFile(path, []byte("TICKFSM_MAX_TICKS=7\n"), 0o600))

		cfg, err := Load(path)

		require.NoError(err)
		require.Equal(3, cfg.MaxTicks)
	})

	t.Run("returns ErrLoadingEnvFile when an explicit file is missing", func(t *testing.T) {
		require := require.New(t)
		clearEnv(t)

		_, err := Load(filepath.Join(t.TempDir(), "missing.env"))

		require.ErrorIs(err, ErrLoadingEnvFile)
	})
}
