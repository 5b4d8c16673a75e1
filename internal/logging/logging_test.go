package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitJSON(t *testing.T) {
	t.Cleanup(InitDefault)

	var buf bytes.Buffer
	require.NoError(t, Init(Options{Level: "debug", Format: "json", Out: &buf}))
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	log.Debug().Str("provider", "ldap").Msg("fetching users")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "ldap", entry["provider"])
	assert.Equal(t, "fetching users", entry["message"])
}

func TestInitLevels(t *testing.T) {
	t.Cleanup(InitDefault)

	tests := []struct {
		level   string
		want    zerolog.Level
		wantErr bool
	}{
		{level: "", want: zerolog.InfoLevel},
		{level: "WARN", want: zerolog.WarnLevel},
		{level: "error", want: zerolog.ErrorLevel},
		{level: "chatty", want: zerolog.InfoLevel, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			err := Init(Options{Level: tt.level, NoColor: true, Out: &bytes.Buffer{}})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, zerolog.GlobalLevel())
		})
	}
}

func TestInitConsoleSuppressesBelowLevel(t *testing.T) {
	t.Cleanup(InitDefault)

	var buf bytes.Buffer
	require.NoError(t, Init(Options{Level: "warn", NoColor: true, Out: &buf}))

	log.Info().Msg("hidden")
	log.Warn().Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
