package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zerolog.Level
		wantErr bool
	}{
		{"", zerolog.InfoLevel, false},
		{"debug", zerolog.DebugLevel, false},
		{"WARNING", zerolog.WarnLevel, false},
		{" error ", zerolog.ErrorLevel, false},
		{"loud", zerolog.NoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestComponentJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Init(Config{Level: "debug", Format: "json", Output: &buf}))
	t.Cleanup(func() { _ = Init(Config{}) })

	log := Component("reveal")
	log.Debug().Str("step", "welcome").Msg("step applied")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "reveal", line["component"])
	require.Equal(t, "welcome", line["step"])
	require.Equal(t, "step applied", line["message"])
}

func TestInitRejectsUnknownFormat(t *testing.T) {
	require.Error(t, Init(Config{Format: "xml"}))
}
