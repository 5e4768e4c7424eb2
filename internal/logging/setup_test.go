package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"", slog.LevelInfo, false},
		{"DEBUG", slog.LevelDebug, false},
		{" warning ", slog.LevelWarn, false},
		{"err", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew_Slog(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Options{Backend: BackendSlog, Level: "warn", Writer: &buf})
	require.NoError(t, err)

	l.Info(context.Background(), "hidden")
	l.Warn(context.Background(), "shown", "k", "v")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown")
	assert.Contains(t, buf.String(), "k=v")
}

func TestNew_SlogJSON(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Options{Level: "info", JSON: true, Writer: &buf})
	require.NoError(t, err)

	l.Info(context.Background(), "json", "n", 1)
	assert.Contains(t, buf.String(), `"msg":"json"`)
	assert.Contains(t, buf.String(), `"n":1`)
}

func TestNew_Zap(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Options{Backend: BackendZap, Level: "debug", JSON: true, Writer: &buf})
	require.NoError(t, err)

	l.With("component", "registry").Debug(context.Background(), "refetch", "generation", 3)
	require.NoError(t, l.(*ZapLogger).Sync())

	out := buf.String()
	assert.Contains(t, out, `"msg":"refetch"`)
	assert.Contains(t, out, `"component":"registry"`)
	assert.Contains(t, out, `"generation":3`)
}

func TestNew_Errors(t *testing.T) {
	_, err := New(Options{Level: "loud"})
	require.Error(t, err)

	_, err = New(Options{Backend: "syslog"})
	require.Error(t, err)
}
