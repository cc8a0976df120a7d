package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("config flag", func(t *testing.T) {
		var out bytes.Buffer
		cfg, exit, err := Parse([]string{"-config", "snapshot.hcl"}, &out)
		require.NoError(t, err)
		assert.False(t, exit)
		assert.Equal(t, "snapshot.hcl", cfg.ConfigPath)
		assert.Equal(t, "text", cfg.LogFormat)
		assert.Equal(t, "info", cfg.LogLevel)
	})

	t.Run("shorthand and positional forms", func(t *testing.T) {
		var out bytes.Buffer
		cfg, _, err := Parse([]string{"-c", "a.hcl"}, &out)
		require.NoError(t, err)
		assert.Equal(t, "a.hcl", cfg.ConfigPath)

		cfg, _, err = Parse([]string{"b.hcl"}, &out)
		require.NoError(t, err)
		assert.Equal(t, "b.hcl", cfg.ConfigPath)
	})

	t.Run("no config path is allowed", func(t *testing.T) {
		var out bytes.Buffer
		cfg, exit, err := Parse(nil, &out)
		require.NoError(t, err)
		assert.False(t, exit)
		assert.Empty(t, cfg.ConfigPath)
	})

	t.Run("invalid log format", func(t *testing.T) {
		var out bytes.Buffer
		_, _, err := Parse([]string{"-log-format", "xml"}, &out)
		var exitErr *ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, 2, exitErr.Code)
	})

	t.Run("invalid log level", func(t *testing.T) {
		var out bytes.Buffer
		_, _, err := Parse([]string{"-log-level", "loud"}, &out)
		var exitErr *ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, 2, exitErr.Code)
	})

	t.Run("help exits cleanly", func(t *testing.T) {
		var out bytes.Buffer
		_, exit, err := Parse([]string{"-h"}, &out)
		require.NoError(t, err)
		assert.True(t, exit)
		assert.Contains(t, out.String(), "flowgridgo")
	})
}
