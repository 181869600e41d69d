package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadKeepsDefaults(t *testing.T) {
	p := filepath.Join(t.TempDir(), "holiday.yaml")
	require.NoError(t, os.WriteFile(p, []byte("switchback: 25\nnum_strings: 3\nhost: 10.0.0.9\n"), 0644))

	c, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, 25, c.Switchback)
	assert.Equal(t, 50, c.Globes)
	assert.Equal(t, "udp", c.Transport)
	assert.Equal(t, []string{"10.0.0.9:9988", "10.0.0.9:9989", "10.0.0.9:9990"}, c.Addrs())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	p := filepath.Join(t.TempDir(), "holiday.yaml")
	c := Default()
	c.Devices = []string{"a:1", "b:2"}
	c.Transport = "rest"
	c.Sim.NumStrings = 4
	require.NoError(t, Save(p, c))

	got, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, c, got)
	assert.Equal(t, []string{"a:1", "b:2"}, got.Addrs())
}

func TestLoadRejectsBadValues(t *testing.T) {
	p := filepath.Join(t.TempDir(), "holiday.yaml")
	require.NoError(t, os.WriteFile(p, []byte("globes: 20\nswitchback: 30\nfps: -1\n"), 0644))

	_, err := Load(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "switchback 30")
	assert.Contains(t, err.Error(), "fps")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLimit(t *testing.T) {
	p := filepath.Join(t.TempDir(), "holiday.yaml")
	require.NoError(t, os.WriteFile(p, []byte("limit:\n  budget_ma: 1500\n"), 0644))
	c, err := Load(p)
	require.NoError(t, err)
	assert.True(t, c.Limit.Enabled())
	assert.False(t, Default().Limit.Enabled())

	c.Limit.WhiteCap = 2
	assert.Error(t, c.Validate())
}
