package subcmd

import (
	"bytes"
	"runtime"
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersion(t *testing.T) {
	info := &debug.BuildInfo{
		Main: debug.Module{Path: "github.com/mengelbart/termplay", Version: "v0.3.0"},
		Deps: []*debug.Module{
			{Path: "github.com/mattn/go-sixel", Version: "v0.0.5"},
			{Path: "github.com/stretchr/testify", Version: "v1.11.1"},
		},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2026-10-01T12:00:00Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	}
	var buf bytes.Buffer
	v := newVersion(info, &buf)
	require.NoError(t, v.Exec("termplay", nil))

	out := buf.String()
	assert.Contains(t, out, "github.com/mengelbart/termplay\n")
	assert.Contains(t, out, "Version:\tv0.3.0")
	assert.Contains(t, out, "Git commit:\tabc123+dirty")
	assert.Contains(t, out, "Platform:\t"+runtime.GOOS+"/"+runtime.GOARCH)
	assert.Contains(t, out, "github.com/mattn/go-sixel\tv0.0.5")
	assert.NotContains(t, out, "testify")
}

func TestVersionShort(t *testing.T) {
	var buf bytes.Buffer
	v := newVersion(nil, &buf)
	require.NoError(t, v.Exec("termplay", []string{"-short"}))
	assert.Equal(t, "(devel)\n", buf.String())
}

func TestVersionCleanTree(t *testing.T) {
	info := &debug.BuildInfo{
		Main:     debug.Module{Path: "github.com/mengelbart/termplay"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "abc123"}, {Key: "vcs.modified", Value: "false"}},
	}
	v := newVersion(info, &bytes.Buffer{})
	assert.Equal(t, "abc123", v.gitCommit)
	assert.Equal(t, "(devel)", v.version)
}
