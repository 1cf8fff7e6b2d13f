package version

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetInfo(t *testing.T) {
	origVersion, origCommit, origDate := Version, Commit, Date
	defer func() {
		Version, Commit, Date = origVersion, origCommit, origDate
	}()

	Version = "1.0.0"
	Commit = "abc123def456"
	Date = "2026-01-01T12:00:00Z"

	info := GetInfo()

	assert.Equal(t, "1.0.0", info.Version)
	assert.Equal(t, "abc123def456", info.Commit)
	assert.Equal(t, "2026-01-01T12:00:00Z", info.Date)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
}

func TestInfoString(t *testing.T) {
	info := Info{
		Version:   "2.1.0",
		Commit:    "abcdef0123456789",
		Date:      "2026-02-02",
		GoVersion: "go1.24",
		Platform:  "linux/amd64",
	}

	s := info.String()
	assert.Contains(t, s, "leoconnect 2.1.0")
	assert.Contains(t, s, "abcdef01")
	assert.NotContains(t, s, "abcdef0123456789")
	assert.Contains(t, s, "linux/amd64")
}

func TestInfoShort(t *testing.T) {
	assert.Equal(t, "3.0.0", Info{Version: "3.0.0"}.Short())
}
