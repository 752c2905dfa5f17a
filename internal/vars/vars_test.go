package vars

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrint(t *testing.T) {
	var buf bytes.Buffer
	Print(&buf)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "url:      "+URL, lines[0])
	assert.Equal(t, "file:     "+os.Args[0], lines[1])
	assert.Equal(t, "version:  "+Version, lines[2])
	assert.Equal(t, "commit:   "+Commit, lines[3])
	assert.Equal(t, "built:    "+BuildTime.UTC().Format(time.RFC3339), lines[4])
}

func TestInfo(t *testing.T) {
	info := Info()
	assert.Equal(t, Version, info.Version)
	assert.Equal(t, Commit, info.Commit)
	assert.Equal(t, URL, info.URL)
	assert.True(t, BuildTime.Equal(info.BuildTime))
	assert.Equal(t, "https://github.com/woozymasta/tour-content", info.URL)
}
