package remote_test

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"testing"

	"table-pump/internal/errs"
	"table-pump/internal/remote"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTarget(t *testing.T) {
	tg, err := remote.ParseTarget("sftp://bob:pw@files.example.com/data/in?Known_Hosts=/tmp/kh")
	require.NoError(t, err)
	assert.Equal(t, "files.example.com", tg.Host)
	assert.Equal(t, 22, tg.Port)
	assert.Equal(t, "bob", tg.User)
	assert.Equal(t, "pw", tg.Password)
	assert.Equal(t, "/data/in", tg.Dir)
	assert.Equal(t, "/tmp/kh", tg.Query["known_hosts"])

	tg, err = remote.ParseTarget("ssh://h:2222")
	require.NoError(t, err)
	assert.Equal(t, 2222, tg.Port)
}

func TestParseTargetErrors(t *testing.T) {
	for _, raw := range []string{"http://h/x", "sftp:///x", "sftp://h:abc/x"} {
		_, err := remote.ParseTarget(raw)
		assert.ErrorIs(t, err, errs.ErrConfiguration, raw)
	}
}

func TestHostKeyCallback(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	tg, err := remote.ParseTarget("sftp://bob:pw@files.example.com/data")
	require.NoError(t, err)
	cb, err := remote.HostKeyCallback(tg, logger)
	require.NoError(t, err)
	assert.NotNil(t, cb)
	assert.Contains(t, logs.String(), "level=WARN")
	assert.Contains(t, logs.String(), "host=files.example.com")

	logs.Reset()
	missing := filepath.Join(t.TempDir(), "known_hosts")
	tg, err = remote.ParseTarget("sftp://bob:pw@files.example.com/data?known_hosts=" + missing)
	require.NoError(t, err)
	_, err = remote.HostKeyCallback(tg, logger)
	assert.ErrorIs(t, err, errs.ErrConfiguration)
	assert.Empty(t, logs.String())
}
