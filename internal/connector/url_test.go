package connector_test

import (
	"testing"

	"table-pump/internal/connector"
	"table-pump/internal/dialect"
	"table-pump/internal/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEveryEngine(t *testing.T) {
	for _, e := range dialect.Engines {
		t.Run(e.String(), func(t *testing.T) {
			d, err := connector.Parse(e.String() + "://u:p@host:1234/db?X=1")
			require.NoError(t, err)
			assert.Equal(t, e, d.Engine)
			assert.Equal(t, "u", d.User)
			assert.Equal(t, "p", d.Password)
			assert.Equal(t, "host", d.Host)
			assert.Equal(t, 1234, d.Port)
			assert.Equal(t, "db", d.Database)
			assert.Equal(t, map[string]string{"x": "1"}, d.Options)

			p, _ := dialect.Lookup(e)
			assert.Equal(t, p.DefaultDriver, d.Driver)
		})
	}
}

func TestParseDriverOverride(t *testing.T) {
	d, err := connector.Parse("postgresql+pq://u@h/db")
	require.NoError(t, err)
	assert.Equal(t, "pq", d.Driver)
	assert.Equal(t, dialect.StyleDollar, d.Style())
	assert.Equal(t, 5432, d.PortOrDefault())
	assert.Zero(t, d.Port)

	d, err = connector.Parse("mssql+odbc://u@h/db")
	require.NoError(t, err)
	assert.Equal(t, dialect.StyleQMark, d.Style())
}

func TestParseFilePaths(t *testing.T) {
	tests := []struct {
		url, want string
	}{
		{"sqlite://localhost/data.db", "data.db"},
		{"sqlite://localhost//tmp/x.db", "/tmp/x.db"},
		{"sqlite://localhost/:memory:", ":memory:"},
	}
	for _, tt := range tests {
		d, err := connector.Parse(tt.url)
		require.NoError(t, err, tt.url)
		assert.Equal(t, tt.want, d.Database)
	}
}

func TestParseErrors(t *testing.T) {
	for _, raw := range []string{
		"localhost/db",
		"mysql:///db",
		"db2://h/db",
		"mysql+nope://h/db",
		"postgresql+mysql://h/db",
		"mysql://h:port/db",
	} {
		_, err := connector.Parse(raw)
		assert.ErrorIs(t, err, errs.ErrConfiguration, raw)
	}
}

func TestDescriptorStringMasksPassword(t *testing.T) {
	d, err := connector.Parse("mysql://root:secret@h:3307/app?charset=utf8")
	require.NoError(t, err)
	s := d.String()
	assert.NotContains(t, s, "secret")
	assert.Equal(t, "mysql+mysql://root:xxxxx@h:3307/app?charset=utf8", s)
}
