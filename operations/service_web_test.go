package operations

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trailmark/trailmark"
	"github.com/urfave/cli"
)

func newWebContext(t *testing.T, args ...string) *cli.Context {
	set := flag.NewFlagSet("web", flag.ContinueOnError)
	for _, f := range startWebService().Flags {
		f.Apply(set)
	}
	require.NoError(t, set.Parse(args))
	return cli.NewContext(cli.NewApp(), set, nil)
}

func clearSettingsEnv(t *testing.T) {
	for _, name := range []string{
		trailmark.MongoURIEnvVar,
		trailmark.MongoDBNameEnvVar,
		trailmark.PortEnvVar,
		trailmark.LogLevelEnvVar,
		trailmark.OtelCollectorEndpointEnvVar,
		trailmark.SettingsFileEnvVar,
	} {
		t.Setenv(name, "")
	}
}

func TestLoadServiceSettings(t *testing.T) {
	t.Run("FlagsOverrideEnvironment", func(t *testing.T) {
		clearSettingsEnv(t)
		t.Setenv(trailmark.MongoURIEnvVar, "mongodb://env:27017")
		t.Setenv(trailmark.PortEnvVar, "4000")

		c := newWebContext(t, "--db-url", "mongodb://flag:27017", "--port", "5000", "--db", "trips")
		settings, err := loadServiceSettings(c)
		require.NoError(t, err)
		assert.Equal(t, "mongodb://flag:27017", settings.Database.Url)
		assert.Equal(t, "trips", settings.Database.DB)
		assert.Equal(t, 5000, settings.Port)
	})

	t.Run("MissingDefaultFileIsIgnored", func(t *testing.T) {
		clearSettingsEnv(t)
		t.Setenv(trailmark.MongoURIEnvVar, "mongodb://env:27017")

		c := newWebContext(t)
		settings, err := loadServiceSettings(c)
		require.NoError(t, err)
		assert.Equal(t, "mongodb://env:27017", settings.Database.Url)
		assert.Equal(t, trailmark.DefaultPort, settings.Port)
		assert.Equal(t, trailmark.DefaultDatabaseName, settings.Database.DB)
	})

	t.Run("ExplicitFileMustExist", func(t *testing.T) {
		clearSettingsEnv(t)
		t.Setenv(trailmark.MongoURIEnvVar, "mongodb://env:27017")

		c := newWebContext(t, "--conf", filepath.Join(t.TempDir(), "missing.yml"))
		_, err := loadServiceSettings(c)
		assert.Error(t, err)
	})

	t.Run("ExplicitFileIsRead", func(t *testing.T) {
		clearSettingsEnv(t)
		path := filepath.Join(t.TempDir(), "trailmark.yml")
		require.NoError(t, os.WriteFile(path, []byte("database:\n  url: mongodb://file:27017\nport: 8081\n"), 0600))

		c := newWebContext(t, "--conf", path)
		settings, err := loadServiceSettings(c)
		require.NoError(t, err)
		assert.Equal(t, "mongodb://file:27017", settings.Database.Url)
		assert.Equal(t, 8081, settings.Port)
	})

	t.Run("NoDatabaseURL", func(t *testing.T) {
		clearSettingsEnv(t)

		_, err := loadServiceSettings(newWebContext(t))
		assert.Error(t, err)
	})
}

func TestServiceCommand(t *testing.T) {
	cmd := Service()
	assert.Equal(t, "service", cmd.Name)
	require.Len(t, cmd.Subcommands, 1)
	assert.Equal(t, "web", cmd.Subcommands[0].Name)
}
