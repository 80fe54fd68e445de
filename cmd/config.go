package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"table-pump/internal/connector"
)

// ConnectionConfig is one entry of the connections list.
type ConnectionConfig struct {
	Name   string `mapstructure:"name"`
	URL    string `mapstructure:"url"`
	Active bool   `mapstructure:"active"`
}

func connections() ([]ConnectionConfig, error) {
	var configs []ConnectionConfig
	if err := viper.UnmarshalKey("connections", &configs); err != nil {
		return nil, fmt.Errorf("failed to parse connections config: %w", err)
	}
	return configs, nil
}

// activeConnection returns the one connection marked active.
func activeConnection() (*ConnectionConfig, error) {
	configs, err := connections()
	if err != nil {
		return nil, err
	}

	var active *ConnectionConfig
	count := 0
	for i := range configs {
		if configs[i].Active {
			active = &configs[i]
			count++
		}
	}

	if count == 0 {
		return nil, fmt.Errorf("no active connection found in config (set active: true or pass --url)")
	}
	if count > 1 {
		return nil, fmt.Errorf("multiple active connections found (only one can be active)")
	}
	return active, nil
}

// resolveURL turns a reference into a connection URL. A reference holding
// "://" is a URL; otherwise it names a configured connection. An empty
// reference means --url, the url config key, then the active connection.
func resolveURL(ref string) (string, error) {
	if ref == "" {
		ref = dbURL
	}
	if ref == "" {
		ref = viper.GetString("url")
	}
	if ref == "" {
		c, err := activeConnection()
		if err != nil {
			return "", err
		}
		return c.URL, nil
	}
	if strings.Contains(ref, "://") {
		return ref, nil
	}
	configs, err := connections()
	if err != nil {
		return "", err
	}
	for _, c := range configs {
		if strings.EqualFold(c.Name, ref) {
			return c.URL, nil
		}
	}
	return "", fmt.Errorf("connection %q not found in config", ref)
}

// openDB connects to the database a reference resolves to.
func openDB(ctx context.Context, ref string) (*connector.Database, error) {
	url, err := resolveURL(ref)
	if err != nil {
		return nil, err
	}
	db, err := connector.Open(ctx, url, connector.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	logger.Info("connected", "url", db.Descriptor().String())
	return db, nil
}

func batchSize() int { return viper.GetInt("settings.batch_size") }
