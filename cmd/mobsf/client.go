package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/rsclarke/mobsf/internal/auth"
	"github.com/rsclarke/mobsf/internal/client"
	"github.com/rsclarke/mobsf/internal/config"
	"github.com/rsclarke/mobsf/internal/logging"
	"github.com/spf13/cobra"
)

type clientConfig struct {
	apiKey string
	server string
}

func addClientFlags(cmd *cobra.Command, cfg *clientConfig) {
	cmd.Flags().StringVar(&cfg.apiKey, "api-key", "", "API key for authentication (env MOBSF_API_KEY)")
	cmd.Flags().StringVar(&cfg.server, "server", "", "MobSF server URL (env MOBSF_HOST, default "+config.DefaultServer+")")
}

func (cfg *clientConfig) load(journal string) (*config.Config, error) {
	return config.Load(config.Overrides{
		Server:  cfg.server,
		APIKey:  cfg.apiKey,
		Journal: journal,
	})
}

func (cfg *clientConfig) newClient() (*client.Client, error) {
	resolved, err := cfg.load("")
	if err != nil {
		return nil, err
	}
	return clientFor(resolved), nil
}

func clientFor(cfg *config.Config) *client.Client {
	log := getLogger()
	if cfg.APIKey == "" {
		log.Debug("no API key configured (use --api-key or MOBSF_API_KEY)")
	} else if err := auth.Validate(cfg.APIKey); err != nil {
		log.Warn("API key does not look like a MobSF key (use --api-key or MOBSF_API_KEY)",
			logging.APIKey(auth.Redact(cfg.APIKey)))
	}
	log.Debug("using server", logging.Server(cfg.Server), logging.APIKey(auth.Redact(cfg.APIKey)))
	return client.NewClient(cfg.Server, cfg.APIKey, client.WithLogger(log.Named("client")))
}

// Accepted values for the scan type arguments.
var (
	scanTypes   = []string{"xapk", "apk", "zip", "ipa", "appx"}
	sourceTypes = []string{"apk", "ipa", "studio", "eclipse", "ios"}
)

// oneOf validates that positional argument i is one of values.
func oneOf(i int, name string, values []string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if i < len(args) && !slices.Contains(values, args[i]) {
			return fmt.Errorf("invalid %s %q (expected one of: %s)", name, args[i], strings.Join(values, ", "))
		}
		return nil
	}
}
