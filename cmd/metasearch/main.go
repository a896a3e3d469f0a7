// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the metasearch CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/metasearch/internal/engine"
	"github.com/pdiddy/metasearch/internal/secrets"
	"github.com/pdiddy/metasearch/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback if non-empty, otherwise the secret value
// for key if one was loaded.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the metasearch CLI.
var rootCmd = &cobra.Command{
	Use:   "metasearch",
	Short: "Federated search across scholarly article databases",
	Long: `metasearch queries scholarly search APIs (EBSCO Host EIT, WorldCat SRU,
JournalTOCs) through a single normalized interface. One query is translated
to each backend's syntax, executed concurrently, and the responses are
normalized into a common result schema.

Use search for keyword and fielded queries, get to fetch a single record by
its identifier, and toc to list a journal's current articles by ISSN.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./metasearch.yaml or ~/.config/metasearch/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("metasearch")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "metasearch"))
		}
	}

	viper.SetEnvPrefix("METASEARCH")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// enginesConfig assembles the engine configuration from the config file,
// environment, and loaded secrets. Engines without credentials are left
// unconfigured rather than failing here; the registry skips nil sections.
func enginesConfig() types.EnginesConfig {
	cfg := types.EnginesConfig{
		HTTP: types.HTTPConfig{
			Timeout:   viper.GetDuration("http.timeout"),
			UserAgent: viper.GetString("http.user_agent"),
		},
	}
	if cfg.HTTP.Timeout == 0 {
		cfg.HTTP.Timeout = 20 * time.Second
	}
	if cfg.HTTP.UserAgent == "" {
		cfg.HTTP.UserAgent = "metasearch/" + version
	}

	if profile := secretDefault("ebscohost-profile", viper.GetString("ebsco.profile_id")); profile != "" {
		cfg.EBSCO = &types.EBSCOConfig{
			ProfileID:       profile,
			ProfilePassword: secretDefault("ebscohost-password", viper.GetString("ebsco.profile_password")),
			Databases:       viper.GetStringSlice("ebsco.databases"),
		}
	}
	if key := secretDefault("worldcat-wskey", viper.GetString("worldcat.api_key")); key != "" {
		cfg.WorldCat = &types.WorldCatConfig{
			APIKey: key,
			Auth:   viper.GetBool("worldcat.auth"),
		}
	}
	if email := secretDefault("journaltocs-email", viper.GetString("journal_tocs.registered_email")); email != "" {
		cfg.JournalTOCs = &types.JournalTOCsConfig{
			RegisteredEmail: email,
			BaseURL:         viper.GetString("journal_tocs.base_url"),
		}
	}
	return cfg
}

// buildRegistry constructs the engine registry from the assembled config.
func buildRegistry() (*engine.Registry, error) {
	reg, err := engine.FromConfig(enginesConfig())
	if err != nil {
		return nil, err
	}
	if len(reg.IDs()) == 0 {
		return nil, fmt.Errorf("no engines configured; set credentials in metasearch.yaml or .secrets/")
	}
	return reg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
