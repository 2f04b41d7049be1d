package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/git-pkgs/modsync"
	_ "github.com/git-pkgs/modsync/all"
	"github.com/git-pkgs/modsync/fetch"
	"github.com/git-pkgs/modsync/internal/config"
)

func newRootCmd(version string) *cobra.Command {
	v := viper.New()
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "modsync <profile-code> [base-dir]",
		Short: "Sync a mod pack manifest with a Thunderstore profile",
		Long: `modsync fetches a Thunderstore profile, resolves its top-level dependencies
and, when they differ from the pack manifest, rewrites the manifest with a
bumped patch version and appends a changelog entry to the pack README.`,
		Version:       version,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(v, cfgFile)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(args[0]) == "" {
				return fmt.Errorf("%w: usage: %s", modsync.ErrEmptyCode, cmd.UseLine())
			}
			baseDir := "."
			if len(args) == 2 {
				baseDir = args[1]
			}
			return run(cmd, v, args[0], baseDir)
		},
	}

	cmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ./modsync.yaml if present)")

	flags := cmd.Flags()
	flags.String("source", "", "mod source")
	flags.String("community", "", "Thunderstore community slug")
	flags.String("index-url", "", "base URL of the package index")
	flags.String("profile-url", "", "base URL of the profile CDN")
	flags.StringP("pack", "p", "", "pack directory under base-dir")
	flags.String("manifest", "", "manifest file name")
	flags.String("changelog", "", "changelog file name")
	flags.Duration("timeout", 0, "HTTP request timeout")
	flags.Int("retries", 0, "retries on rate limit or server error")
	flags.String("log-level", "", "debug, info, warn or error")
	flags.BoolP("dry-run", "n", false, "show changes without writing")

	for key, flag := range map[string]string{
		"source":           "source",
		"community":        "community",
		"index_base_url":   "index-url",
		"profile_base_url": "profile-url",
		"pack":             "pack",
		"manifest_name":    "manifest",
		"changelog_name":   "changelog",
		"timeout":          "timeout",
		"retries":          "retries",
		"log_level":        "log-level",
		"dry_run":          "dry-run",
	} {
		_ = v.BindPFlag(key, flags.Lookup(flag))
	}

	return cmd
}

func initConfig(v *viper.Viper, cfgFile string) error {
	config.SetDefaults(v)
	v.SetEnvPrefix("modsync")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("modsync")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || cfgFile != "" {
			return fmt.Errorf("reading config: %w", err)
		}
	}
	return nil
}

func run(cmd *cobra.Command, v *viper.Viper, code, baseDir string) error {
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	logger := log.NewWithOptions(cmd.ErrOrStderr(), log.Options{
		Prefix: "modsync",
		Level:  cfg.Level(),
	})

	fetcher := fetch.NewFetcher(
		fetch.WithUserAgent(cfg.UserAgent),
		fetch.WithTimeout(cfg.Timeout),
		fetch.WithMaxRetries(cfg.Retries),
		fetch.WithLogger(logger),
	)
	defer fetcher.Close()

	src, err := modsync.NewSource(cfg.Source, modsync.Endpoints{
		IndexBase:   cfg.IndexBaseURL,
		ProfileBase: cfg.ProfileBaseURL,
		Community:   cfg.Community,
	}, fetcher)
	if err != nil {
		return err
	}

	_, err = modsync.Sync(cmd.Context(), code, modsync.Options{
		Source:        src,
		ManifestPath:  cfg.ManifestPath(baseDir),
		ChangelogPath: cfg.ChangelogPath(baseDir),
		DryRun:        cfg.DryRun,
		Logger:        logger,
	})
	return err
}
