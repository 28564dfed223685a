package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/AlfredBerg/rod-skills/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var cfgFile string
var verbose bool

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.rod-skills.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every browser step.")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	v := viper.GetViper()
	config.SetDefaults(v)

	if cfgFile != "" {
		// Use config file from the flag.
		v.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".rod-skills" (without extension).
		v.AddConfigPath(home)
		v.SetConfigType("yaml")
		v.SetConfigName(".rod-skills")
	}

	config.BindEnv(v)

	// If a config file is found, read it in.
	if err := v.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", v.ConfigFileUsed())
	}
}

var rootCmd = &cobra.Command{
	Use:   "rod-skills",
	Short: "Scrapes the skills asked for by job listings and ranks them by frequency",

	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()

		m := newMenu(cfg, log, os.Stdin, os.Stdout)
		return m.Run(cmd.Context())
	},
}

// setup loads the configuration and builds the logger shared by a command.
func setup() (*config.Config, *zap.SugaredLogger, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, nil, err
	}
	logger, err := newLogger(verbose)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger.Sugar(), nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	var c zap.Config
	if verbose {
		c = zap.NewDevelopmentConfig()
	} else {
		c = zap.NewProductionConfig()
		c.Encoding = "console"
		c.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	return c.Build()
}
