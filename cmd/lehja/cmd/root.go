// Package cmd wires the lehja CLI: profile building and recitation
// comparison against stored reciter profiles.
package cmd

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/lehja/lehja/clients"
	"github.com/lehja/lehja/config"
	"github.com/lehja/lehja/orchestrator"
	"github.com/lehja/lehja/profile"
)

var (
	cfgFile string
	cfg     *config.Root
	log     = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:   "lehja",
	Short: "Quranic recitation style analysis",
	Long: `lehja compares a reciter's melodic style against reference
Qari profiles built from their recordings.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}
		lvl, err := logrus.ParseLevel(cfg.LogLevel)
		if err != nil {
			lvl = logrus.InfoLevel
		}
		log.SetLevel(lvl)
		return nil
	},
}

func Execute() error { return rootCmd.Execute() }

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to config.yaml")
}

// newEngine builds the engine with profiles loaded from disk.
func newEngine() (*orchestrator.Engine, error) {
	store := profile.NewStore(cfg.Paths.Profiles, log)
	if err := store.LoadAll(); err != nil {
		return nil, err
	}
	stt := clients.NewSTT(
		clients.NewHTTP(time.Duration(cfg.STT.TimeoutSeconds)*time.Second),
		cfg.STT.URL,
	)
	return orchestrator.New(cfg, stt, store, log), nil
}
