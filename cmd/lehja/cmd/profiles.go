package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/lehja/lehja/orchestrator"
)

// Manifest lists the reference reciters and their recordings for batch
// profile generation.
type Manifest struct {
	Qaris []struct {
		Name       string   `yaml:"name"`
		Recordings []string `yaml:"recordings"`
	} `yaml:"qaris"`
}

var manifestPath string

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Manage reference Qari profiles",
}

var profilesBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build profiles from a recordings manifest",
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(manifestPath)
		if err != nil {
			return err
		}
		defer f.Close()
		var m Manifest
		if err := yaml.NewDecoder(f).Decode(&m); err != nil {
			return fmt.Errorf("manifest decode %s: %w", manifestPath, err)
		}

		engine, err := newEngine()
		if err != nil {
			return err
		}

		failed := 0
		for _, q := range m.Qaris {
			p, err := engine.BuildProfile(cmd.Context(), q.Name, q.Recordings)
			if err != nil {
				if errors.Is(err, orchestrator.ErrNoUsableRecordings) {
					log.WithField("qari", q.Name).Error("no recordings could be processed")
					failed++
					continue
				}
				return err
			}
			if err := engine.Store().Save(p); err != nil {
				return err
			}
		}
		if failed == len(m.Qaris) && failed > 0 {
			return fmt.Errorf("all %d profiles failed to build", failed)
		}
		return nil
	},
}

var profilesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := newEngine()
		if err != nil {
			return err
		}
		for _, name := range engine.Store().Names() {
			p, err := engine.Store().Get(name)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d samples\t%d words\n",
				p.Name, p.SampleCount, len(p.WordFeatures))
		}
		return nil
	},
}

func init() {
	profilesBuildCmd.Flags().StringVarP(&manifestPath, "manifest", "m", "qaris.yaml", "yaml manifest of qaris and recordings")
	profilesCmd.AddCommand(profilesBuildCmd, profilesListCmd)
	rootCmd.AddCommand(profilesCmd)
}
