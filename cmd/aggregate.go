package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/AlfredBerg/rod-skills/internal/outputHandlers/sqlite"
	"github.com/AlfredBerg/rod-skills/internal/skills"
	"github.com/AlfredBerg/rod-skills/internal/store"
	"github.com/spf13/cobra"
)

type aggregateFlags struct {
	file   string
	dir    string
	run    string
	export bool
}

var aFlags aggregateFlags

func init() {
	rootCmd.AddCommand(aggregateCmd)
	aggregateCmd.Flags().StringVarP(&aFlags.file, "file", "f", "", "Aggregate a single run file.")
	aggregateCmd.Flags().StringVarP(&aFlags.dir, "dir", "d", "", "Aggregate every run file in a directory. Defaults to paths.runs from the config.")
	aggregateCmd.Flags().StringVarP(&aFlags.run, "run", "r", "", "Aggregate a run recorded in the skill database.")
	aggregateCmd.Flags().BoolVarP(&aFlags.export, "export", "e", false, "Export the frequency table to a spreadsheet.")
	aggregateCmd.MarkFlagsMutuallyExclusive("file", "dir", "run")
}

var aggregateCmd = &cobra.Command{
	Use:   "aggregate",
	Short: "Print the skill frequencies of saved extractions",

	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()

		loader := store.NewLoader(log)
		var src skills.Source
		var label string
		switch {
		case aFlags.file != "":
			src = store.FileSource{Loader: loader, Path: aFlags.file}
			label = runFileLabel(aFlags.file)
		case aFlags.run != "":
			mirror := &sqlite.SkillOutput{Database: cfg.Paths.Database, Log: log}
			if err := mirror.Init(); err != nil {
				return fmt.Errorf("opening skill database: %w", err)
			}
			defer mirror.Cleanup()
			src = sqlite.RunSource{Output: mirror, RunID: aFlags.run}
			label = "run-" + aFlags.run
		default:
			dir := aFlags.dir
			if dir == "" {
				dir = cfg.Paths.Runs
			}
			src = store.DirSource{Loader: loader, Dir: dir}
			label = "all-files"
		}

		return report(cmd.OutOrStdout(), cfg, src, label, aFlags.export)
	},
}

// runFileLabel is the base name of a run file without its extension.
func runFileLabel(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
