package cmd

import (
	"fmt"
	"strconv"

	"github.com/AlfredBerg/rod-skills/internal/outputHandlers/sqlite"
	"github.com/dustin/go-humanize"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(runsCmd)
}

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List the extractions recorded in the skill database",

	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()

		mirror := &sqlite.SkillOutput{Database: cfg.Paths.Database, Log: log}
		if err := mirror.Init(); err != nil {
			return fmt.Errorf("opening skill database: %w", err)
		}
		defer mirror.Cleanup()

		runs, err := mirror.Runs()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(runs) == 0 {
			fmt.Fprintln(out, pterm.Warning.Sprint("No runs recorded yet."))
			return nil
		}

		data := pterm.TableData{{"Run", "Started", "Jobs", "Search"}}
		for _, r := range runs {
			data = append(data, []string{r.ID, humanize.Time(r.StartedAt), strconv.Itoa(r.Jobs), r.SearchURL})
		}
		rendered, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
		if err != nil {
			return err
		}
		fmt.Fprintln(out, rendered)
		return nil
	},
}
