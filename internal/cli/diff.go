package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/IgorBayerl/showcov/internal/model"
)

func newDiffCommand(state *rootState) *cobra.Command {
	flags := &reportFlags{}
	var basePaths []string
	var withLines bool

	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Compare uncovered lines against a baseline report",
		Long: "Build the current report and a baseline report, then show which\n" +
			"uncovered ranges are new and which were resolved since the baseline.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(basePaths) == 0 {
				return fmt.Errorf("diff requires at least one --base coverage report")
			}

			sections := []model.SectionName{model.SectionDiff}
			if withLines {
				sections = append([]model.SectionName{model.SectionLines}, sections...)
			}
			opts, err := flags.buildOptions(cmd, state, sections)
			if err != nil {
				return err
			}

			baseline, basePathsResolved, err := collectRecords(basePaths)
			if err != nil {
				return fmt.Errorf("loading baseline: %w", err)
			}
			if baseline == nil {
				baseline = []model.Record{}
			}
			opts.BaselineRecords = baseline

			records, paths, err := collectRecords(flags.covPaths)
			if err != nil {
				return err
			}
			opts.CoverageXML = strings.Join(paths, ", ")
			state.logger.Info("collected coverage records",
				"inputs", len(paths), "records", len(records),
				"baseline_inputs", len(basePathsResolved), "baseline_records", len(baseline))

			return flags.runPipeline(cmd, state, records, opts)
		},
	}

	flags.register(cmd)
	_ = cmd.Flags().MarkHidden("sections")
	cmd.Flags().StringSliceVar(&basePaths, "base", nil, "baseline coverage XML path or glob (repeatable)")
	cmd.Flags().BoolVar(&withLines, "with-lines", false, "include the current uncovered lines section alongside the diff")

	return cmd
}
