package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

func newReportCommand(state *rootState) *cobra.Command {
	flags := &reportFlags{}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Build and render a coverage report",
		Long:  "Build the requested report sections from one or more coverage XML inputs\nand render them to stdout.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sections, err := flags.parseSections()
			if err != nil {
				return err
			}
			opts, err := flags.buildOptions(cmd, state, sections)
			if err != nil {
				return err
			}

			records, paths, err := collectRecords(flags.covPaths)
			if err != nil {
				return err
			}
			opts.CoverageXML = strings.Join(paths, ", ")
			state.logger.Info("collected coverage records",
				"inputs", len(paths), "records", len(records))

			return flags.runPipeline(cmd, state, records, opts)
		},
	}

	flags.register(cmd)
	return cmd
}
