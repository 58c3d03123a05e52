package cli

import (
	"context"
	"fmt"

	"resumeforge/internal/common"
	"resumeforge/internal/document"

	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Print the sections detected in a résumé",
	Long: `Split a résumé into the sections the document exporter sees. Useful to
check why content lands under an unexpected heading before exporting.`,
	Args:    cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error { return resolveFormat(cmd, &parseConfig) },
	RunE:    runParse,
}

var (
	parseConfig  common.CommandConfig
	parseResume  string
	parseOrdered bool
)

func init() {
	parseCmd.Flags().StringVar(&parseResume, "resume", "", "Résumé text file")
	parseCmd.Flags().BoolVar(&parseOrdered, "ordered", false, "Arrange sections in export order, dropping unknown ones")
	_ = parseCmd.MarkFlagRequired("resume")
	outputFlags(parseCmd, &parseConfig)
}

func runParse(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := getConfigFromContext(ctx)
	logger := getLoggerFromContext(ctx)

	err := common.RunFileCommand(ctx, runner(cmd, cfg, logger), parseConfig, []string{parseResume},
		func(contents []string) (string, error) { return contents[0], nil },
		func(_ context.Context, text string) ([]document.Section, error) {
			sections := document.Parse(text)
			if parseOrdered {
				sections = document.Order(sections)
			}
			return sections, nil
		},
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to parse resume: %w", err)
	}
	return nil
}
