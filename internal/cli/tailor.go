package cli

import (
	"context"
	"fmt"

	"resumeforge/internal/common"
	"resumeforge/internal/types"

	"github.com/spf13/cobra"
)

// tailorInput pairs the two files of a tailoring run
type tailorInput struct {
	resume string
	job    string
}

var tailorCmd = &cobra.Command{
	Use:   "tailor",
	Short: "Tailor a résumé for a job description without saving it",
	Long: `Tailor a résumé for a job description with the AI provider and score the
result. Nothing is persisted. When the provider is unavailable the output is a
degraded rewrite with a placeholder score and is flagged as such.`,
	Args:    cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error { return resolveFormat(cmd, &tailorConfig) },
	RunE:    runTailor,
}

var (
	tailorConfig common.CommandConfig
	tailorResume string
	tailorJob    string
	tailorMethod string
)

func init() {
	tailorCmd.Flags().StringVar(&tailorResume, "resume", "", "Résumé text file")
	tailorCmd.Flags().StringVar(&tailorJob, "job", "", "Job description text file")
	tailorCmd.Flags().StringVar(&tailorMethod, "method", "", "Scoring method: jobscan or resumeworded (default from config)")
	_ = tailorCmd.MarkFlagRequired("resume")
	_ = tailorCmd.MarkFlagRequired("job")
	outputFlags(tailorCmd, &tailorConfig)
}

func runTailor(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := getConfigFromContext(ctx)
	logger := getLoggerFromContext(ctx)

	c, err := buildComponents(ctx, cfg, logger, false)
	if err != nil {
		return err
	}
	defer c.close()

	err = common.RunFileCommand(ctx, runner(cmd, cfg, logger), tailorConfig, []string{tailorResume, tailorJob},
		func(contents []string) (tailorInput, error) {
			return tailorInput{resume: contents[0], job: contents[1]}, nil
		},
		func(ctx context.Context, in tailorInput) (*types.TailorOutput, error) {
			return c.service.TailorText(ctx, in.resume, in.job, tailorMethod)
		},
		func(in tailorInput, cc common.CommandConfig) {
			logger.Info("Starting resume tailoring",
				"resume_chars", len(in.resume),
				"job_chars", len(in.job),
				"degraded", c.service.Degraded(),
				"output_format", cc.OutputFormat)
		},
	)
	if err != nil {
		return fmt.Errorf("failed to tailor resume: %w", err)
	}
	logger.Info("Resume tailoring completed successfully")
	return nil
}
