package cli

import (
	"fmt"

	"resumeforge/internal/common"
	"resumeforge/internal/tailor"

	"github.com/spf13/cobra"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a résumé against a job description",
	Long: `Score a résumé against a job description with the selected ATS method.

Keywords are extracted from the job description with the AI provider unless
--keywords is given; without a provider a local keyword scan is used.`,
	Args:    cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error { return resolveFormat(cmd, &scoreConfig) },
	RunE:    runScore,
}

var (
	scoreConfig   common.CommandConfig
	scoreResume   string
	scoreJob      string
	scoreKeywords []string
	scoreMethod   string
)

func init() {
	scoreCmd.Flags().StringVar(&scoreResume, "resume", "", "Résumé text file")
	scoreCmd.Flags().StringVar(&scoreJob, "job", "", "Job description text file")
	scoreCmd.Flags().StringSliceVar(&scoreKeywords, "keywords", nil, "Comma-separated keywords (skips extraction)")
	scoreCmd.Flags().StringVar(&scoreMethod, "method", "", "Scoring method: jobscan or resumeworded (default from config)")
	_ = scoreCmd.MarkFlagRequired("resume")
	_ = scoreCmd.MarkFlagRequired("job")
	outputFlags(scoreCmd, &scoreConfig)
}

func runScore(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := getConfigFromContext(ctx)
	logger := getLoggerFromContext(ctx)

	c, err := buildComponents(ctx, cfg, logger, false)
	if err != nil {
		return err
	}
	defer c.close()

	err = common.RunFileCommand(ctx, runner(cmd, cfg, logger), scoreConfig, []string{scoreResume, scoreJob},
		func(contents []string) (tailor.ScoreInput, error) {
			return tailor.ScoreInput{
				ResumeText:     contents[0],
				JobDescription: contents[1],
				Keywords:       scoreKeywords,
				ScoringMethod:  scoreMethod,
			}, nil
		},
		c.service.ScoreText,
		func(in tailor.ScoreInput, cc common.CommandConfig) {
			logger.Info("Scoring résumé",
				"resume_chars", len(in.ResumeText),
				"job_chars", len(in.JobDescription),
				"keywords", len(in.Keywords),
				"output_format", cc.OutputFormat)
		},
	)
	if err != nil {
		return fmt.Errorf("failed to score resume: %w", err)
	}
	return nil
}
