package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"resumeforge/internal/common"
	"resumeforge/internal/types"

	"github.com/spf13/cobra"
)

// maxAnalyzeJobs matches the API limit on multi-job analyses
const maxAnalyzeJobs = 10

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Build a master résumé strategy across several job descriptions",
	Long: `Analyze one résumé against up to ten job descriptions and report the
keywords they share, the keywords unique to each job and a master optimisation
strategy. Each job is titled after its file name.`,
	Args:    cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error { return resolveFormat(cmd, &analyzeConfig) },
	RunE:    runAnalyze,
}

var (
	analyzeConfig common.CommandConfig
	analyzeResume string
	analyzeJobs   []string
)

func init() {
	analyzeCmd.Flags().StringVar(&analyzeResume, "resume", "", "Résumé text file")
	analyzeCmd.Flags().StringArrayVar(&analyzeJobs, "job", nil, "Job description text file (repeatable)")
	_ = analyzeCmd.MarkFlagRequired("resume")
	_ = analyzeCmd.MarkFlagRequired("job")
	outputFlags(analyzeCmd, &analyzeConfig)
}

// jobTitle names a job after its file
func jobTitle(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if len(analyzeJobs) > maxAnalyzeJobs {
		return fmt.Errorf("at most %d job descriptions can be analyzed, got %d", maxAnalyzeJobs, len(analyzeJobs))
	}

	ctx := cmd.Context()
	cfg := getConfigFromContext(ctx)
	logger := getLoggerFromContext(ctx)

	c, err := buildComponents(ctx, cfg, logger, false)
	if err != nil {
		return err
	}
	defer c.close()

	type analyzeInput struct {
		resume string
		jobs   []types.JobPosting
	}

	files := append([]string{analyzeResume}, analyzeJobs...)
	err = common.RunFileCommand(ctx, runner(cmd, cfg, logger), analyzeConfig, files,
		func(contents []string) (analyzeInput, error) {
			in := analyzeInput{resume: contents[0]}
			for i, text := range contents[1:] {
				in.jobs = append(in.jobs, types.JobPosting{Title: jobTitle(analyzeJobs[i]), Description: text})
			}
			return in, nil
		},
		func(ctx context.Context, in analyzeInput) (*types.MultiJobAnalysis, error) {
			return c.service.AnalyzeText(ctx, in.resume, in.jobs)
		},
		func(in analyzeInput, cc common.CommandConfig) {
			logger.Info("Starting multi-job analysis",
				"resume_chars", len(in.resume),
				"jobs", len(in.jobs),
				"output_format", cc.OutputFormat)
		},
	)
	if err != nil {
		return fmt.Errorf("failed to analyze jobs: %w", err)
	}
	return nil
}
