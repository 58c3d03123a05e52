package cli

import (
	"fmt"
	"path/filepath"

	"resumeforge/internal/archive"
	"resumeforge/internal/common"
	"resumeforge/internal/document"
	"resumeforge/internal/errors"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render a résumé as an ATS-friendly Word document",
	Long: `Render résumé text as a DOCX document with the standard section order.

The name and contact header is taken from --original when given, otherwise
from the résumé itself. With --upload the document is also stored in the
configured export backend (export.backend: local or s3).`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

var (
	exportResume   string
	exportOriginal string
	exportOutput   string
	exportUpload   bool
)

func init() {
	exportCmd.Flags().StringVar(&exportResume, "resume", "", "Tailored résumé text file")
	exportCmd.Flags().StringVar(&exportOriginal, "original", "", "Original résumé used for the header (default: --resume)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output .docx file")
	exportCmd.Flags().BoolVar(&exportUpload, "upload", false, "Also store the document in the export backend")
	_ = exportCmd.MarkFlagRequired("resume")
	_ = exportCmd.MarkFlagRequired("output")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := getConfigFromContext(ctx)
	logger := getLoggerFromContext(ctx)

	files := []string{exportResume}
	if exportOriginal != "" {
		files = append(files, exportOriginal)
	}
	contents, err := common.NewFileProcessor(logger, cfg.App.MaxFileSize).ValidateAndReadFiles(files...)
	if err != nil {
		return err
	}
	tailored, original := contents[0], contents[0]
	if len(contents) > 1 {
		original = contents[1]
	}

	data, err := document.ExportBytes(original, tailored, document.DefaultOptions)
	if err != nil {
		return errors.NewInternalError(errors.ErrCodeExportFailed, "Failed to render document", err)
	}
	if err := common.NewOutputHandler(cmd.OutOrStdout(), logger).Write(data, exportOutput); err != nil {
		return err
	}

	if !exportUpload {
		return nil
	}
	store, err := archive.New(cfg.Export, logger)
	if err != nil {
		return err
	}
	if store == nil {
		return errors.NewConfigError(errors.ErrCodeInvalidConfig, "--upload requires export.backend to be local or s3", nil)
	}
	obj, err := store.Put(ctx, "cli/"+filepath.Base(exportOutput), data, archive.DocxContentType)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "uploaded %s (%d bytes) to %s\n", obj.Key, obj.Size, obj.Location)
	return nil
}
