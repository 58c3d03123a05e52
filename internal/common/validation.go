package common

import (
	"fmt"
	"slices"
	"strings"

	"resumeforge/internal/errors"
	"resumeforge/internal/formatters"
)

// ValidateOutputFormat checks format against the configured formats (all
// renderable formats when none are configured) and the formatter registry.
func ValidateOutputFormat(format string, supportedFormats []string) error {
	allowed := GetSupportedFormats(supportedFormats)
	if !slices.Contains(allowed, format) {
		return errors.NewValidationError(errors.ErrCodeInvalidFormat,
			fmt.Sprintf("unsupported output format %q (supported: %s)", format, strings.Join(allowed, ", ")), nil)
	}
	if !slices.Contains(formatters.GlobalRegistry.GetSupportedFormats(), format) {
		return errors.NewValidationError(errors.ErrCodeInvalidFormat,
			fmt.Sprintf("output format %q is configured but cannot be rendered", format), nil)
	}
	return nil
}

// GetSupportedFormats returns the configured formats, or every renderable one
func GetSupportedFormats(supportedFormats []string) []string {
	if len(supportedFormats) == 0 {
		return formatters.GlobalRegistry.GetSupportedFormats()
	}
	return supportedFormats
}
