package server

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"resumeforge/internal/errors"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// decode reads a JSON body into v and validates it. With optional set an
// empty body leaves v untouched.
func (s *Server) decode(r *http.Request, v any, optional bool) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if stderrors.As(err, &maxBytesErr) {
			return errors.NewValidationError(errors.ErrCodePayloadTooLarge,
				fmt.Sprintf("request body too large (limit is %d bytes)", maxBytesErr.Limit), err)
		}
		return errors.NewIOError(errors.ErrCodeFileNotReadable, "failed to read request body", err)
	}

	if len(strings.TrimSpace(string(body))) == 0 {
		if optional {
			return nil
		}
		return errors.NewValidationError(errors.ErrCodeInvalidRequest, "request body is required", nil)
	}

	if ct := r.Header.Get("Content-Type"); ct != "" {
		if mt, _, err := mime.ParseMediaType(ct); err != nil || mt != "application/json" {
			return errors.NewValidationError(errors.ErrCodeInvalidFormat, "content-type must be application/json", nil)
		}
	}
	if err := json.Unmarshal(body, v); err != nil {
		return errors.NewValidationError(errors.ErrCodeInvalidFormat, "failed to parse JSON", err)
	}
	return s.check(v)
}

// check runs the validator and flattens field errors into one message
func (s *Server) check(v any) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) {
		return errors.NewValidationError(errors.ErrCodeInvalidRequest, "invalid request", err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		case "email":
			msgs = append(msgs, fe.Field()+" must be a valid email address")
		case "url":
			msgs = append(msgs, fe.Field()+" must be a valid URL")
		case "min", "max":
			msgs = append(msgs, fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag()))
		}
	}
	return errors.NewValidationError(errors.ErrCodeInvalidRequest, strings.Join(msgs, "; "), err)
}

// statusFor maps an application error onto an HTTP status
func statusFor(appErr *errors.AppError) int {
	switch appErr.Code {
	case errors.ErrCodePayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case errors.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case errors.ErrCodeConflict:
		return http.StatusConflict
	}

	switch appErr.Type {
	case errors.ErrorTypeValidation:
		return http.StatusBadRequest
	case errors.ErrorTypeAuth:
		return http.StatusUnauthorized
	case errors.ErrorTypeNotFound:
		return http.StatusNotFound
	case errors.ErrorTypeAI, errors.ErrorTypeNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeError writes err as an ErrorBody. Server-side failures are logged and
// their message is replaced with a generic one.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := errors.AsAppError(err)
	if !ok {
		appErr = errors.NewInternalError(errors.ErrCodeInternal, "internal server error", err)
	}
	status := statusFor(appErr)

	span := trace.SpanFromContext(r.Context())
	span.RecordError(err)
	span.SetAttributes(
		attribute.String("error.type", string(appErr.Type)),
		attribute.String("error.code", appErr.Code),
	)

	message := appErr.Message
	if status >= http.StatusInternalServerError {
		s.logger.LogError(err, "Request failed",
			"method", r.Method,
			"endpoint", r.URL.Path,
			"status", status)
		if status == http.StatusInternalServerError {
			message = "internal server error"
		}
	}

	writeJSON(w, status, ErrorBody{Error: ErrorDetail{Code: appErr.Code, Message: message}})
}

// writeJSON encodes v with the given status
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
