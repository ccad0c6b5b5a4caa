package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/expense_approval_app/internal/apperrors"
	"github.com/SscSPs/expense_approval_app/internal/core/domain"
	"github.com/SscSPs/expense_approval_app/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct{}

// GetLogger gets the request-scoped logger from context, or the default one.
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogWarn logs a warning with consistent formatting
func (s *BaseService) LogWarn(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Warn(msg, keyvals...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// AuthorizeCompany rejects access to resources of another company. Foreign resources
// are reported as missing so their existence does not leak.
func (s *BaseService) AuthorizeCompany(actor domain.Principal, companyID, resource string) error {
	if actor.CompanyID != companyID {
		return fmt.Errorf("%w: %s", apperrors.ErrNotFound, resource)
	}
	return nil
}

// AuthorizeAdmin requires the admin role.
func (s *BaseService) AuthorizeAdmin(actor domain.Principal, action string) error {
	if !actor.IsAdmin() {
		return fmt.Errorf("%w: only admins can %s", apperrors.ErrForbidden, action)
	}
	return nil
}
