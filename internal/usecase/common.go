package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"clinic-operations/internal/delivery/dto"
	"clinic-operations/internal/delivery/http/middleware"
	"clinic-operations/internal/domain/entity"
	"clinic-operations/internal/infrastructure/metrics"
	"clinic-operations/internal/service"
	"clinic-operations/pkg/apperror"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
)

const dateLayout = "2006-01-02"

var ErrInvalidDateValue = apperror.Validation("dates must be YYYY-MM-DD or RFC 3339")

// principalFrom returns the authenticated caller stored by the auth middleware.
func principalFrom(ctx context.Context) (*entity.Principal, error) {
	p, ok := middleware.GetPrincipalFromContext(ctx)
	if !ok {
		return nil, service.ErrNoPrincipal
	}
	return p, nil
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDateValue
	}
	return t, nil
}

// parseDateTime accepts a plain date or a full RFC 3339 timestamp.
func parseDateTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return parseDate(s)
}

func parseOptionalDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := parseDate(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func pageOf(q dto.ListQuery) entity.Page {
	return entity.Page{Limit: q.Limit, Offset: q.Offset}
}

func paginationOf(total int64, q dto.ListQuery) dto.Pagination {
	limit := q.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return dto.Pagination{Total: total, Limit: limit, Offset: q.Offset}
}

// isDuplicateKeyError checks if the error is a PostgreSQL unique violation
// on a constraint whose name contains the given fragment
func isDuplicateKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23505 = unique_violation
		if pgErr.Code == "23505" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}

// isForeignKeyError checks if the error is a PostgreSQL foreign key violation
// containing the given constraint name
func isForeignKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23503 = foreign_key_violation
		if pgErr.Code == "23503" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}

// metricResult buckets an operation outcome for the result label.
func metricResult(err error) string {
	if err == nil {
		return metrics.ResultSuccess
	}
	switch apperror.KindOf(err) {
	case apperror.KindConflict:
		return metrics.ResultConflict
	case apperror.KindUnknown:
		return metrics.ResultError
	default:
		return metrics.ResultRejected
	}
}

// logUnexpected logs err unless it is a domain error meant for the caller.
func logUnexpected(log *logrus.Logger, err error, format string, args ...interface{}) {
	if err != nil && apperror.KindOf(err) == apperror.KindUnknown {
		log.Warnf(format+": %+v", append(args, err)...)
	}
}
