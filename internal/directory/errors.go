package directory

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"

	"github.com/lib/pq"

	"github.com/giftgram/giftgram/internal/apperrors"
)

// translateError converts driver-level failures into the closed error
// taxonomy. This is the only place in the codebase that looks at pq error
// codes; everything above the repository switches on apperrors kinds.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return err
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch {
		case pqErr.Code == "42P01": // undefined_table
			return apperrors.SchemaMissing(err)
		case pqErr.Code.Class() == "08", // connection exceptions
			pqErr.Code == "53300", // too_many_connections
			pqErr.Code == "57P03": // cannot_connect_now
			return apperrors.StorageUnavailable(err)
		}
	}

	switch {
	case errors.Is(err, driver.ErrBadConn),
		errors.Is(err, sql.ErrConnDone),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return apperrors.StorageUnavailable(err)
	}

	return apperrors.Internal(err)
}
