package cloudsync

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Kind says whether a failed sync is worth retrying.
type Kind int

const (
	KindPermanent Kind = iota
	KindTransient
)

func (k Kind) String() string {
	if k == KindTransient {
		return "transient"
	}
	return "permanent"
}

// Error is a classified sync failure.
type Error struct {
	Op   string
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("cloudsync: %s (%s): %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsTransient reports whether err is a sync failure that may succeed on
// retry, such as a dropped connection or a timeout.
func IsTransient(err error) bool {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind == KindTransient
	}
	return classify(err) == KindTransient
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return err
	}
	return &Error{Op: op, Kind: classify(err), Err: err}
}

// transientSQLStates are SQLSTATE classes and codes that indicate the
// server or connection, not the request, is at fault.
var transientSQLStates = []string{
	"08",    // connection exception
	"53",    // insufficient resources
	"57P",   // operator intervention (shutdown, cannot connect now)
	"40001", // serialization failure
	"40P01", // deadlock detected
}

func classify(err error) Kind {
	if err == nil {
		return KindPermanent
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return KindTransient
	}
	if errors.Is(err, driver.ErrBadConn) {
		return KindTransient
	}
	if pgconn.Timeout(err) {
		return KindTransient
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		for _, prefix := range transientSQLStates {
			if strings.HasPrefix(pgErr.Code, prefix) {
				return KindTransient
			}
		}
		return KindPermanent
	}

	if pgconn.SafeToRetry(err) {
		return KindTransient
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return KindTransient
	}
	return KindPermanent
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
