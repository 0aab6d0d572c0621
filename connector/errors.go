package connector

import (
	"errors"
	"fmt"
)

// ErrNoParameters is returned by Exec and Query for statements that have
// placeholders.
var ErrNoParameters = errors.New("cannot run statements with parameters directly, use prepare instead")

// ErrNoResultRows is returned by Query for a statement without a result row.
var ErrNoResultRows = errors.New("statement has no result rows")

// Error wraps a driver error with the operation and SQL that caused it.
type Error struct {
	// Op is the connector operation: exec, query, prepare, begin, commit,
	// rollback or scan.
	Op string
	// Code is the driver-specific error code, empty when the driver gave
	// none.
	Code    string
	Message string
	SQL     string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Code != "" {
		return fmt.Sprintf("connector: %s [%s]: %s", e.Op, e.Code, msg)
	}
	return fmt.Sprintf("connector: %s: %s", e.Op, msg)
}

func (e *Error) Unwrap() error { return e.Err }

// ErrorCode extracts a driver-specific code and message from err.
type ErrorCode func(err error) (code, message string, ok bool)

func (c *Conn) wrap(op, query string, err error) error {
	if err == nil {
		return nil
	}
	e := &Error{Op: op, SQL: query, Err: err}
	if c.driver.ErrorCode != nil {
		if code, msg, ok := c.driver.ErrorCode(err); ok {
			e.Code, e.Message = code, msg
		}
	}
	c.logger.Warn("driver error",
		"op", op,
		"code", e.Code,
		"sql", query,
		"error", err,
	)
	return e
}
