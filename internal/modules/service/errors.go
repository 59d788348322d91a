package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/memodb-io/docledger/internal/infra/cache"
	"github.com/memodb-io/docledger/internal/modules/repo"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindNotFound   ErrorKind = "not_found"
	KindConflict   ErrorKind = "conflict"
	KindDatabase   ErrorKind = "database"
)

// Sentinels for errors.Is. Every error returned by the document and
// workspace services wraps exactly one of them.
var (
	ErrValidation = errors.New("validation")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrDatabase   = errors.New("database")
)

// DocumentError is the only error type that leaves the service layer. Driver
// errors are logged where they are classified and never wrapped, so callers
// cannot observe storage internals.
type DocumentError struct {
	Op   string
	Kind ErrorKind
	Msg  string
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Msg)
}

func (e *DocumentError) Unwrap() error {
	switch e.Kind {
	case KindValidation:
		return ErrValidation
	case KindNotFound:
		return ErrNotFound
	case KindConflict:
		return ErrConflict
	default:
		return ErrDatabase
	}
}

// KindOf reports the taxonomy of err, defaulting to database for anything
// that did not come from this package.
func KindOf(err error) ErrorKind {
	var de *DocumentError
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindDatabase
}

func validationErr(op, msg string) error {
	return &DocumentError{Op: op, Kind: KindValidation, Msg: msg}
}

func notFoundErr(op, what string) error {
	return &DocumentError{Op: op, Kind: KindNotFound, Msg: what + " not found"}
}

func conflictErr(op, msg string) error {
	return &DocumentError{Op: op, Kind: KindConflict, Msg: msg}
}

// classify maps a storage or infrastructure error onto the taxonomy. what
// names the entity reported in not_found messages.
func classify(log *zap.Logger, op, what string, err error) error {
	if err == nil {
		return nil
	}

	var de *DocumentError
	if errors.As(err, &de) {
		return de
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFoundErr(op, what)
	case errors.Is(err, repo.ErrDocumentAlreadyBound):
		return conflictErr(op, "objective already has a document")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		log.Warn("unique constraint violated", zap.String("op", op), zap.Error(err))
		return conflictErr(op, "concurrent write collided, retry")
	case errors.Is(err, cache.ErrIdempotencyInFlight):
		return conflictErr(op, "a request with this idempotency key is still in progress")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		log.Warn("foreign key violated", zap.String("op", op), zap.Error(err))
		return notFoundErr(op, "referenced record")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return &DocumentError{Op: op, Kind: KindDatabase, Msg: "request cancelled"}
	}

	log.Error("storage failure", zap.String("op", op), zap.Error(err))
	return &DocumentError{Op: op, Kind: KindDatabase, Msg: "storage failure"}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateInput runs struct tag validation and reports the first failing
// field as a validation error.
func validateInput(op string, in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var ves validator.ValidationErrors
	if errors.As(err, &ves) && len(ves) > 0 {
		fe := ves[0]
		if fe.Tag() == "required" {
			return validationErr(op, fe.Field()+" is required")
		}
		return validationErr(op, fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
	}
	return validationErr(op, err.Error())
}
