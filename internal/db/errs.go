package db

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// database errs.
	ErrDBExists             = errors.New("database exists")
	ErrDBAlreadyInitialized = errors.New("already initialized")
	ErrDBNotFound           = errors.New("database not found")
	ErrDBInvalidSchema      = errors.New("database schema missing or incomplete")
	ErrDBUnknownDriver      = errors.New("unknown database driver")
)

var (
	// records errs.
	ErrRecordNotFound = errors.New("no record found")
	ErrRecordNil      = errors.New("nil record")
	ErrInvalidSortBy  = errors.New("invalid sort field")
	ErrIntegrity      = errors.New("integrity violation")
)

// Constraint kinds reported by IntegrityError.
const (
	ConstraintNotNull    = "NOT NULL"
	ConstraintUnique     = "UNIQUE"
	ConstraintForeignKey = "FOREIGN KEY"
	ConstraintCheck      = "CHECK"
)

// IntegrityError is returned when a write violates a schema constraint.
type IntegrityError struct {
	Table      string
	Column     string
	Constraint string
	Err        error // driver error, nil when raised before reaching the database
}

// Field returns the violated field as "table.column".
func (e *IntegrityError) Field() string {
	if e.Column == "" {
		return e.Table
	}

	return e.Table + "." + e.Column
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("%s: %s constraint failed: %s", ErrIntegrity, e.Constraint, e.Field())
}

func (e *IntegrityError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrIntegrity}
	}

	return []error{ErrIntegrity, e.Err}
}

func notNull(table, column string) error {
	return &IntegrityError{Table: table, Column: column, Constraint: ConstraintNotNull}
}

// reConstraint matches the constraint messages of both sqlite drivers, e.g.
//
//	modernc: constraint failed: NOT NULL constraint failed: sources.uri (1299)
//	mattn:   UNIQUE constraint failed: tags.name
var reConstraint = regexp.MustCompile(`(NOT NULL|UNIQUE|CHECK|FOREIGN KEY) constraint failed(?::\s*([\w.]+))?`)

// foreignKeys maps a table to the column holding its foreign key, SQLite does
// not name it in the message.
var foreignKeys = map[string]string{
	tableLinks: "source_id",
}

// translate converts a driver constraint error raised while writing into table
// to an IntegrityError. Any other error is returned unchanged.
func translate(err error, table string) error {
	if err == nil {
		return nil
	}

	m := reConstraint.FindStringSubmatch(err.Error())
	if m == nil {
		return err
	}

	ie := &IntegrityError{Table: table, Constraint: m[1], Err: err}

	switch field := m[2]; {
	case strings.Contains(field, "."):
		ie.Table, ie.Column, _ = strings.Cut(field, ".")
	case field != "":
		ie.Column = field
	case ie.Constraint == ConstraintForeignKey:
		ie.Column = foreignKeys[table]
	}

	return ie
}
