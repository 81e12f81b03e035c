// Package sqlerr translates Postgres driver errors into API errors.
//
// It classifies SQLSTATE codes (unique, foreign key, not-null and check
// violations) and converts them into user-friendly HTTPErrors; everything it
// does not recognize becomes a generic 500 so store internals never reach
// the client.
package sqlerr

import "fmt"

// Code is the category of a database error.
type Code string

const (
	Other               Code = "other"
	NotNullViolation    Code = "not_null_violation"
	ForeignKeyViolation Code = "foreign_key_violation"
	UniqueViolation     Code = "unique_violation"
	CheckViolation      Code = "check_violation"
	ExclusionViolation  Code = "exclusion_violation"
	InvalidTextRep      Code = "invalid_text_representation"
	NumericOutOfRange   Code = "numeric_value_out_of_range"
	QueryCanceled       Code = "query_canceled"
	ConnectionFailure   Code = "connection_failure"
	DeadlockDetected    Code = "deadlock_detected"
	SerializationFail   Code = "serialization_failure"
)

// MapCode maps a Postgres SQLSTATE to a Code.
func MapCode(sqlstate string) Code {
	switch sqlstate {
	case "23502":
		return NotNullViolation
	case "23503":
		return ForeignKeyViolation
	case "23505":
		return UniqueViolation
	case "23514":
		return CheckViolation
	case "23P01":
		return ExclusionViolation
	case "22P02":
		return InvalidTextRep
	case "22003":
		return NumericOutOfRange
	case "57014":
		return QueryCanceled
	case "08000", "08003", "08006", "08001", "08004":
		return ConnectionFailure
	case "40P01":
		return DeadlockDetected
	case "40001":
		return SerializationFail
	}
	return Other
}

// Severity is the severity reported by the server.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityFatal   Severity = "FATAL"
	SeverityPanic   Severity = "PANIC"
	SeverityWarning Severity = "WARNING"
	SeverityNotice  Severity = "NOTICE"
	SeverityDebug   Severity = "DEBUG"
	SeverityInfo    Severity = "INFO"
	SeverityLog     Severity = "LOG"
)

func MapSeverity(severity string) Severity {
	switch Severity(severity) {
	case SeverityError, SeverityFatal, SeverityPanic, SeverityWarning,
		SeverityNotice, SeverityDebug, SeverityInfo, SeverityLog:
		return Severity(severity)
	}
	return SeverityError
}

// Error is a classified database error.
type Error struct {
	Code           Code
	Severity       Severity
	DatabaseCode   string
	Message        string
	SchemaName     string
	TableName      string
	ColumnName     string
	DataTypeName   string
	ConstraintName string
	driverErr      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Severity, e.DatabaseCode, e.Message)
}

func (e *Error) Unwrap() error {
	return e.driverErr
}
