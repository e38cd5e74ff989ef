package sqlerr

import (
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/deppfellow/go-catalog/internal/errs"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// uniqueKeyPattern matches PostgreSQL's default unique constraint names,
// e.g. users_email_key or items_category_id_name_key.
var uniqueKeyPattern = regexp.MustCompile(`_([^_]+)_(?:key|ukey)$`)

// ErrCode reports the Code of a normalized error, or Other.
func ErrCode(err error) Code {
	var sqlErr *Error
	if errors.As(err, &sqlErr) {
		return sqlErr.Code
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return MapCode(pgErr.Code)
	}
	return Other
}

// IsUniqueViolation reports whether err is a unique constraint failure.
func IsUniqueViolation(err error) bool {
	return ErrCode(err) == UniqueViolation
}

// ConvertPgError normalizes a pgconn.PgError.
func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:           MapCode(src.Code),
		Severity:       MapSeverity(src.Severity),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		SchemaName:     src.SchemaName,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		DataTypeName:   src.DataTypeName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}

// singular turns a table name into its entity name: categories -> category.
func singular(name string) string {
	switch {
	case strings.HasSuffix(name, "ies") && len(name) > 3:
		return name[:len(name)-3] + "y"
	case strings.HasSuffix(name, "s") && len(name) > 1:
		return name[:len(name)-1]
	default:
		return name
	}
}

// generateErrorCode builds machine codes such as CATEGORY_ALREADY_EXISTS.
func generateErrorCode(tableName string, code Code) string {
	domain := "RECORD"
	if tableName != "" {
		domain = strings.ToUpper(singular(strings.ToLower(tableName)))
	}

	action := "ERROR"
	switch code {
	case ForeignKeyViolation:
		action = "NOT_FOUND"
	case UniqueViolation:
		action = "ALREADY_EXISTS"
	case NotNullViolation:
		action = "REQUIRED"
	case CheckViolation:
		action = "INVALID"
	}

	return fmt.Sprintf("%s_%s", domain, action)
}

func formatUserFriendlyMessage(sqlErr *Error) string {
	entity := getEntityName(sqlErr.TableName, sqlErr.ColumnName)

	switch sqlErr.Code {
	case ForeignKeyViolation:
		return fmt.Sprintf("The referenced %s does not exist", entity)
	case UniqueViolation:
		if column := extractColumnForUniqueViolation(sqlErr.ConstraintName); column != "" {
			return fmt.Sprintf("A %s with this %s already exists", entity, humanizeText(column))
		}
		return fmt.Sprintf("A %s with this identifier already exists", entity)
	case NotNullViolation:
		field := humanizeText(sqlErr.ColumnName)
		if field == "" {
			field = "field"
		}
		return fmt.Sprintf("The %s is required", field)
	case CheckViolation:
		if field := humanizeText(sqlErr.ColumnName); field != "" {
			return fmt.Sprintf("The %s value does not meet required conditions", field)
		}
		return "One or more values do not meet required conditions"
	default:
		return "An error occurred while processing your request"
	}
}

// getEntityName prefers a foreign key column (category_id -> Category) and
// falls back to the singular table name.
func getEntityName(tableName, columnName string) string {
	if col := strings.ToLower(columnName); strings.HasSuffix(col, "_id") {
		return humanizeText(strings.TrimSuffix(col, "_id"))
	}
	if tableName != "" {
		return humanizeText(singular(strings.ToLower(tableName)))
	}
	return "record"
}

func humanizeText(text string) string {
	if text == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}

// extractColumnForUniqueViolation reads the column out of unique_<table>_<column>
// or <table>_<column>_key constraint names.
func extractColumnForUniqueViolation(constraintName string) string {
	if constraintName == "" {
		return ""
	}

	if strings.HasPrefix(constraintName, "unique_") {
		parts := strings.Split(constraintName, "_")
		if len(parts) >= 3 {
			return parts[len(parts)-1]
		}
	}

	if m := uniqueKeyPattern.FindStringSubmatch(constraintName); len(m) > 1 {
		return m[1]
	}
	return ""
}

// HandleError converts a database error into an *errs.HTTPError.
// HTTPErrors pass through unchanged; anything unrecognized becomes a 500.
func HandleError(err error) error {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		sqlErr := ConvertPgError(pgErr)
		code := generateErrorCode(sqlErr.TableName, sqlErr.Code)
		message := formatUserFriendlyMessage(sqlErr)

		switch sqlErr.Code {
		case ForeignKeyViolation:
			return errs.NewBadRequestError(message, false, &code, nil, nil)
		case UniqueViolation:
			return errs.NewConflictError(message, true, &code)
		case NotNullViolation:
			fieldErrors := []errs.FieldError{{
				Field: strings.ToLower(sqlErr.ColumnName),
				Error: "is required",
			}}
			return errs.NewBadRequestError(message, true, &code, fieldErrors, nil)
		case CheckViolation:
			return errs.NewBadRequestError(message, true, &code, nil, nil)
		default:
			return errs.NewInternalServerError()
		}
	}

	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) || pgxscan.NotFound(err) {
		return errs.NewNotFoundError("Resource not found", false, nil)
	}

	return errs.NewInternalServerError()
}
