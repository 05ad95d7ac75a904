package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Códigos SQLSTATE que se traducen a errores de dominio.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeNumericOutOfRange   = "22003"
)

// pgCode devuelve el SQLSTATE de un error de Postgres, o "" si no lo es.
func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	if code := pgCode(err); code != "" {
		return code == codeUniqueViolation
	}
	return strings.Contains(err.Error(), codeUniqueViolation)
}

// isUniqueOn violación de unicidad sobre el constraint (o índice único) indicado.
func isUniqueOn(err error, constraint string) bool {
	return isUniqueViolation(err) && violatedConstraint(err) == constraint
}

// isForeignKeyViolation verifica si un error es una violación de clave foránea (23503).
func isForeignKeyViolation(err error) bool {
	return pgCode(err) == codeForeignKeyViolation
}

// isNumericOutOfRange valor fuera del rango de la columna (22003).
func isNumericOutOfRange(err error) bool {
	return pgCode(err) == codeNumericOutOfRange
}

// violatedConstraint devuelve el nombre del constraint violado, o "" si no es un error de Postgres.
func violatedConstraint(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

// pageArgs traduce limit/offset a argumentos SQL; limit <= 0 = sin límite (LIMIT NULL).
func pageArgs(limit, offset int) (any, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		return nil, offset
	}
	return limit, offset
}
