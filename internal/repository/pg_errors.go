package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	pkgerrors "github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/pkg/errors"
)

// PostgreSQL SQLSTATE
const (
	pgUniqueViolation    = "23505"
	pgExclusionViolation = "23P01"
)

// translate 将约束冲突转换为 *pkgerrors.ConstraintError，其他错误原样返回
func translate(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		return &pkgerrors.ConstraintError{Kind: pkgerrors.ErrDuplicate, Constraint: pgErr.ConstraintName}
	case pgExclusionViolation:
		return &pkgerrors.ConstraintError{Kind: pkgerrors.ErrSchedulingConflict, Constraint: pgErr.ConstraintName}
	}
	return err
}
