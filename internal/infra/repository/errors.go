package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/agenda-scheduler/internal/domain/appointment"
)

// SQLSTATE relevantes do postgres
const (
	pgExclusionViolation = "23P01"
	pgSerialization      = "40001"
	pgDeadlock           = "40P01"
)

// IsExclusionConflict reconhece a violação da constraint de sobreposição.
func IsExclusionConflict(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgExclusionViolation
}

// IsRetryable reconhece falhas transitórias de concorrência.
func IsRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgSerialization || pgErr.Code == pgDeadlock
	}
	// sqlite devolve texto, sem código estruturado
	msg := err.Error()
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "database table is locked")
}

// translateWrite converte erros de escrita de agendamento para o domínio.
func translateWrite(err error) error {
	switch {
	case err == nil:
		return nil
	case IsExclusionConflict(err):
		return domain.ErrSlotConflict
	case IsRetryable(err):
		return domain.ErrRetryable
	default:
		return err
	}
}

func notFound(err error, as error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return as
	}
	return err
}
