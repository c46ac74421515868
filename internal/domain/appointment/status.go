package appointment

import "time"

// ===============================
// DeletionRequest Status
// ===============================

type DeletionStatus string

const (
	DeletionPending  DeletionStatus = "pending"
	DeletionApproved DeletionStatus = "approved"
	DeletionDenied   DeletionStatus = "denied"
)

func (s DeletionStatus) Terminal() bool {
	return s == DeletionApproved || s == DeletionDenied
}

// ===============================
// Transitions
// ===============================

// NextDeletionStatus aplica a resposta do cliente. Só Pending transiciona.
func NextDeletionStatus(current DeletionStatus, approve bool) (DeletionStatus, error) {
	if current != DeletionPending {
		return current, ErrAlreadyResolved
	}
	if approve {
		return DeletionApproved, nil
	}
	return DeletionDenied, nil
}

// ===============================
// Booking validations
// ===============================

// MaxBackdate limita reservas no passado. Lançamentos retroativos do
// próprio estabelecimento são aceitos dentro dessa janela.
const MaxBackdate = 365 * 24 * time.Hour

// ValidateStart rejeita horários não informados ou absurdamente antigos.
func ValidateStart(start, now time.Time) error {
	if start.IsZero() || start.Year() < 2000 {
		return ErrInvalidStart
	}
	if start.Before(now.Add(-MaxBackdate)) {
		return ErrInvalidStart
	}
	return nil
}
