package availability

import (
	"time"

	"github.com/BruksfildServices01/agenda-scheduler/internal/httperr"
)

// Window é a janela de atendimento comum às duas variantes de regra.
type Window struct {
	Start TimeOfDay
	End   TimeOfDay
	Lunch *Interval
}

func (w Window) Validate() error {
	if w.Start >= w.End {
		return httperr.Detailed(httperr.CodeInvalidInput, "start_time must be before end_time")
	}
	if w.Lunch != nil {
		if w.Lunch.Start >= w.Lunch.End {
			return httperr.Detailed(httperr.CodeInvalidInput, "lunch_start must be before lunch_end")
		}
		if w.Lunch.Start < w.Start || w.Lunch.End > w.End {
			return httperr.Detailed(httperr.CodeInvalidInput, "lunch must be inside the working window")
		}
	}
	return nil
}

// Rule é uma regra de disponibilidade: Recurring ou Override.
// O conjunto é fechado; não há outras implementações.
type Rule interface {
	AppliesOn(day time.Time) bool
	Hours() Window
	isRule()
}

// Recurring vale toda semana no dia indicado.
type Recurring struct {
	ID      uint
	Weekday time.Weekday
	Window  Window
}

func (r Recurring) AppliesOn(day time.Time) bool { return day.Weekday() == r.Weekday }
func (r Recurring) Hours() Window                { return r.Window }
func (Recurring) isRule()                        {}

// Override vale apenas numa data específica, somando-se às recorrentes.
type Override struct {
	ID     uint
	Date   time.Time
	Window Window
}

func (o Override) AppliesOn(day time.Time) bool { return Day(day).Equal(Day(o.Date)) }
func (o Override) Hours() Window                { return o.Window }
func (Override) isRule()                        {}

// Block remove um intervalo de uma data específica.
type Block struct {
	Date     time.Time
	Interval Interval
}

// Busy é o intervalo ocupado de um agendamento existente.
type Busy struct {
	Start time.Time
	End   time.Time
}
