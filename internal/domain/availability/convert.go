package availability

import (
	"time"

	"github.com/BruksfildServices01/agenda-scheduler/internal/httperr"
	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
)

func invalid(detail string) error {
	return httperr.Detailed(httperr.CodeInvalidInput, detail)
}

// ParseWindow valida os horários textuais de uma regra.
func ParseWindow(start, end string, lunchStart, lunchEnd *string) (Window, error) {
	s, err := ParseTimeOfDay(start)
	if err != nil {
		return Window{}, invalid("invalid start_time")
	}
	e, err := ParseTimeOfDay(end)
	if err != nil {
		return Window{}, invalid("invalid end_time")
	}

	w := Window{Start: s, End: e}

	hasStart := lunchStart != nil && *lunchStart != ""
	hasEnd := lunchEnd != nil && *lunchEnd != ""
	if hasStart != hasEnd {
		return Window{}, invalid("lunch_start and lunch_end go together")
	}
	if hasStart {
		ls, err := ParseTimeOfDay(*lunchStart)
		if err != nil {
			return Window{}, invalid("invalid lunch_start")
		}
		le, err := ParseTimeOfDay(*lunchEnd)
		if err != nil {
			return Window{}, invalid("invalid lunch_end")
		}
		w.Lunch = &Interval{Start: ls, End: le}
	}

	if err := w.Validate(); err != nil {
		return Window{}, err
	}
	return w, nil
}

// RuleFromModel converte a linha persistida na variante correspondente.
func RuleFromModel(m models.AvailabilityRule) (Rule, error) {
	w, err := ParseWindow(m.StartTime, m.EndTime, m.LunchStart, m.LunchEnd)
	if err != nil {
		return nil, err
	}

	hasDate := m.Date != nil && *m.Date != ""
	switch {
	case m.Weekday != nil && hasDate:
		return nil, invalid("rule must have weekday or date, not both")
	case m.Weekday != nil:
		if *m.Weekday < 0 || *m.Weekday > 6 {
			return nil, invalid("weekday must be between 0 and 6")
		}
		return Recurring{ID: m.ID, Weekday: time.Weekday(*m.Weekday), Window: w}, nil
	case hasDate:
		d, err := ParseDate(*m.Date)
		if err != nil {
			return nil, invalid("invalid date")
		}
		return Override{ID: m.ID, Date: d, Window: w}, nil
	default:
		return nil, invalid("rule must have weekday or date")
	}
}

func BlockFromModel(m models.Block) (Block, error) {
	d, err := ParseDate(m.Date)
	if err != nil {
		return Block{}, invalid("invalid block date")
	}
	s, err := ParseTimeOfDay(m.StartTime)
	if err != nil {
		return Block{}, invalid("invalid block start_time")
	}
	e, err := ParseTimeOfDay(m.EndTime)
	if err != nil {
		return Block{}, invalid("invalid block end_time")
	}
	if s >= e {
		return Block{}, invalid("block start_time must be before end_time")
	}
	return Block{Date: d, Interval: Interval{Start: s, End: e}}, nil
}
