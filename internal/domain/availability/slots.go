package availability

import (
	"sort"
	"time"
)

type Slot struct {
	Date  string    `json:"date"`
	Time  string    `json:"time"`
	Start time.Time `json:"-"`
}

type Query struct {
	From     time.Time // inclusive, só a data conta
	To       time.Time // inclusive
	Duration time.Duration
	Rules    []Rule // na ordem de leitura
	Blocks   []Block
	Busy     []Busy
}

// Generate calcula os horários livres. Para cada dia, cada regra aplicável
// produz uma grade contígua a partir do seu início, com passo igual à
// duração do serviço; candidatos que tocam almoço, bloqueio ou agendamento
// são descartados. A saída segue a ordem das regras e depois a do horário.
func Generate(q Query) []Slot {
	from, to := Day(q.From), Day(q.To)
	if from.After(to) || q.Duration <= 0 {
		return []Slot{}
	}

	step := TimeOfDay(q.Duration / time.Minute)
	if step <= 0 {
		return []Slot{}
	}

	blocks := make(map[time.Time][]Interval)
	for _, b := range q.Blocks {
		d := Day(b.Date)
		blocks[d] = append(blocks[d], b.Interval)
	}

	busy := make([]Busy, len(q.Busy))
	copy(busy, q.Busy)
	sort.Slice(busy, func(i, j int) bool { return busy[i].Start.Before(busy[j].Start) })

	slots := []Slot{}
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		for _, rule := range q.Rules {
			if !rule.AppliesOn(day) {
				continue
			}
			w := rule.Hours()

			for start := w.Start; start+step <= w.End; start += step {
				cand := Interval{Start: start, End: start + step}

				if w.Lunch != nil && cand.Overlaps(*w.Lunch) {
					continue
				}
				if overlapsAny(cand, blocks[day]) {
					continue
				}

				absStart := start.On(day)
				absEnd := absStart.Add(q.Duration)
				if collides(absStart, absEnd, busy) {
					continue
				}

				slots = append(slots, Slot{
					Date:  day.Format(DateLayout),
					Time:  start.String(),
					Start: absStart,
				})
			}
		}
	}

	return slots
}

func overlapsAny(cand Interval, list []Interval) bool {
	for _, iv := range list {
		if cand.Overlaps(iv) {
			return true
		}
	}
	return false
}

// collides assume busy ordenado por início.
func collides(start, end time.Time, busy []Busy) bool {
	// primeiro agendamento que começa em ou depois de end não pode colidir
	n := sort.Search(len(busy), func(i int) bool { return !busy[i].Start.Before(end) })
	for i := 0; i < n; i++ {
		if Overlaps(start, end, busy[i].Start, busy[i].End) {
			return true
		}
	}
	return false
}
