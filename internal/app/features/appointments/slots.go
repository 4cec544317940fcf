package appointments

import (
	"strings"
	"time"

	"github.com/dalemusser/localhub/internal/domain/models"
)

// SlotLength is the length of one bookable slot.
const SlotLength = 30 * time.Minute

// DefaultHours applies when a business has no opening hours on file.
var DefaultHours = models.DayHours{Open: "09:00", Close: "18:00"}

var weekdayKeys = [...]string{"sun", "mon", "tue", "wed", "thu", "fri", "sat"}

// hoursOn returns the opening hours for date's weekday. A business with a
// schedule is closed on days the schedule leaves out.
func hoursOn(b *models.Business, date time.Time) (models.DayHours, bool) {
	hours := b.Hours()
	if len(hours) == 0 {
		return DefaultHours, true
	}
	key := weekdayKeys[date.Weekday()]
	for k, v := range hours {
		if strings.ToLower(k) == key {
			return v, v.Open != "" && v.Close != ""
		}
	}
	return models.DayHours{}, false
}

func parseClock(s string) (time.Duration, bool) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, false
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, true
}

// Slots returns the "HH:MM" start of every slot that fits inside the
// business's hours on date. A slot must end by closing time.
func Slots(b *models.Business, date time.Time) []string {
	h, open := hoursOn(b, date)
	if !open {
		return nil
	}
	from, ok1 := parseClock(h.Open)
	to, ok2 := parseClock(h.Close)
	if !ok1 || !ok2 || to <= from {
		return nil
	}
	var out []string
	for t := from; t+SlotLength <= to; t += SlotLength {
		out = append(out, clock(t))
	}
	return out
}

func clock(d time.Duration) string {
	return time.Date(0, 1, 1, 0, 0, 0, 0, time.UTC).Add(d).Format("15:04")
}

// slotOption is one choice in the slot picker.
type slotOption struct {
	Time     string
	Taken    bool
	Past     bool
	Selected bool
}

func (s slotOption) Available() bool { return !s.Taken && !s.Past }

// slotOptions marks taken slots and, when date is today in now's location,
// slots that have already started.
func slotOptions(b *models.Business, date, now time.Time, taken map[string]bool, selected string) []slotOption {
	starts := Slots(b, date)
	out := make([]slotOption, 0, len(starts))
	today := sameDay(date, now)
	nowClock := now.Format("15:04")
	for _, s := range starts {
		out = append(out, slotOption{
			Time:     s,
			Taken:    taken[s],
			Past:     today && s <= nowClock,
			Selected: s == selected,
		})
	}
	return out
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
