package aggregate

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"mintly/internal/core"
	"mintly/internal/live"
)

func TestEngine_MemoisesPerSnapshot(t *testing.T) {
	src := live.NewValue([]core.Expense{
		exp("a", "2", time.Date(2025, time.May, 3, 8, 0, 0, 0, time.UTC)),
	})
	e := NewEngine(src, time.UTC, 4)
	may := core.Month{Year: 2025, Month: time.May}

	first := e.Group(may)
	second := e.Group(may)
	if !first.Total.Equal(second.Total) {
		t.Fatalf("memoised grouping differs: %s vs %s", first.Total, second.Total)
	}
	if st := e.Stats(); st.Hits != 1 || st.Misses != 1 {
		t.Errorf("Stats = %+v, want 1 hit and 1 miss", st)
	}

	src.Set(append(src.Get(), exp("b", "3", time.Date(2025, time.May, 4, 8, 0, 0, 0, time.UTC))))
	if got := e.Group(may).Total; !got.Equal(decimal.NewFromInt(5)) {
		t.Errorf("Total after write = %s, want 5", got)
	}
}

func TestEngine_WatchFollowsWrites(t *testing.T) {
	src := live.NewValue([]core.Expense{})
	e := NewEngine(src, time.UTC, 0)
	m := core.Month{Year: 2025, Month: time.July}

	w := e.Watch(m)
	defer w.Close()
	if len(w.Get().ActiveDays()) != 0 {
		t.Fatal("expected an empty month")
	}

	src.Set([]core.Expense{exp("a", "1", time.Date(2025, time.July, 9, 0, 0, 0, 0, time.UTC))})
	if days := w.Get().ActiveDays(); len(days) != 1 || days[0] != 9 {
		t.Errorf("ActiveDays = %v, want [9]", days)
	}
}

func TestEngine_MonthlyTotalFollowsClock(t *testing.T) {
	src := live.NewValue([]core.Expense{
		exp("jan", "10", time.Date(2025, time.January, 31, 23, 59, 59, 999e6, time.UTC)),
		exp("feb", "4", time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)),
	})
	clock := live.NewValue(core.Month{Year: 2025, Month: time.January})
	e := NewEngine(src, time.UTC, 0)

	total := e.MonthlyTotal(clock)
	defer total.Close()

	if !total.Get().Equal(decimal.NewFromInt(10)) {
		t.Errorf("January total = %s, want 10", total.Get())
	}

	clock.Set(clock.Get().Next())
	if !total.Get().Equal(decimal.NewFromInt(4)) {
		t.Errorf("February total = %s, want 4", total.Get())
	}

	src.Set(nil)
	if !total.Get().IsZero() {
		t.Errorf("total after clearing = %s, want 0", total.Get())
	}
}
