// Package viewstate owns the state shown to the user: live expense and
// category lists, totals, the calendar and the entry draft. Every mutation
// runs on a single command loop, one at a time, to completion.
package viewstate

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"mintly/internal/aggregate"
	"mintly/internal/core"
	"mintly/internal/live"
	"mintly/internal/log"
	"mintly/internal/repository"
	"mintly/internal/suggest"
	"mintly/internal/undo"
)

var ErrNotRunning = errors.New("view-state controller is not running")

// Options tunes a Controller. Zero values pick the defaults.
type Options struct {
	Location     *time.Location
	Now          func() time.Time
	SuggestDelay time.Duration
	MemoSize     int
	Logger       *log.Logger
}

type command struct {
	ctx   context.Context
	run   func(ctx context.Context) error
	reply chan error
}

// Controller is the single owner of view state.
type Controller struct {
	repo     *repository.Repository
	undo     *undo.Log
	engine   *aggregate.Engine
	debounce *suggest.Debouncer
	logger   *log.Logger
	hintLog  *log.Logger
	loc      *time.Location
	now      func() time.Time

	clock        *live.Value[core.Month]
	monthlyTotal *live.View[decimal.Decimal]
	nav          *live.Value[calendarNav]
	calendar     *live.View[Calendar]
	detail       *live.View[aggregate.DayDetail]
	draft        *live.Value[Draft]
	suggestion   *live.Value[Suggestion]

	// Lifecycle management
	mu       sync.Mutex
	running  bool
	stopping bool
	cmds     chan command
	stopCh  chan struct{}
	doneCh  chan struct{}
}

func New(repo *repository.Repository, opts Options) *Controller {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.SuggestDelay == 0 {
		opts.SuggestDelay = suggest.DefaultDelay
	}
	if opts.Logger == nil {
		opts.Logger = log.FromDefault(log.ComponentViewState)
	}

	c := &Controller{
		repo:     repo,
		undo:     undo.New(),
		engine:   aggregate.NewEngine(repo.AllExpenses(), opts.Location, opts.MemoSize),
		debounce: suggest.NewDebouncer(opts.SuggestDelay),
		logger:   opts.Logger.WithComponent(log.ComponentViewState),
		hintLog:  opts.Logger.WithComponent(log.ComponentSuggest),
		loc:      opts.Location,
		now:      opts.Now,
	}

	current := c.currentMonth()
	c.clock = live.NewValue(current)
	c.monthlyTotal = c.engine.MonthlyTotal(c.clock)
	c.nav = live.NewValue(calendarNav{month: current})
	c.calendar = live.Combine(repo.AllExpenses(), c.nav, func(_ []core.Expense, n calendarNav) Calendar {
		g := c.engine.Group(n.month)
		return Calendar{
			Month:    n.month,
			Selected: n.selected,
			Grouping: g,
			Detail:   g.Detail(n.selected),
		}
	})
	c.detail = live.Map(c.calendar.Value, func(cal Calendar) aggregate.DayDetail {
		return cal.Detail
	})
	c.draft = live.NewValue(Draft{})
	c.suggestion = live.NewValue(Suggestion{})

	return c
}

// Start begins the command loop. Returns an error if already running.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return fmt.Errorf("view-state controller is already running")
	}
	c.running = true
	c.stopping = false
	c.cmds = make(chan command)
	c.stopCh = make(chan struct{})
	c.doneCh = make(chan struct{})
	c.mu.Unlock()

	c.refreshClock()
	go c.runLoop(ctx, c.cmds, c.stopCh, c.doneCh)

	c.logger.InfoContext(ctx, "View-state controller started",
		log.FieldMonth, c.clock.Get().String(),
		"location", c.loc.String())

	return nil
}

// Stop cancels any pending suggestion, stops the loop and waits for the
// command in flight to finish. A Stop that timed out can be retried.
func (c *Controller) Stop(ctx context.Context) error {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return nil
	}
	doneCh := c.doneCh
	if !c.stopping {
		c.stopping = true
		close(c.stopCh)
	}
	c.mu.Unlock()

	c.debounce.Cancel()

	select {
	case <-doneCh:
		c.logger.InfoContext(ctx, "View-state controller stopped gracefully")
	case <-ctx.Done():
		c.logger.WarnContext(ctx, "View-state controller stop timed out")
		return ctx.Err()
	}

	c.mu.Lock()
	c.running = false
	c.stopping = false
	c.mu.Unlock()

	return nil
}

// IsRunning returns whether the command loop is running
func (c *Controller) IsRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Close stops the loop and detaches every derived view.
func (c *Controller) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := c.Stop(ctx)
	c.monthlyTotal.Close()
	c.detail.Close()
	c.calendar.Close()
	return err
}

func (c *Controller) runLoop(ctx context.Context, cmds <-chan command, stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	rollover := time.NewTimer(c.untilNextMonth())
	defer rollover.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ctx.Done():
			return
		case cmd := <-cmds:
			cmd.reply <- cmd.run(cmd.ctx)
		case <-rollover.C:
			c.refreshClock()
			rollover.Reset(c.untilNextMonth())
		}
	}
}

// exec runs fn on the command loop and waits for its result.
func (c *Controller) exec(ctx context.Context, fn func(ctx context.Context) error) error {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return ErrNotRunning
	}
	cmds, stopCh, doneCh := c.cmds, c.stopCh, c.doneCh
	c.mu.Unlock()

	cmd := command{ctx: ctx, run: fn, reply: make(chan error, 1)}
	select {
	case cmds <- cmd:
	case <-stopCh:
		return ErrNotRunning
	case <-doneCh:
		return ErrNotRunning
	case <-ctx.Done():
		return ctx.Err()
	}
	return <-cmd.reply
}

func (c *Controller) currentMonth() core.Month {
	return core.MonthOf(c.now().In(c.loc))
}

func (c *Controller) untilNextMonth() time.Duration {
	next := c.currentMonth().Next().Start(c.loc)
	d := next.Sub(c.now())
	if d < time.Second {
		d = time.Second
	}
	return d
}

func (c *Controller) refreshClock() {
	if m := c.currentMonth(); m != c.clock.Get() {
		c.clock.Set(m)
		c.logger.Debug("Clock month changed", log.FieldMonth, m.String())
	}
}
