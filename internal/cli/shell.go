package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"mintly/internal/aggregate"
	"mintly/internal/core"
	"mintly/internal/log"
	"mintly/internal/viewstate"
)

const dateLayout = "2006-01-02"

var errUsage = errors.New("usage")

// Shell is a line-oriented front end over the view-state controller.
type Shell struct {
	c      *viewstate.Controller
	in     io.Reader
	out    io.Writer
	logger *log.Logger
}

func NewShell(c *viewstate.Controller, in io.Reader, out io.Writer, logger *log.Logger) *Shell {
	if logger == nil {
		logger = log.FromDefault(log.ComponentShell)
	}
	return &Shell{c: c, in: in, out: out, logger: logger.WithComponent(log.ComponentShell)}
}

// Run reads commands until quit, end of input or ctx is done.
func (s *Shell) Run(ctx context.Context) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(s.in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- sc.Err()
	}()

	s.printf("mintly: type help for commands\n")
	s.prompt()
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					return err
				default:
					return nil
				}
			}
			quit, err := s.Execute(ctx, line)
			if err != nil {
				s.printf("error: %v\n", err)
			}
			if quit {
				return nil
			}
			s.prompt()
		}
	}
}

// Execute runs a single command line. It reports whether the shell should
// exit.
func (s *Shell) Execute(ctx context.Context, line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]
	rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), fields[0]))

	var err error
	switch cmd {
	case "quit", "exit":
		return true, nil
	case "help":
		s.help()
	case "add":
		err = s.add(ctx, args)
	case "del":
		err = s.del(ctx, args)
	case "undo":
		err = s.undo(ctx)
	case "list":
		err = s.list(args)
	case "range":
		err = s.rangeCmd(args)
	case "total":
		s.printf("%s total: %s\n", s.c.CurrentMonth(), core.FormatAmount(s.c.MonthlyTotal().Get()))
	case "cal":
		err = s.cal(ctx, args)
	case "day":
		err = s.day(ctx, args)
	case "next":
		if err = s.c.NextMonth(ctx); err == nil {
			s.printCalendar()
		}
	case "prev":
		if err = s.c.PrevMonth(ctx); err == nil {
			s.printCalendar()
		}
	case "cats":
		s.cats()
	case "cat":
		err = s.cat(ctx, args, rest)
	case "suggest":
		s.suggest(rest)
	default:
		err = fmt.Errorf("unknown command %q, type help", cmd)
	}
	if errors.Is(err, errUsage) {
		s.help()
	}
	return false, err
}

func (s *Shell) help() {
	s.printf(`commands:
  add <amount> [description] [@category]   record an expense
  del <id>                                 delete an expense (id prefix is enough)
  undo                                     remove the last added expense
  list [n]                                 show the latest n expenses
  range <from> <to>                        expenses between two dates (YYYY-MM-DD)
  total                                    total of the current month
  cal [YYYY-MM]                            calendar of a month
  day <n>                                  toggle the selected day and show its expenses
  next | prev                              move the calendar by one month
  cats                                     list categories
  cat add <name>: kw, kw [#RRGGBB]         add a category
  cat del <name>                           delete a category
  suggest <description>                    show the matching category
  quit
`)
}

func (s *Shell) add(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: add <amount> [description] [@category]", errUsage)
	}
	amount, err := core.ParseAmount(args[0])
	if err != nil {
		return fmt.Errorf("amount %q: %w", args[0], err)
	}

	var (
		words []string
		catID *string
	)
	for _, w := range args[1:] {
		if strings.HasPrefix(w, "@") && len(w) > 1 {
			cat, ok := s.categoryByName(w[1:])
			if !ok {
				return fmt.Errorf("unknown category %q", w[1:])
			}
			catID = &cat.ID
			continue
		}
		words = append(words, w)
	}
	description := strings.Join(words, " ")
	if catID == nil {
		if cat, ok := s.c.SuggestCategory(description); ok {
			catID = &cat.ID
		}
	}

	e, err := s.c.AddExpense(ctx, amount, description, catID)
	if err != nil {
		return err
	}
	s.printf("added %s %q%s [%s], undo to revert\n",
		core.FormatAmount(e.Amount), e.Description, s.categoryLabel(e.CategoryID), shortID(e.ID))
	return nil
}

func (s *Shell) del(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: del <id>", errUsage)
	}
	e, err := s.expenseByPrefix(args[0])
	if err != nil {
		return err
	}
	if err := s.c.DeleteExpense(ctx, e.ID); err != nil {
		return err
	}
	s.printf("deleted %s %q\n", core.FormatAmount(e.Amount), e.Description)
	return nil
}

func (s *Shell) undo(ctx context.Context) error {
	e, ok, err := s.c.UndoLastExpense(ctx)
	if err != nil {
		return err
	}
	if !ok {
		s.printf("nothing to undo\n")
		return nil
	}
	s.printf("undid %s %q\n", core.FormatAmount(e.Amount), e.Description)
	return nil
}

func (s *Shell) list(args []string) error {
	limit := 20
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return fmt.Errorf("%w: list [n]", errUsage)
		}
		limit = n
	}
	expenses := s.c.Expenses().Get()
	if len(expenses) > limit {
		expenses = expenses[:limit]
	}
	s.printExpenses(expenses)
	return nil
}

func (s *Shell) rangeCmd(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: range <from> <to>", errUsage)
	}
	loc := s.c.Location()
	from, err := time.ParseInLocation(dateLayout, args[0], loc)
	if err != nil {
		return fmt.Errorf("from date: %w", err)
	}
	to, err := time.ParseInLocation(dateLayout, args[1], loc)
	if err != nil {
		return fmt.Errorf("to date: %w", err)
	}
	to = to.AddDate(0, 0, 1).Add(-time.Millisecond)

	in := s.c.ExpensesBetween(from, to)
	defer in.Close()
	total := s.c.TotalBetween(from, to)
	defer total.Close()

	s.printExpenses(in.Get())
	s.printf("total: %s\n", core.FormatAmount(total.Get()))
	return nil
}

func (s *Shell) cal(ctx context.Context, args []string) error {
	if len(args) > 0 {
		t, err := time.Parse("2006-01", args[0])
		if err != nil {
			return fmt.Errorf("%w: cal [YYYY-MM]", errUsage)
		}
		if err := s.c.ShowMonth(ctx, t.Year(), t.Month()); err != nil {
			return err
		}
	}
	s.printCalendar()
	return nil
}

func (s *Shell) day(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: day <n>", errUsage)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("%w: day <n>", errUsage)
	}
	if err := s.c.SelectDay(ctx, n); err != nil {
		return err
	}
	cal := s.c.Calendar().Get()
	if cal.Selected == nil {
		s.printf("selection cleared\n")
		return nil
	}
	s.printDetail(cal.Month, s.c.SelectedDayDetail().Get(), *cal.Selected)
	return nil
}

func (s *Shell) cats() {
	cats := s.c.Categories().Get()
	if len(cats) == 0 {
		s.printf("no categories\n")
		return
	}
	w := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCOLOR\tKEYWORDS")
	for _, c := range cats {
		fmt.Fprintf(w, "%s\t%s\t%s\n", c.Name, core.FormatColor(c.ColorDot), strings.Join(c.Keywords, ", "))
	}
	w.Flush()
}

func (s *Shell) cat(ctx context.Context, args []string, rest string) error {
	if len(args) < 2 {
		return fmt.Errorf("%w: cat add|del ...", errUsage)
	}
	spec := strings.TrimSpace(strings.TrimPrefix(rest, args[0]))
	switch strings.ToLower(args[0]) {
	case "add":
		name, keywords, color, err := core.ParseCategorySpec(spec)
		if err != nil {
			return err
		}
		c, err := s.c.AddCategory(ctx, name, keywords, color)
		if err != nil {
			return err
		}
		s.printf("added category %s (%s)\n", c.Name, strings.Join(c.Keywords, ", "))
	case "del":
		c, ok := s.categoryByName(spec)
		if !ok {
			return fmt.Errorf("unknown category %q", spec)
		}
		if err := s.c.DeleteCategory(ctx, c.ID); err != nil {
			return err
		}
		s.printf("deleted category %s\n", c.Name)
	default:
		return fmt.Errorf("%w: cat add|del ...", errUsage)
	}
	return nil
}

func (s *Shell) suggest(description string) {
	if c, ok := s.c.SuggestCategory(description); ok {
		s.printf("suggested: %s\n", c.Name)
		return
	}
	s.printf("no suggestion\n")
}

func (s *Shell) printExpenses(expenses []core.Expense) {
	if len(expenses) == 0 {
		s.printf("no expenses\n")
		return
	}
	loc := s.c.Location()
	w := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "ID\tDATE\tAMOUNT\t CATEGORY\t DESCRIPTION\t")
	for _, e := range expenses {
		cat, _ := s.c.ResolveCategory(e.CategoryID)
		fmt.Fprintf(w, "%s\t%s\t%s\t %s\t %s\t\n",
			shortID(e.ID), e.Time(loc).Format(dateLayout), core.FormatAmount(e.Amount), cat.Name, e.Description)
	}
	w.Flush()
}

func (s *Shell) printCalendar() {
	cal := s.c.Calendar().Get()
	g := cal.Grouping

	s.printf("%s %d\n", cal.Month.Month, cal.Month.Year)
	s.printf(" Su  Mo  Tu  We  Th  Fr  Sa\n")
	var b strings.Builder
	col := int(g.FirstWeekday)
	b.WriteString(strings.Repeat("    ", col))
	for _, d := range g.Days {
		mark := ' '
		if d.HasExpenses {
			mark = '*'
		}
		if cal.Selected != nil && *cal.Selected == d.Day {
			fmt.Fprintf(&b, "[%2d]", d.Day)
		} else {
			fmt.Fprintf(&b, " %2d%c", d.Day, mark)
		}
		col++
		if col == 7 {
			b.WriteString("\n")
			col = 0
		}
	}
	if col != 0 {
		b.WriteString("\n")
	}
	s.printf("%s", b.String())
	s.printf("month total: %s\n", core.FormatAmount(g.Total))
}

func (s *Shell) printDetail(m core.Month, d aggregate.DayDetail, day int) {
	s.printf("%s-%02d: %s\n", m, day, core.FormatAmount(d.Total))
	for _, e := range d.Expenses {
		s.printf("  %s  %8s  %s%s\n", shortID(e.ID), core.FormatAmount(e.Amount), e.Description, s.categoryLabel(e.CategoryID))
	}
}

func (s *Shell) categoryLabel(id *string) string {
	if c, ok := s.c.ResolveCategory(id); ok {
		return " (" + c.Name + ")"
	}
	return ""
}

func (s *Shell) categoryByName(name string) (core.Category, bool) {
	name = strings.TrimSpace(name)
	for _, c := range s.c.Categories().Get() {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return core.Category{}, false
}

func (s *Shell) expenseByPrefix(prefix string) (core.Expense, error) {
	var found []core.Expense
	for _, e := range s.c.Expenses().Get() {
		if strings.HasPrefix(e.ID, prefix) {
			found = append(found, e)
		}
	}
	switch len(found) {
	case 0:
		return core.Expense{}, fmt.Errorf("no expense with id %q", prefix)
	case 1:
		return found[0], nil
	}
	return core.Expense{}, fmt.Errorf("id %q matches %d expenses", prefix, len(found))
}

func (s *Shell) prompt() {
	s.printf("> ")
}

func (s *Shell) printf(format string, args ...any) {
	if _, err := fmt.Fprintf(s.out, format, args...); err != nil {
		s.logger.Debug("Shell write failed", log.FieldError, err)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
