package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/jrsteele09/gym-checkin/calendar"
	"github.com/jrsteele09/gym-checkin/internal/errors"
	"github.com/jrsteele09/gym-checkin/manager"
	"github.com/jrsteele09/gym-checkin/payments"
	"github.com/jrsteele09/gym-checkin/settings"
	"github.com/jrsteele09/gym-checkin/trainingsessions"
	"github.com/jrsteele09/gym-checkin/users"
)

func messageFor(err error) string {
	if errors.Is(err, errors.ErrNotConfirmed) {
		return "Add -yes to confirm."
	}
	return manager.Message(err)
}

func table() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
}

func runLogin(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	username := fs.String("u", "", "username")
	password := fs.String("p", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	d := manager.NewDashboard(e.client, e.store)
	if err := d.Login(ctx, *username, *password); err != nil {
		return err
	}
	me, err := d.Me(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Logged in as %s (%s)\n", me.Username, me.Role())
	return nil
}

func runLogout(ctx context.Context, e *env, _ []string) error {
	if err := manager.NewDashboard(e.client, e.store).Logout(ctx); err != nil {
		return err
	}
	fmt.Println("Logged out")
	return nil
}

func runWhoAmI(ctx context.Context, e *env, _ []string) error {
	d := manager.NewDashboard(e.client, e.store)
	if !d.IsAuthenticated(ctx) {
		return errors.ErrUnauthenticated
	}
	me, err := d.Me(ctx)
	if err != nil {
		return err
	}
	tabs := []string{}
	for _, t := range d.Tabs(ctx) {
		tabs = append(tabs, string(t))
	}
	fmt.Printf("%s (%s)\ntabs: %s\nactive: %s\n", me.Username, me.Role(), strings.Join(tabs, ", "), d.ActiveTab(ctx))
	return nil
}

func runStats(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("stats", flag.ContinueOnError)
	prev := fs.Bool("prev", false, "show the previous month")
	next := fs.Bool("next", false, "show the next month")
	toggle := fs.Int("toggle", 0, "flip the subscription of an athlete")
	if err := fs.Parse(args); err != nil {
		return err
	}

	s := manager.NewStats(e.client, e.store)
	var err error
	switch {
	case *prev:
		err = s.PrevMonth(ctx)
	case *next:
		err = s.NextMonth(ctx)
	default:
		err = s.Load(ctx)
	}
	if err != nil {
		return err
	}
	if *toggle > 0 {
		if err := s.ToggleSubscription(ctx, *toggle); err != nil {
			return err
		}
	}

	fmt.Println(s.Period(ctx))
	w := table()
	fmt.Fprintln(w, "ID\tATHLETE\tPHONE\tCHECK-INS\tSUBSCRIPTION\tDUE")
	for _, r := range s.Rows() {
		due := "-"
		if r.AmountDue != nil {
			due = settings.FormatCost(*r.AmountDue)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%t\t%s\n", r.AthleteID, r.AthleteName, r.PhoneNumber, r.CheckInCount, r.SubscriptionActive, due)
	}
	fmt.Fprintf(w, "\t\t\t%d\t\t\n", s.Total())
	return w.Flush()
}

func runSessions(ctx context.Context, e *env, args []string) error {
	v := manager.NewTrainingSessions(e.client)
	sub := "list"
	if len(args) > 0 {
		sub, args = args[0], args[1:]
	}

	switch sub {
	case "add":
		fs := flag.NewFlagSet("sessions add", flag.ContinueOnError)
		id := fs.Int("id", 0, "session to replace")
		form := trainingsessions.NewForm()
		fs.StringVar(&form.Name, "name", "", "session name")
		freq := fs.String("freq", string(trainingsessions.FrequencyWeekly), "once or weekly")
		fs.StringVar(&form.Date, "date", "", "date of a one-off session (YYYY-MM-DD)")
		weekday := fs.Int("weekday", 0, "weekday of a weekly session, 0 is Monday")
		fs.StringVar(&form.StartTime, "start", "", "start time HH:MM")
		fs.StringVar(&form.EndTime, "end", "", "end time HH:MM")
		if err := fs.Parse(args); err != nil {
			return err
		}
		form.Frequency = trainingsessions.Frequency(*freq)
		form.Weekday = trainingsessions.Weekday(*weekday)

		if err := v.Load(ctx); err != nil {
			return err
		}
		saved, err := v.Save(ctx, *id, form)
		if err != nil {
			return err
		}
		fmt.Printf("Saved session %d\n", saved.ID)
	case "delete":
		fs := flag.NewFlagSet("sessions delete", flag.ContinueOnError)
		id := fs.Int("id", 0, "session id")
		yes := fs.Bool("yes", false, "confirm the deletion")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if err := v.Delete(ctx, *id, *yes); err != nil {
			return err
		}
		fmt.Printf("Deleted session %d\n", *id)
	case "list":
	default:
		return errors.Invalid("command", "unknown sessions command "+sub)
	}

	if err := v.Load(ctx); err != nil {
		return err
	}
	w := table()
	fmt.Fprintln(w, "ID\tNAME\tWHEN\tTIME\tACTIVE")
	for _, s := range v.Sessions() {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%t\n", s.ID, s.Name, s.Schedule(), s.TimeRange(), s.Active)
	}
	return w.Flush()
}

func runSettings(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("settings", flag.ContinueOnError)
	subscription := fs.String("subscription", "", "monthly subscription price")
	session := fs.String("session", "", "price of one session")
	if err := fs.Parse(args); err != nil {
		return err
	}

	v := manager.NewSettings(e.client)
	if *subscription != "" || *session != "" {
		if _, err := v.Save(ctx, *subscription, *session); err != nil {
			return err
		}
	} else if err := v.Load(ctx); err != nil {
		return err
	}
	cur := v.Current()
	fmt.Printf("subscription: %s\nsession: %s\n", cur.SubscriptionCost, cur.SessionCost)
	return nil
}

func runUsers(ctx context.Context, e *env, args []string) error {
	v := manager.NewUsers(e.client)
	if err := v.Load(ctx); err != nil {
		return err
	}
	sub := "list"
	if len(args) > 0 {
		sub, args = args[0], args[1:]
	}

	switch sub {
	case "add":
		fs := flag.NewFlagSet("users add", flag.ContinueOnError)
		var n users.NewUser
		fs.StringVar(&n.Username, "u", "", "username")
		fs.StringVar(&n.Password, "p", "", "password")
		fs.StringVar(&n.PasswordConfirm, "confirm", "", "password again")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if _, err := v.Create(ctx, n); err != nil {
			return err
		}
	case "delete":
		fs := flag.NewFlagSet("users delete", flag.ContinueOnError)
		id := fs.Int("id", 0, "user id")
		yes := fs.Bool("yes", false, "confirm the deletion")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if err := v.Delete(ctx, *id, *yes); err != nil {
			return err
		}
	case "list":
	default:
		return errors.Invalid("command", "unknown users command "+sub)
	}

	w := table()
	fmt.Fprintln(w, "ID\tUSERNAME\tROLE\tADMIN\tDELETABLE")
	for _, u := range v.List() {
		fmt.Fprintf(w, "%d\t%s\t%s\t%t\t%t\n", u.ID, u.Username, u.Role(), u.CanManageUsers(), v.CanDelete(u.ID))
	}
	return w.Flush()
}

func runAthlete(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("athlete", flag.ContinueOnError)
	id := fs.Int("id", 0, "athlete id")
	prev := fs.Bool("prev", false, "show the previous month")
	next := fs.Bool("next", false, "show the next month")
	day := fs.Int("day", 0, "day of the month to show")
	toggle := fs.Int("toggle", 0, "flip attendance at this session on -day")
	if err := fs.Parse(args); err != nil {
		return err
	}

	v := manager.NewAthleteDetail(e.client, e.store, *id)
	if err := v.Load(ctx); err != nil {
		return err
	}
	switch {
	case *prev:
		if err := v.PrevMonth(ctx); err != nil {
			return err
		}
	case *next:
		if err := v.NextMonth(ctx); err != nil {
			return err
		}
	}

	a := v.Athlete()
	fmt.Printf("%s  PIN %s  subscription %t\n", a.Name, a.PIN, a.SubscriptionActive)
	for _, p := range v.Phones() {
		fmt.Println("  phone", p.PhoneNumber)
	}
	printCalendar(v.Period(), v.Grid())

	if *day > 0 {
		if err := v.SelectDay(*day); err != nil {
			return err
		}
		if *toggle > 0 {
			if err := v.ToggleAttendance(ctx, *toggle); err != nil {
				return err
			}
		}
		selected, _ := v.SelectedDay()
		fmt.Println(selected.Date)
		for _, s := range selected.Sessions {
			fmt.Printf("  %d %s %s-%s attended=%t\n", s.ID, s.Name, s.StartTime, s.EndTime, s.Attended)
		}
	}
	return nil
}

func printCalendar(p calendar.Period, weeks [][7]calendar.Cell) {
	fmt.Println(p)
	fmt.Println(strings.Join(calendar.Weekdays[:], " "))
	marks := map[string]string{"present": "*", "partial": "~", "missed": "."}
	for _, week := range weeks {
		cells := make([]string, 0, 7)
		for _, c := range week {
			if c.Empty() {
				cells = append(cells, "   ")
				continue
			}
			mark := marks[string(c.Status)]
			if mark == "" {
				mark = " "
			}
			cells = append(cells, fmt.Sprintf("%2d%s", c.Day, mark))
		}
		fmt.Println(strings.Join(cells, " "))
	}
}

func runPayments(ctx context.Context, e *env, args []string) error {
	now := calendar.Current(time.Now())
	fs := flag.NewFlagSet("payments", flag.ContinueOnError)
	athlete := fs.Int("athlete", 0, "athlete id")
	year := fs.Int("year", now.Year, "year")
	month := fs.Int("month", now.Month, "month")
	record := fs.Float64("record", -1, "record an unpaid amount for the month")
	paid := fs.Int("paid", 0, "mark a payment as paid")
	if err := fs.Parse(args); err != nil {
		return err
	}

	v := manager.NewPayments(e.client)
	if err := v.Load(ctx, payments.Filter{Athlete: *athlete, Year: *year, Month: *month}); err != nil {
		return err
	}
	if *record >= 0 {
		if _, err := v.Record(ctx, payments.For(*athlete, *year, *month, *record, false)); err != nil {
			return err
		}
	}
	if *paid > 0 {
		if err := v.MarkPaid(ctx, *paid); err != nil {
			return err
		}
	}

	w := table()
	fmt.Fprintln(w, "ID\tATHLETE\tPERIOD\tAMOUNT\tPAID")
	for _, p := range v.List() {
		fmt.Fprintf(w, "%d\t%d\t%d/%d\t%s\t%t\n", p.ID, p.Athlete, p.Month, p.Year, p.Amount, p.Paid)
	}
	paidTotal, outstanding := v.Totals()
	fmt.Fprintf(w, "\t\tpaid\t%s\t\n\t\toutstanding\t%s\t\n", settings.FormatCost(paidTotal), settings.FormatCost(outstanding))
	return w.Flush()
}
