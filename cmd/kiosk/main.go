package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/gym-checkin/api"
	"github.com/jrsteele09/gym-checkin/athletes"
	"github.com/jrsteele09/gym-checkin/checkin"
	"github.com/jrsteele09/gym-checkin/internal/app"
	"github.com/jrsteele09/gym-checkin/internal/config"
	"github.com/jrsteele09/gym-checkin/internal/errors"
	"github.com/jrsteele09/gym-checkin/internal/logging"
	"github.com/jrsteele09/gym-checkin/trainingsessions"
	"github.com/rs/zerolog/log"
)

const msgGeneric = "Something went wrong. Please try again."

func main() {
	c := config.New()
	logging.Setup(c, os.Stderr)
	displayAppname(c.GetAppName())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closer, err := app.OpenStore(ctx, c)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open store")
	}
	defer closer.Close()

	controller := checkin.NewController(app.NewAPIClient(c, store), store,
		checkin.WithReloadDelay(c.GetCheckInReloadDelay()),
	)
	defer controller.Close()

	k := &kiosk{ctx: ctx, c: controller, in: bufio.NewScanner(os.Stdin), out: os.Stdout}
	if err := k.loop(); err != nil && err != io.EOF {
		log.Error().Err(err).Msg("Kiosk stopped")
	}
}

type kiosk struct {
	ctx context.Context
	c   *checkin.Controller
	in  *bufio.Scanner
	out io.Writer
}

func (k *kiosk) loop() error {
	for {
		if k.ctx.Err() != nil {
			return nil
		}
		var err error
		switch k.c.State() {
		case checkin.StatePhone:
			err = k.phoneScreen()
		case checkin.StateAthletes:
			err = k.athletesScreen()
		case checkin.StateNewAthlete:
			err = k.newAthleteScreen()
		case checkin.StateAddViaPIN:
			err = k.addViaPINScreen()
		}
		if err != nil {
			return err
		}
	}
}

func (k *kiosk) prompt(label string) (string, error) {
	fmt.Fprint(k.out, label)
	if !k.in.Scan() {
		if err := k.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(k.in.Text()), nil
}

func (k *kiosk) report(err error) {
	fmt.Fprintln(k.out, "!", api.UserMessage(err, msgGeneric))
}

// check reports a failed action and keeps the kiosk running.
func (k *kiosk) check(err error) error {
	if err != nil {
		k.report(err)
	}
	return nil
}

func (k *kiosk) phoneScreen() error {
	if ts, err := k.c.CurrentSession(k.ctx); err == nil {
		fmt.Fprintf(k.out, "\nNow: %s, %s\n", ts.Name, describe(ts))
	} else if errors.Is(err, errors.ErrNoActiveSession) {
		fmt.Fprintln(k.out, "\n"+checkin.MsgNoActiveSession)
	}

	label := "Phone number: "
	if saved := k.c.SavedPhone(k.ctx); saved != "" {
		label = fmt.Sprintf("Phone number [%s]: ", saved)
	}
	input, err := k.prompt(label)
	if err != nil {
		return err
	}
	phone := athletes.NormalizePhone(input)
	if phone == "" {
		phone = k.c.SavedPhone(k.ctx)
	}
	if err := k.c.SubmitPhone(k.ctx, phone); err != nil {
		k.report(err)
	}
	return nil
}

func (k *kiosk) athletesScreen() error {
	list := k.c.Associations()
	fmt.Fprintf(k.out, "\nAthletes for %s\n", k.c.Phone())
	if notice := k.c.Notice(); notice != "" {
		fmt.Fprintln(k.out, notice)
	}
	for i, a := range list {
		mark := " "
		if k.c.IsSelected(a.AthleteID) {
			mark = "x"
		}
		fmt.Fprintf(k.out, " %d) [%s] %s (%d check-ins this month)\n", i+1, mark, a.AthleteName, a.CheckInCount)
	}

	cmd, err := k.prompt("[number] toggle, c check in, n new athlete, p add with PIN, r<number> remove, b back: ")
	if err != nil {
		return err
	}
	switch {
	case cmd == "c":
		summary, err := k.c.SubmitCheckIn(k.ctx)
		if err != nil {
			k.report(err)
			return nil
		}
		fmt.Fprintln(k.out, summary.Message())
		for _, f := range summary.Failed {
			fmt.Fprintf(k.out, "  %s: %s\n", f.Name, api.UserMessage(f.Err, msgGeneric))
		}
	case cmd == "n":
		return k.check(k.c.OpenNewAthlete())
	case cmd == "p":
		return k.check(k.c.OpenAddViaPIN())
	case cmd == "b":
		k.c.Reset()
	case strings.HasPrefix(cmd, "r"):
		a, ok := pick(list, strings.TrimPrefix(cmd, "r"))
		if !ok {
			fmt.Fprintln(k.out, "! Unknown athlete.")
			return nil
		}
		answer, err := k.prompt(fmt.Sprintf("Remove %s from this phone? [y/N]: ", a.AthleteName))
		if err != nil {
			return err
		}
		if err := k.c.RemoveAssociation(k.ctx, a.AthleteID, strings.EqualFold(answer, "y")); err != nil && !errors.Is(err, errors.ErrNotConfirmed) {
			k.report(err)
		}
	default:
		a, ok := pick(list, cmd)
		if !ok {
			fmt.Fprintln(k.out, "! Unknown command.")
			return nil
		}
		return k.check(k.c.Toggle(a.AthleteID))
	}
	return nil
}

func (k *kiosk) newAthleteScreen() error {
	if pending, ok := k.c.PendingPIN(); ok {
		fmt.Fprintf(k.out, "\n%s is registered. PIN: %s\nWrite it down: it links the athlete to another phone.\n", pending.AthleteName, pending.AthletePIN)
		if _, err := k.prompt("Press enter once the PIN is noted: "); err != nil {
			return err
		}
		return k.check(k.c.AcknowledgePIN())
	}

	name, err := k.prompt("\nFull name (first and last), b to go back: ")
	if err != nil {
		return err
	}
	if name == "b" {
		return k.check(k.c.Cancel())
	}
	answer, err := k.prompt(fmt.Sprintf("The name %q cannot be changed later. Is it complete? [y/N]: ", name))
	if err != nil {
		return err
	}
	if _, err := k.c.CreateAthlete(k.ctx, name, strings.EqualFold(answer, "y")); err != nil {
		k.report(err)
	}
	return nil
}

func (k *kiosk) addViaPINScreen() error {
	pin, err := k.prompt("\nAthlete PIN (6 digits), b to go back: ")
	if err != nil {
		return err
	}
	if pin == "b" {
		return k.check(k.c.Cancel())
	}
	added, err := k.c.AddViaPIN(k.ctx, pin)
	if err != nil {
		k.report(err)
		return nil
	}
	fmt.Fprintf(k.out, "%s added to this phone.\n", added.AthleteName)
	return nil
}

func pick(list []athletes.Association, input string) (athletes.Association, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || n < 1 || n > len(list) {
		return athletes.Association{}, false
	}
	return list[n-1], true
}

func describe(ts *trainingsessions.TrainingSession) string {
	return ts.Schedule() + " " + ts.TimeRange()
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
