package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/gym-checkin/api"
	"github.com/jrsteele09/gym-checkin/internal/app"
	"github.com/jrsteele09/gym-checkin/internal/config"
	"github.com/jrsteele09/gym-checkin/internal/logging"
	"github.com/jrsteele09/gym-checkin/kvstore"
	"github.com/rs/zerolog/log"
)

type command struct {
	usage string
	run   func(ctx context.Context, env *env, args []string) error
}

var commands = map[string]command{
	"login":    {"login -u <username> -p <password>", runLogin},
	"logout":   {"logout", runLogout},
	"whoami":   {"whoami", runWhoAmI},
	"stats":    {"stats [-prev|-next] [-toggle <athlete id>]", runStats},
	"sessions": {"sessions [list|add|delete] ...", runSessions},
	"settings": {"settings [-subscription <cost> -session <cost>]", runSettings},
	"users":    {"users [list|add|delete] ...", runUsers},
	"athlete":  {"athlete -id <id> [-prev|-next] [-day <n>] [-toggle <session id>]", runAthlete},
	"payments": {"payments -athlete <id> [-year <y> -month <m>] [-record <amount>] [-paid <payment id>]", runPayments},
}

var order = []string{"login", "logout", "whoami", "stats", "sessions", "settings", "users", "athlete", "payments"}

type env struct {
	cfg    config.Config
	store  kvstore.Store
	client *api.Client
}

func main() {
	c := config.New()
	logging.Setup(c, os.Stderr)

	if len(os.Args) < 2 {
		displayAppname(c.GetAppName())
		usage()
		os.Exit(2)
	}
	cmd, ok := commands[os.Args[1]]
	if !ok {
		fmt.Println("Unknown command:", os.Args[1])
		usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closer, err := app.OpenStore(ctx, c)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open store")
	}
	defer closer.Close()

	e := &env{cfg: c, store: store, client: app.NewAPIClient(c, store)}
	if err := cmd.run(ctx, e, os.Args[2:]); err != nil {
		if err == flag.ErrHelp {
			return
		}
		fmt.Println("Error:", messageFor(err))
		log.Debug().Err(err).Str("command", os.Args[1]).Msg("Command failed")
		closer.Close()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("Usage: gymctl <command> [flags]")
	for _, name := range order {
		fmt.Println("  " + commands[name].usage)
	}
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
