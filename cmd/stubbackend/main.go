package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/gym-checkin/internal/config"
	"github.com/jrsteele09/gym-checkin/internal/logging"
	"github.com/jrsteele09/gym-checkin/internal/stubserver"
	"github.com/jrsteele09/gym-checkin/internal/utils"
	"github.com/jrsteele09/gym-checkin/trainingsessions"
	"github.com/rs/zerolog/log"
)

func main() {
	for {
		if err := run(); err != nil {
			log.Error().Err(err).Msg("Error running stub backend")
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Info().Msg("Stub backend stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Msgf("Recovered from panic: %v", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	logging.Setup(c, os.Stderr)
	displayAppname(c.GetAppName() + " stub")

	stub := stubserver.New(
		stubserver.WithCheckInWindow(c.GetCheckInWindow()),
		stubserver.WithRequestLogging(true),
	)
	if err := seed(stub); err != nil {
		return err
	}

	server := &http.Server{Addr: c.GetStubPort(), Handler: stub}
	go listenAndServe(server)
	waitForStopSignal()
	returnError = shutdown(server)
	return returnError
}

// seed creates the admin account named by STUB_ADMIN_USER and
// STUB_ADMIN_PASSWORD and a daily evening class so the kiosk has something
// to check in to.
func seed(stub *stubserver.Server) error {
	username := config.GetEnv("STUB_ADMIN_USER", "admin")
	password := config.GetEnv("STUB_ADMIN_PASSWORD", "admin1234")
	if _, err := stub.AddUser(username, password, true, true); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	log.Info().Str("username", username).Msg("Seeded admin user")

	for _, day := range trainingsessions.Weekdays() {
		stub.AddTrainingSession(trainingsessions.TrainingSession{
			Name:      "Evening class",
			Frequency: trainingsessions.FrequencyWeekly,
			Weekday:   utils.Ptr(day),
			StartTime: "18:00:00",
			EndTime:   "19:30:00",
			Active:    true,
		})
	}
	return nil
}

func listenAndServe(server *http.Server) {
	log.Info().Str("addr", server.Addr).Msg("Stub backend listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error().Err(err).Msg("server.ListenAndServe")
	}
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
