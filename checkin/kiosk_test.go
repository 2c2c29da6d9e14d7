package checkin_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jrsteele09/gym-checkin/api"
	"github.com/jrsteele09/gym-checkin/checkin"
	"github.com/jrsteele09/gym-checkin/internal/stubserver"
	"github.com/jrsteele09/gym-checkin/internal/utils"
	kvrepofake "github.com/jrsteele09/gym-checkin/kvstore/repofake"
	"github.com/jrsteele09/gym-checkin/sessions"
	"github.com/jrsteele09/gym-checkin/trainingsessions"
	"github.com/stretchr/testify/require"
)

type kioskFixture struct {
	stub       *stubserver.Server
	client     *api.Client
	controller *checkin.Controller
}

// setupKioskFixture runs the controller against the stub backend on
// Wednesday 2024-03-06 18:10, inside a weekly 18:00-19:30 class.
func setupKioskFixture(t *testing.T) *kioskFixture {
	t.Helper()

	now := time.Date(2024, 3, 6, 18, 10, 0, 0, time.UTC)
	stub := stubserver.New(stubserver.WithNowFunc(func() time.Time { return now }))
	stub.AddTrainingSession(trainingsessions.TrainingSession{
		Name:      "Evening class",
		Frequency: trainingsessions.FrequencyWeekly,
		Weekday:   utils.Ptr(trainingsessions.Wednesday),
		StartTime: "18:00:00",
		EndTime:   "19:30:00",
		Active:    true,
	})
	server := httptest.NewServer(stub)
	t.Cleanup(server.Close)

	store := kvrepofake.NewFakeStore()
	client := api.New(server.URL+"/api/", sessions.NewManager(store))
	c := checkin.NewController(client, store, checkin.WithReloadDelay(0))
	t.Cleanup(c.Close)
	return &kioskFixture{stub: stub, client: client, controller: c}
}

func TestKiosk_RegisterFirstAthlete(t *testing.T) {
	ctx := context.Background()
	f := setupKioskFixture(t)

	require.NoError(t, f.controller.SubmitPhone(ctx, testPhone))
	require.Empty(t, f.controller.Associations())
	require.Equal(t, checkin.MsgNoAthletes, f.controller.Notice())

	require.NoError(t, f.controller.OpenNewAthlete())
	created, err := f.controller.CreateAthlete(ctx, "Ion Popescu", true)
	require.NoError(t, err)
	require.Regexp(t, `^[0-9]{6}$`, created.AthletePIN)
	require.Equal(t, checkin.StateNewAthlete, f.controller.State())

	require.NoError(t, f.controller.AcknowledgePIN())
	require.Equal(t, checkin.StateAthletes, f.controller.State())
	list := f.controller.Associations()
	require.Len(t, list, 1)
	require.Equal(t, "Ion Popescu", list[0].AthleteName)
	require.Equal(t, []int{created.AthleteID}, f.controller.Selected())

	t.Run("link the athlete to a second phone by PIN", func(t *testing.T) {
		other := checkin.NewController(f.client, kvrepofake.NewFakeStore(), checkin.WithReloadDelay(0))
		defer other.Close()

		require.NoError(t, other.SubmitPhone(ctx, "0798765432"))
		require.NoError(t, other.OpenAddViaPIN())
		added, err := other.AddViaPIN(ctx, created.AthletePIN)
		require.NoError(t, err)
		require.Equal(t, created.AthleteID, added.AthleteID)
		require.Len(t, other.Associations(), 1)
	})
}

func TestKiosk_BatchCheckIn(t *testing.T) {
	ctx := context.Background()
	f := setupKioskFixture(t)
	f.stub.AddAthlete("Ana Pop", testPhone)
	dan := f.stub.AddAthlete("Dan Pop", testPhone)
	f.stub.AddAthlete("Eva Pop", testPhone)
	f.stub.FailCheckIn(dan.AthleteID, http.StatusBadRequest, "Athlete is suspended.")

	require.NoError(t, f.controller.SubmitPhone(ctx, testPhone))
	require.Len(t, f.controller.Selected(), 3)

	summary, err := f.controller.SubmitCheckIn(ctx)
	require.NoError(t, err)
	require.Equal(t, "Evening class", summary.Session.Name)
	require.Len(t, summary.Succeeded, 2)
	require.Equal(t, []string{"Dan Pop"}, summary.FailedNames())
	require.Equal(t, "Athlete is suspended.", api.UserMessage(summary.Failed[0].Err, ""))
	require.Len(t, f.stub.CheckIns(), 2)

	// counts come back with the reload
	for _, a := range f.controller.Associations() {
		want := 1
		if a.AthleteID == dan.AthleteID {
			want = 0
		}
		require.Equal(t, want, a.CheckInCount, a.AthleteName)
	}

	t.Run("second batch reports duplicates", func(t *testing.T) {
		summary, err := f.controller.SubmitCheckIn(ctx)
		require.NoError(t, err)
		require.Empty(t, summary.Succeeded)
		require.Len(t, summary.Failed, 3)
		require.Equal(t, "0 succeeded; failed: Ana Pop, Dan Pop, Eva Pop", summary.Message())
	})
}
