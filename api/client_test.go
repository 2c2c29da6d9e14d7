package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jrsteele09/gym-checkin/api"
	"github.com/jrsteele09/gym-checkin/athletes"
	"github.com/jrsteele09/gym-checkin/checkins"
	"github.com/jrsteele09/gym-checkin/internal/errors"
	"github.com/jrsteele09/gym-checkin/internal/stubserver"
	"github.com/jrsteele09/gym-checkin/internal/utils"
	kvrepofake "github.com/jrsteele09/gym-checkin/kvstore/repofake"
	"github.com/jrsteele09/gym-checkin/sessions"
	"github.com/jrsteele09/gym-checkin/trainingsessions"
	"github.com/stretchr/testify/require"
)

// 2024-03-06 is a Wednesday.
var fixtureNow = time.Date(2024, 3, 6, 18, 10, 0, 0, time.UTC)

type apiFixture struct {
	stub    *stubserver.Server
	server  *httptest.Server
	store   *kvrepofake.FakeStore
	client  *api.Client
	session trainingsessions.TrainingSession
}

func setupAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	stub := stubserver.New(stubserver.WithNowFunc(func() time.Time { return fixtureNow }))
	_, err := stub.AddUser("manager", "secret123", true, false)
	require.NoError(t, err)
	ts := stub.AddTrainingSession(trainingsessions.TrainingSession{
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
	return &apiFixture{
		stub:    stub,
		server:  server,
		store:   store,
		client:  api.New(server.URL+"/api/", sessions.NewManager(store)),
		session: ts,
	}
}

func (f *apiFixture) login(t *testing.T) {
	t.Helper()
	_, err := f.client.Login(context.Background(), "manager", "secret123")
	require.NoError(t, err)
}

func TestClient_Login(t *testing.T) {
	ctx := context.Background()
	f := setupAPIFixture(t)

	t.Run("bad credentials", func(t *testing.T) {
		_, err := f.client.Login(ctx, "manager", "wrong")
		require.Error(t, err)
		require.Equal(t, http.StatusUnauthorized, api.StatusCode(err))
		require.False(t, f.client.Sessions().IsAuthenticated(ctx))
	})

	t.Run("stores the pair", func(t *testing.T) {
		pair, err := f.client.Login(ctx, "manager", "secret123")
		require.NoError(t, err)
		require.NotEmpty(t, pair.Refresh)
		require.True(t, f.client.Sessions().IsAuthenticated(ctx))
		require.Equal(t, pair.Access, f.client.Sessions().AccessToken(ctx))

		claims, err := f.client.Sessions().Claims(ctx)
		require.NoError(t, err)
		require.Equal(t, "access", claims.TokenType)
	})

	t.Run("logout", func(t *testing.T) {
		require.NoError(t, f.client.Logout(ctx))
		require.False(t, f.client.Sessions().IsAuthenticated(ctx))
	})
}

func TestClient_RefreshesExpiredAccessToken(t *testing.T) {
	ctx := context.Background()
	f := setupAPIFixture(t)
	f.login(t)
	before := f.client.Sessions().AccessToken(ctx)

	f.stub.ExpireAccessTokens()

	me, err := f.client.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, "manager", me.Username)
	require.NotEqual(t, before, f.client.Sessions().AccessToken(ctx))
	require.Equal(t, 1, f.stub.Hits(http.MethodPost, "/api/token/refresh/"))
	require.Equal(t, 2, f.stub.Hits(http.MethodGet, "/api/users/me/"))
}

func TestClient_RefreshFailureClearsCredentials(t *testing.T) {
	ctx := context.Background()
	f := setupAPIFixture(t)
	f.login(t)

	f.stub.ExpireAccessTokens()
	f.stub.RevokeRefreshTokens()

	_, err := f.client.Me(ctx)
	require.ErrorIs(t, err, errors.ErrUnauthenticated)
	require.Equal(t, 1, f.stub.Hits(http.MethodPost, "/api/token/refresh/"))
	require.Equal(t, 1, f.stub.Hits(http.MethodGet, "/api/users/me/"))
	require.False(t, f.client.Sessions().IsAuthenticated(ctx))
	require.Empty(t, f.store.Keys())
}

func TestClient_CurrentTrainingSession(t *testing.T) {
	ctx := context.Background()

	t.Run("open", func(t *testing.T) {
		f := setupAPIFixture(t)
		ts, err := f.client.CurrentTrainingSession(ctx)
		require.NoError(t, err)
		require.Equal(t, f.session.ID, ts.ID)
		require.Equal(t, "18:00 - 19:30", ts.TimeRange())
		require.Equal(t, "Wednesday", ts.Schedule())
	})

	t.Run("none", func(t *testing.T) {
		stub := stubserver.New(stubserver.WithNowFunc(func() time.Time { return fixtureNow }))
		server := httptest.NewServer(stub)
		defer server.Close()

		client := api.New(server.URL+"/api", sessions.NewManager(kvrepofake.NewFakeStore()))
		_, err := client.CurrentTrainingSession(ctx)
		require.ErrorIs(t, err, errors.ErrNoActiveSession)
	})
}

func TestClient_PhoneNumbers(t *testing.T) {
	ctx := context.Background()
	f := setupAPIFixture(t)
	const phone = "0712345678"

	list, err := f.client.PhoneAthletes(ctx, phone)
	require.NoError(t, err)
	require.Empty(t, list)

	created, err := f.client.CreatePhoneAthlete(ctx, phone, "Ion Popescu")
	require.NoError(t, err)
	require.Len(t, created.AthletePIN, athletes.PINLength)

	t.Run("add via PIN on a second phone", func(t *testing.T) {
		added, err := f.client.AddPhoneAthlete(ctx, "0798765432", created.AthletePIN)
		require.NoError(t, err)
		require.Equal(t, created.AthleteID, added.AthleteID)

		_, err = f.client.AddPhoneAthlete(ctx, "0798765432", created.AthletePIN)
		require.Equal(t, http.StatusBadRequest, api.StatusCode(err))
		require.Equal(t, "The athlete is already associated with this phone number.", api.UserMessage(err, "fallback"))
	})

	t.Run("unknown PIN", func(t *testing.T) {
		_, err := f.client.AddPhoneAthlete(ctx, phone, "000000")
		require.ErrorIs(t, err, errors.ErrNotFound)
	})

	t.Run("check in", func(t *testing.T) {
		ci, err := f.client.CreateCheckIn(ctx, checkins.ForAthlete(phone, created.AthleteID))
		require.NoError(t, err)
		require.Equal(t, f.session.ID, ci.TrainingSession)
		require.Equal(t, "2024-03-06", ci.Date)

		list, err := f.client.PhoneAthletes(ctx, phone)
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.Equal(t, 1, list[0].CheckInCount)
	})

	t.Run("remove", func(t *testing.T) {
		require.NoError(t, f.client.RemovePhoneAthlete(ctx, phone, created.AthleteID))
		list, err := f.client.PhoneAthletes(ctx, phone)
		require.NoError(t, err)
		require.Empty(t, list)

		err = f.client.RemovePhoneAthlete(ctx, phone, created.AthleteID)
		require.ErrorIs(t, err, errors.ErrNotFound)
	})

	t.Run("backend phone validation", func(t *testing.T) {
		_, err := f.client.PhoneAthletes(ctx, "123")
		apiErr, ok := api.AsError(err)
		require.True(t, ok)
		require.Equal(t, []string{athletes.MsgPhoneLength}, apiErr.Field("phone_number"))
	})
}

func TestClient_TrainingSessionsCRUD(t *testing.T) {
	ctx := context.Background()
	f := setupAPIFixture(t)
	f.login(t)

	form := trainingsessions.NewForm()
	form.Name = "Morning"
	form.Frequency = trainingsessions.FrequencyOnce
	form.Date = "2024-03-09"
	form.StartTime = "07:00"
	form.EndTime = "08:00"
	payload, err := form.Payload()
	require.NoError(t, err)

	created, err := f.client.CreateTrainingSession(ctx, payload)
	require.NoError(t, err)
	require.Equal(t, "07:00:00", created.StartTime)

	payload.Name = "Early morning"
	updated, err := f.client.UpdateTrainingSession(ctx, created.ID, payload)
	require.NoError(t, err)
	require.Equal(t, "Early morning", updated.Name)

	list, err := f.client.TrainingSessions(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	require.NoError(t, f.client.DeleteTrainingSession(ctx, created.ID))
	require.ErrorIs(t, f.client.DeleteTrainingSession(ctx, created.ID), errors.ErrNotFound)
}

func TestClient_ListDecoding(t *testing.T) {
	ctx := context.Background()

	body := ""
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	defer server.Close()
	client := api.New(server.URL, sessions.NewManager(kvrepofake.NewFakeStore()))

	t.Run("bare array", func(t *testing.T) {
		body = `[{"id":1,"name":"A"},{"id":2,"name":"B"}]`
		list, err := client.TrainingSessions(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
	})

	t.Run("paginated", func(t *testing.T) {
		body = `{"count":1,"next":null,"results":[{"id":7,"name":"C"}]}`
		list, err := client.TrainingSessions(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.Equal(t, 7, list[0].ID)
	})

	t.Run("empty page", func(t *testing.T) {
		body = `{"count":0}`
		list, err := client.TrainingSessions(ctx)
		require.NoError(t, err)
		require.NotNil(t, list)
		require.Empty(t, list)
	})
}

func TestClient_SendsRequestID(t *testing.T) {
	var ids []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ids = append(ids, r.Header.Get(api.HeaderRequestID))
		w.Write([]byte(`{"athletes":[]}`))
	}))
	defer server.Close()

	client := api.New(server.URL, sessions.NewManager(kvrepofake.NewFakeStore()))
	_, err := client.PhoneAthletes(context.Background(), "0712345678")
	require.NoError(t, err)
	_, err = client.PhoneAthletes(context.Background(), "0712345678")
	require.NoError(t, err)

	require.Len(t, ids, 2)
	require.NotEmpty(t, ids[0])
	require.NotEqual(t, ids[0], ids[1])
}
