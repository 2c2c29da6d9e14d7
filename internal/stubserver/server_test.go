package stubserver_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jrsteele09/gym-checkin/internal/stubserver"
	"github.com/jrsteele09/gym-checkin/internal/utils"
	"github.com/jrsteele09/gym-checkin/trainingsessions"
	"github.com/stretchr/testify/require"
)

type stubFixture struct {
	stub  *stubserver.Server
	now   time.Time
	token string
}

func setupStubFixture(t *testing.T) *stubFixture {
	t.Helper()
	f := &stubFixture{now: time.Date(2024, 3, 6, 18, 10, 0, 0, time.UTC)}
	f.stub = stubserver.New(stubserver.WithNowFunc(func() time.Time { return f.now }))
	_, err := f.stub.AddUser("manager", "secret123", true, false)
	require.NoError(t, err)
	f.stub.AddTrainingSession(trainingsessions.TrainingSession{
		Name:      "Evening class",
		Frequency: trainingsessions.FrequencyWeekly,
		Weekday:   utils.Ptr(trainingsessions.Wednesday),
		StartTime: "18:00:00",
		EndTime:   "19:30:00",
		Active:    true,
	})
	return f
}

// do sends a JSON request straight to the handler and decodes the JSON
// answer into a map.
func (f *stubFixture) do(t *testing.T, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if f.token != "" {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}
	rec := httptest.NewRecorder()
	f.stub.ServeHTTP(rec, req)

	out := map[string]any{}
	if rec.Body.Len() > 0 && rec.Body.Bytes()[0] == '{' {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec.Code, out
}

func (f *stubFixture) login(t *testing.T) map[string]any {
	t.Helper()
	code, body := f.do(t, http.MethodPost, "/api/token/", map[string]string{"username": "manager", "password": "secret123"})
	require.Equal(t, http.StatusOK, code)
	f.token = body["access"].(string)
	return body
}

func TestTokens(t *testing.T) {
	f := setupStubFixture(t)

	code, _ := f.do(t, http.MethodPost, "/api/token/", map[string]string{"username": "manager", "password": "bad"})
	require.Equal(t, http.StatusUnauthorized, code)

	code, _ = f.do(t, http.MethodGet, "/api/users/me/", nil)
	require.Equal(t, http.StatusUnauthorized, code)

	pair := f.login(t)
	code, me := f.do(t, http.MethodGet, "/api/users/me/", nil)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "manager", me["username"])
	require.NotContains(t, me, "password_hash")

	t.Run("access tokens expire with the clock", func(t *testing.T) {
		f.now = f.now.Add(10 * time.Minute)
		code, body := f.do(t, http.MethodGet, "/api/users/me/", nil)
		require.Equal(t, http.StatusUnauthorized, code)
		require.Equal(t, "token_not_valid", body["code"])

		f.token = ""
		code, body = f.do(t, http.MethodPost, "/api/token/refresh/", map[string]string{"refresh": pair["refresh"].(string)})
		require.Equal(t, http.StatusOK, code)
		f.token = body["access"].(string)

		code, _ = f.do(t, http.MethodGet, "/api/users/me/", nil)
		require.Equal(t, http.StatusOK, code)
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		code, _ := f.do(t, http.MethodPost, "/api/token/refresh/", map[string]string{"refresh": f.token})
		require.Equal(t, http.StatusUnauthorized, code)
	})
}

func TestCurrentSessionWindow(t *testing.T) {
	f := setupStubFixture(t)

	for _, tc := range []struct {
		at   string
		want int
	}{
		{"17:29", http.StatusNotFound},
		{"17:30", http.StatusOK},
		{"19:00", http.StatusOK},
		{"20:00", http.StatusOK},
		{"20:01", http.StatusNotFound},
	} {
		clock, err := time.Parse("15:04", tc.at)
		require.NoError(t, err)
		f.now = time.Date(2024, 3, 6, clock.Hour(), clock.Minute(), 0, 0, time.UTC)
		code, _ := f.do(t, http.MethodGet, "/api/training-sessions/current/", nil)
		require.Equal(t, tc.want, code, tc.at)
	}

	// Thursday has no class
	f.now = time.Date(2024, 3, 7, 18, 10, 0, 0, time.UTC)
	code, body := f.do(t, http.MethodGet, "/api/training-sessions/current/", nil)
	require.Equal(t, http.StatusNotFound, code)
	require.NotEmpty(t, body["detail"])
}

func TestPhoneNumbers(t *testing.T) {
	f := setupStubFixture(t)

	code, body := f.do(t, http.MethodPost, "/api/phone-numbers/get_athletes/", map[string]string{"phone_number": "0812345678"})
	require.Equal(t, http.StatusBadRequest, code)
	require.Contains(t, body, "phone_number")

	code, body = f.do(t, http.MethodPost, "/api/phone-numbers/create_athlete/", map[string]string{"phone_number": "0712345678", "name": "Ion"})
	require.Equal(t, http.StatusBadRequest, code)
	require.Contains(t, body, "name")

	code, created := f.do(t, http.MethodPost, "/api/phone-numbers/create_athlete/", map[string]string{"phone_number": "0712345678", "name": "Ion Popescu"})
	require.Equal(t, http.StatusCreated, code)
	pin := created["athlete_pin"].(string)
	require.Regexp(t, `^[0-9]{6}$`, pin)

	code, body = f.do(t, http.MethodPost, "/api/phone-numbers/add_athlete/", map[string]string{"phone_number": "0712345678", "pin": pin})
	require.Equal(t, http.StatusBadRequest, code)
	require.NotEmpty(t, body["error"])

	code, _ = f.do(t, http.MethodPost, "/api/phone-numbers/add_athlete/", map[string]string{"phone_number": "0798765432", "pin": pin})
	require.Equal(t, http.StatusOK, code)

	code, body = f.do(t, http.MethodPost, "/api/phone-numbers/get_athletes/", map[string]string{"phone_number": "0798765432"})
	require.Equal(t, http.StatusOK, code)
	require.Len(t, body["athletes"], 1)

	id := created["athlete_id"].(float64)
	code, _ = f.do(t, http.MethodPost, "/api/phone-numbers/remove_athlete/", map[string]any{"phone_number": "0798765432", "athlete_id": id})
	require.Equal(t, http.StatusOK, code)
	code, _ = f.do(t, http.MethodPost, "/api/phone-numbers/remove_athlete/", map[string]any{"phone_number": "0798765432", "athlete_id": id})
	require.Equal(t, http.StatusNotFound, code)
}

func TestCheckIns(t *testing.T) {
	f := setupStubFixture(t)
	ana := f.stub.AddAthlete("Ana Pop", "0712345678")
	dan := f.stub.AddAthlete("Dan Pop", "0712345678")

	t.Run("two athletes need an id", func(t *testing.T) {
		code, body := f.do(t, http.MethodPost, "/api/checkins/", map[string]any{"phone_number": "0712345678"})
		require.Equal(t, http.StatusBadRequest, code)
		require.Contains(t, body, "non_field_errors")
	})

	t.Run("athlete must be linked", func(t *testing.T) {
		code, _ := f.do(t, http.MethodPost, "/api/checkins/", map[string]any{"phone_number": "0799999999", "athlete_id": ana.AthleteID})
		require.Equal(t, http.StatusBadRequest, code)
	})

	t.Run("once per session", func(t *testing.T) {
		code, _ := f.do(t, http.MethodPost, "/api/checkins/", map[string]any{"phone_number": "0712345678", "athlete_id": ana.AthleteID})
		require.Equal(t, http.StatusCreated, code)
		code, body := f.do(t, http.MethodPost, "/api/checkins/", map[string]any{"phone_number": "0712345678", "athlete_id": ana.AthleteID})
		require.Equal(t, http.StatusBadRequest, code)
		require.NotEmpty(t, body["error"])
		require.Len(t, f.stub.CheckIns(), 1)
	})

	t.Run("forced failure", func(t *testing.T) {
		f.stub.FailCheckIn(dan.AthleteID, http.StatusConflict, "nope")
		code, body := f.do(t, http.MethodPost, "/api/checkins/", map[string]any{"phone_number": "0712345678", "athlete_id": dan.AthleteID})
		require.Equal(t, http.StatusConflict, code)
		require.Equal(t, "nope", body["error"])
	})

	t.Run("no session open", func(t *testing.T) {
		f.now = f.now.Add(24 * time.Hour)
		code, _ := f.do(t, http.MethodPost, "/api/checkins/", map[string]any{"phone_number": "0712345678", "athlete_id": ana.AthleteID})
		require.Equal(t, http.StatusBadRequest, code)
	})

	t.Run("monthly stats", func(t *testing.T) {
		f.login(t)
		code, body := f.do(t, http.MethodGet, "/api/checkins/monthly_stats/?year=2024&month=3", nil)
		require.Equal(t, http.StatusOK, code)
		require.Len(t, body["athletes"], 1)

		code, _ = f.do(t, http.MethodGet, "/api/checkins/monthly_stats/?year=2024&month=13", nil)
		require.Equal(t, http.StatusBadRequest, code)
	})
}

func TestAdminOnlyRoutes(t *testing.T) {
	f := setupStubFixture(t)
	_, err := f.stub.AddUser("staff", "secret123", false, false)
	require.NoError(t, err)

	code, body := f.do(t, http.MethodPost, "/api/token/", map[string]string{"username": "staff", "password": "secret123"})
	require.Equal(t, http.StatusOK, code)
	f.token = body["access"].(string)

	code, _ = f.do(t, http.MethodGet, "/api/users/", nil)
	require.Equal(t, http.StatusForbidden, code)
	code, _ = f.do(t, http.MethodGet, "/api/app-settings/", nil)
	require.Equal(t, http.StatusOK, code)

	code, body = f.do(t, http.MethodGet, "/api/nowhere/", nil)
	require.Equal(t, http.StatusNotFound, code)
	require.Equal(t, "Not found.", body["detail"])
}
