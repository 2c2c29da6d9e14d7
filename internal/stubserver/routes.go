package stubserver

import "net/http"

func (s *Server) initRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()
	auth := s.RequireAuth()
	admin := []func(http.HandlerFunc) http.HandlerFunc{auth, s.RequireAdmin()}

	// TOKENS
	api.HandleFunc("/token/", s.loginHandler()).Methods(http.MethodPost)
	api.HandleFunc("/token/refresh/", s.refreshHandler()).Methods(http.MethodPost)

	// KIOSK (anonymous)
	api.HandleFunc("/training-sessions/current/", s.currentSessionHandler()).Methods(http.MethodGet)
	api.HandleFunc("/checkins/", s.createCheckInHandler()).Methods(http.MethodPost)
	api.HandleFunc("/phone-numbers/get_athletes/", s.phoneAthletesHandler()).Methods(http.MethodPost)
	api.HandleFunc("/phone-numbers/create_athlete/", s.createPhoneAthleteHandler()).Methods(http.MethodPost)
	api.HandleFunc("/phone-numbers/add_athlete/", s.addPhoneAthleteHandler()).Methods(http.MethodPost)
	api.HandleFunc("/phone-numbers/remove_athlete/", s.removePhoneAthleteHandler()).Methods(http.MethodPost)

	// MANAGER
	api.HandleFunc("/training-sessions/", ChainMiddleware(s.listSessionsHandler(), auth)).Methods(http.MethodGet)
	api.HandleFunc("/training-sessions/", ChainMiddleware(s.saveSessionHandler(), auth)).Methods(http.MethodPost)
	api.HandleFunc("/training-sessions/{id:[0-9]+}/", ChainMiddleware(s.saveSessionHandler(), auth)).Methods(http.MethodPut)
	api.HandleFunc("/training-sessions/{id:[0-9]+}/", ChainMiddleware(s.deleteSessionHandler(), auth)).Methods(http.MethodDelete)

	api.HandleFunc("/checkins/", ChainMiddleware(s.listCheckInsHandler(), auth)).Methods(http.MethodGet)
	api.HandleFunc("/checkins/monthly_stats/", ChainMiddleware(s.monthlyStatsHandler(), auth)).Methods(http.MethodGet)

	api.HandleFunc("/athletes/", ChainMiddleware(s.listAthletesHandler(), auth)).Methods(http.MethodGet)
	api.HandleFunc("/athletes/{id:[0-9]+}/", ChainMiddleware(s.getAthleteHandler(), auth)).Methods(http.MethodGet)
	api.HandleFunc("/athletes/{id:[0-9]+}/", ChainMiddleware(s.patchAthleteHandler(), auth)).Methods(http.MethodPatch)
	api.HandleFunc("/athletes/{id:[0-9]+}/phones/", ChainMiddleware(s.athletePhonesHandler(), auth)).Methods(http.MethodGet)
	api.HandleFunc("/athletes/{id:[0-9]+}/attendance/", ChainMiddleware(s.attendanceHandler(), auth)).Methods(http.MethodGet)
	api.HandleFunc("/athletes/{id:[0-9]+}/attendance/", ChainMiddleware(s.patchAttendanceHandler(), auth)).Methods(http.MethodPatch)

	api.HandleFunc("/app-settings/", ChainMiddleware(s.getSettingsHandler(), auth)).Methods(http.MethodGet)
	api.HandleFunc("/app-settings/", ChainMiddleware(s.patchSettingsHandler(), auth)).Methods(http.MethodPatch)

	api.HandleFunc("/athlete-payments/", ChainMiddleware(s.listPaymentsHandler(), auth)).Methods(http.MethodGet)
	api.HandleFunc("/athlete-payments/", ChainMiddleware(s.createPaymentHandler(), auth)).Methods(http.MethodPost)
	api.HandleFunc("/athlete-payments/{id:[0-9]+}/", ChainMiddleware(s.patchPaymentHandler(), auth)).Methods(http.MethodPatch)

	// USERS
	api.HandleFunc("/users/me/", ChainMiddleware(s.meHandler(), auth)).Methods(http.MethodGet)
	api.HandleFunc("/users/", ChainMiddleware(s.listUsersHandler(), admin...)).Methods(http.MethodGet)
	api.HandleFunc("/users/", ChainMiddleware(s.createUserHandler(), admin...)).Methods(http.MethodPost)
	api.HandleFunc("/users/{id:[0-9]+}/", ChainMiddleware(s.patchUserHandler(), admin...)).Methods(http.MethodPatch)
	api.HandleFunc("/users/{id:[0-9]+}/", ChainMiddleware(s.deleteUserHandler(), admin...)).Methods(http.MethodDelete)

	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusNotFound, "Not found.")
	})
	s.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusMethodNotAllowed, "Method \""+r.Method+"\" not allowed.")
	})
}
