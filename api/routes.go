package api

import "fmt"

const (
	RouteToken              = "/token/"
	RouteTrainingSessions   = "/training-sessions/"
	RouteCurrentSession     = "/training-sessions/current/"
	RouteCheckIns           = "/checkins/"
	RouteMonthlyStats       = "/checkins/monthly_stats/"
	RouteAthletes           = "/athletes/"
	RoutePhoneGetAthletes   = "/phone-numbers/get_athletes/"
	RoutePhoneCreateAthlete = "/phone-numbers/create_athlete/"
	RoutePhoneAddAthlete    = "/phone-numbers/add_athlete/"
	RoutePhoneRemoveAthlete = "/phone-numbers/remove_athlete/"
	RouteAppSettings        = "/app-settings/"
	RouteAthletePayments    = "/athlete-payments/"
	RouteUsers              = "/users/"
	RouteCurrentUser        = "/users/me/"
)

func trainingSessionRoute(id int) string { return fmt.Sprintf("%s%d/", RouteTrainingSessions, id) }
func athleteRoute(id int) string         { return fmt.Sprintf("%s%d/", RouteAthletes, id) }
func athletePhonesRoute(id int) string   { return athleteRoute(id) + "phones/" }
func attendanceRoute(id int) string      { return athleteRoute(id) + "attendance/" }
func paymentRoute(id int) string         { return fmt.Sprintf("%s%d/", RouteAthletePayments, id) }
func userRoute(id int) string            { return fmt.Sprintf("%s%d/", RouteUsers, id) }
