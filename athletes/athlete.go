package athletes

// Athlete is a gym member as the backend stores it. PIN is permanent and is
// what lets another phone be linked to the athlete.
type Athlete struct {
	ID                 int    `json:"id"`
	Name               string `json:"name"`
	PIN                string `json:"pin,omitempty"`
	SubscriptionActive bool   `json:"subscription_active"`
	PhoneNumber        string `json:"phone_number,omitempty"`
}

// Phone is one phone number linked to an athlete.
type Phone struct {
	ID          int    `json:"id"`
	PhoneNumber string `json:"phone_number"`
}

// Association links a phone number to an athlete. CheckInCount is the
// athlete's count for the current month.
type Association struct {
	AthleteID    int    `json:"athlete_id"`
	AthleteName  string `json:"athlete_name"`
	AthletePIN   string `json:"athlete_pin,omitempty"`
	PhoneNumber  string `json:"phone_number,omitempty"`
	CheckInCount int    `json:"checkin_count"`
}

// Update is a partial athlete update; nil fields are left unchanged.
type Update struct {
	Name               *string `json:"name,omitempty"`
	PhoneNumber        *string `json:"phone_number,omitempty"`
	SubscriptionActive *bool   `json:"subscription_active,omitempty"`
}

// AssociationIDs returns the athlete ids in list order.
func AssociationIDs(list []Association) []int {
	ids := make([]int, 0, len(list))
	for _, a := range list {
		ids = append(ids, a.AthleteID)
	}
	return ids
}
