package domain

import "time"

// Preference is the timezone a visitor chose on the progress page.
type Preference struct {
	VisitorID string
	Timezone  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
