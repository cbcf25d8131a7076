package dto

import "time"

// UnknownUser is shown when a submission's author has no user record.
const UnknownUser = "Unknown"

// AdminSubmissionResponse is a submission together with its author.
type AdminSubmissionResponse struct {
	SubmissionResponse
	UserID    string `json:"user_id"`
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
}

// AdminSubmissionsResponse is the recent-submissions aggregation across all users.
type AdminSubmissionsResponse struct {
	Submissions []AdminSubmissionResponse `json:"submissions"`
	UniqueUsers int                       `json:"unique_users"`
	WindowHours float64                   `json:"window_hours"`
	Since       time.Time                 `json:"since"`
	GeneratedAt time.Time                 `json:"generated_at"`
	CacheHit    bool                      `json:"cache_hit"`
}
