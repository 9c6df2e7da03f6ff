package transport

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type MilestoneRequest struct {
	Title   string `json:"title"`
	Status  string `json:"status"`
	DueDate string `json:"due_date"`
}

type StatusUpdateRequest struct {
	Status string `json:"status"`
	// Notify controls the confirmation SMS after the update. Defaults to true.
	Notify *bool `json:"notify,omitempty"`
}

type PhoneRequest struct {
	PhoneNumber string `json:"phone_number"`
}

type RemindRequest struct {
	// MilestoneID, when set, sends one reminder for that milestone only.
	MilestoneID int64 `json:"milestone_id,omitempty"`
}
