package domain

import "time"

type RequestStatus string

const (
	RequestStatusPending    RequestStatus = "Pending"
	RequestStatusInProgress RequestStatus = "In Progress"
	RequestStatusCompleted  RequestStatus = "Completed"
	RequestStatusCancelled  RequestStatus = "Cancelled"
)

type RequestPriority string

const (
	RequestPriorityLow    RequestPriority = "Low"
	RequestPriorityMedium RequestPriority = "Medium"
	RequestPriorityHigh   RequestPriority = "High"
)

type GuestRequest struct {
	ID          int64           `json:"id"`
	RoomNumber  string          `json:"roomNumber"`
	GuestName   string          `json:"guestName"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Status      RequestStatus   `json:"status"`
	Priority    RequestPriority `json:"priority"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	AssignedTo  *int64          `json:"assignedTo,omitempty"`
	LoggedBy    string          `json:"loggedBy"`
	Remarks     string          `json:"remarks,omitempty"`
	UpdatedBy   string          `json:"updatedBy,omitempty"`
}
