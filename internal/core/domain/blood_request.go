package domain

import "time"

// RequestStatus is the lifecycle state of a blood request.
type RequestStatus string

const (
	RequestPending   RequestStatus = "Pending"
	RequestFulfilled RequestStatus = "Fulfilled"
	RequestCancelled RequestStatus = "Cancelled"
)

// BloodRequest is a request for blood owned by the user who submitted it.
type BloodRequest struct {
	ID         int64         `json:"req_id"`
	UserID     int64         `json:"user_id"`
	Name       string        `json:"name"`
	BloodGroup string        `json:"blood_group"`
	City       string        `json:"city"`
	Reason     string        `json:"reason"`
	Phone      string        `json:"phone"`
	Status     RequestStatus `json:"status"`
	CreatedAt  time.Time     `json:"created_at"`
}
