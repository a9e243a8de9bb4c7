package handler

import (
	"strings"

	"github.com/blooddb/donation-api/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Success bool   `json:"success" example:"false"`
	Message string `json:"message" example:"Please login to continue"`
}

type messageResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message"`
}

// --- Auth ---

type registerRequest struct {
	Username string `json:"username"  validate:"required,min=3,max=30,username"`
	Email    string `json:"email"     validate:"required,email,max=255"`
	Password string `json:"password"  validate:"required,min=6,max=72,bcryptlen"`
	FullName string `json:"full_name" validate:"required,min=2,max=100,alphaspace"`
	Phone    string `json:"phone"     validate:"required,len=10,numeric"`
}

type registerResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"Registration successful"`
	UserID  int64  `json:"user_id" example:"1"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Success bool         `json:"success" example:"true"`
	Message string       `json:"message" example:"Login successful"`
	User    *domain.User `json:"user"`
}

type checkResponse struct {
	Authenticated bool             `json:"authenticated"`
	Identity      *domain.Identity `json:"identity,omitempty"`
	User          *domain.Identity `json:"user,omitempty"`
}

// --- Profile ---

type profileRequest struct {
	FullName string `json:"full_name" validate:"required,min=2,max=100,alphaspace"`
	Email    string `json:"email"     validate:"required,email,max=255"`
	Phone    string `json:"phone"     validate:"required,len=10,numeric"`
}

type profileStats struct {
	Donors   int64 `json:"donors"`
	Requests int64 `json:"requests"`
}

type profileResponse struct {
	Success bool         `json:"success" example:"true"`
	User    *domain.User `json:"user"`
	Stats   profileStats `json:"stats"`
}

type profileUpdateResponse struct {
	Success bool         `json:"success" example:"true"`
	Message string       `json:"message" example:"Profile updated"`
	User    *domain.User `json:"user"`
}

// --- Donors ---

type donorRequest struct {
	Name       string `json:"name"        validate:"required,min=2,max=50,alphaspace"`
	Age        int    `json:"age"         validate:"required,gte=18,lte=65"`
	Gender     string `json:"gender"      validate:"required,oneof=Male Female Other"`
	BloodGroup string `json:"blood_group" validate:"required,bloodgroup"`
	City       string `json:"city"        validate:"required,min=2,max=50"`
	Phone      string `json:"phone"       validate:"required,len=10,numeric"`
}

type donorCreatedResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"Donor registered"`
	DonorID int64  `json:"donor_id" example:"1"`
}

type donorResponse struct {
	Success bool          `json:"success" example:"true"`
	Donor   *domain.Donor `json:"donor"`
}

type donorListResponse struct {
	Success bool            `json:"success" example:"true"`
	Count   int             `json:"count"`
	Donors  []*domain.Donor `json:"donors"`
}

type donorSearchQuery struct {
	BloodGroup string `query:"blood_group" json:"blood_group" validate:"omitempty,bloodgroup"`
	City       string `query:"city"        json:"city"        validate:"omitempty,max=50"`
}

// --- Blood requests ---

type bloodRequestRequest struct {
	Name       string `json:"name"        validate:"required,min=2,max=50,alphaspace"`
	BloodGroup string `json:"blood_group" validate:"required,bloodgroup"`
	City       string `json:"city"        validate:"required,min=2,max=50"`
	Reason     string `json:"reason"      validate:"required,min=5,max=100"`
	Phone      string `json:"phone"       validate:"required,len=10,numeric"`
	Status     string `json:"status"      validate:"omitempty,oneof=Pending Fulfilled Cancelled"`
}

type requestCreatedResponse struct {
	Success   bool   `json:"success" example:"true"`
	Message   string `json:"message" example:"Blood request submitted"`
	RequestID int64  `json:"request_id" example:"1"`
}

type requestResponse struct {
	Success bool                 `json:"success" example:"true"`
	Request *domain.BloodRequest `json:"request"`
}

type requestListResponse struct {
	Success  bool                   `json:"success" example:"true"`
	Count    int                    `json:"count"`
	Requests []*domain.BloodRequest `json:"requests"`
}

// --- Normalization ---
// Free-text fields are trimmed before validation so length and character
// rules apply to what is stored. Passwords are kept verbatim.

func (r *registerRequest) normalize() {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.TrimSpace(r.Email)
	r.FullName = strings.TrimSpace(r.FullName)
	r.Phone = strings.TrimSpace(r.Phone)
}

func (r *loginRequest) normalize() {
	r.Email = strings.TrimSpace(r.Email)
}

func (r *profileRequest) normalize() {
	r.FullName = strings.TrimSpace(r.FullName)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
}

func (r *donorRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.City = strings.TrimSpace(r.City)
	r.Phone = strings.TrimSpace(r.Phone)
}

func (q *donorSearchQuery) normalize() {
	q.BloodGroup = strings.TrimSpace(q.BloodGroup)
	q.City = strings.TrimSpace(q.City)
}

func (r *bloodRequestRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.City = strings.TrimSpace(r.City)
	r.Reason = strings.TrimSpace(r.Reason)
	r.Phone = strings.TrimSpace(r.Phone)
}
