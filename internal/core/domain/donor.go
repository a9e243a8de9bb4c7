package domain

import "time"

// BloodGroups lists the accepted ABO/Rh groups.
var BloodGroups = []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}

// IsBloodGroup reports whether g is one of BloodGroups.
func IsBloodGroup(g string) bool {
	for _, bg := range BloodGroups {
		if bg == g {
			return true
		}
	}
	return false
}

// Donor is a donor record owned by the user who registered it.
type Donor struct {
	ID         int64     `json:"donor_id"`
	UserID     int64     `json:"user_id"`
	Name       string    `json:"name"`
	Age        int       `json:"age"`
	Gender     string    `json:"gender"`
	BloodGroup string    `json:"blood_group"`
	City       string    `json:"city"`
	Phone      string    `json:"phone"`
	CreatedAt  time.Time `json:"created_at"`
}

// DonorSearch filters the public donor search. Empty fields match everything.
type DonorSearch struct {
	BloodGroup string
	City       string
}
