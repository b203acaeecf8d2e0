package model

import "time"

// Profile is any user of the system: staff, reception or an admin.
type Profile struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	ColorCode    string    `json:"colorCode"`
	CreatedAt    time.Time `json:"createdAt"`
}

const DefaultColorCode = "#3B82F6"

func (p Profile) FullName() string {
	return p.FirstName + " " + p.LastName
}

// ProfileWithSkills adds the category ids the profile is qualified for.
type ProfileWithSkills struct {
	Profile
	Skills []int `json:"skills"`
}

// StaffSkill links a profile to a service category it can perform.
type StaffSkill struct {
	ProfileID  string `json:"profileId"`
	CategoryID int    `json:"categoryId"`
}
