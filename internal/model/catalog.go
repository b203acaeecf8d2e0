package model

import "time"

// ServiceCategory groups services and anchors staff skills. The set is
// seeded at migration time and read-only through the API.
type ServiceCategory struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Service is a sellable offering. Price is in DA, duration in minutes;
// they are the only inputs to scheduling and revenue math.
type Service struct {
	ID         string    `json:"id"`
	CategoryID int       `json:"categoryId"`
	Name       string    `json:"name"`
	Price      int       `json:"price"`
	Duration   int       `json:"duration"`
	CreatedAt  time.Time `json:"createdAt"`
}

type ServiceWithCategory struct {
	Service
	Category ServiceCategory `json:"category"`
}

type Client struct {
	ID        string    `json:"id"`
	FullName  string    `json:"fullName"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
