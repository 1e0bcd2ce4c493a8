package models

import "time"

// UserRequest is one entry of a visitor's recent activity.
type UserRequest struct {
	Method string    `json:"method"`
	Route  string    `json:"route"`
	At     time.Time `json:"at"`
}
