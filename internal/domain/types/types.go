// Package types contains request and response shapes shared by the HTTP API and its clients.
package types

import "time"

// List wraps a collection response.
type List[T any] struct {
	Items []T `json:"items"`
	Count int `json:"count"`
}

// NewList wraps items, never encoding a null array.
func NewList[T any](items []T) List[T] {
	if items == nil {
		items = []T{}
	}
	return List[T]{Items: items, Count: len(items)}
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Session describes an admin session.
type Session struct {
	Token     string    `json:"token,omitempty"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Seasons lists the seasons that have events, newest first, plus the current one.
type Seasons struct {
	Current int   `json:"current"`
	Seasons []int `json:"seasons"`
}

// Stats is the body of GET /stats.
type Stats struct {
	Shooters       int    `json:"shooters"`
	ActiveShooters int    `json:"active_shooters"`
	Events         int    `json:"events"`
	Results        int    `json:"results"`
	CurrentSeason  int    `json:"current_season"`
	StorageDriver  string `json:"storage_driver"`
	Uptime         string `json:"uptime"`
	// WritesInFlight counts result writes currently holding their (event, shooter) pair.
	WritesInFlight int64 `json:"writes_in_flight"`
}
