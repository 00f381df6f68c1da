package domain

import "time"

// User is created lazily on a user's first authenticated request and is
// never deleted here. Usernames are unique.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
