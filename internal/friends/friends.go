package friends

import (
	"errors"
	"time"
)

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrUsernameTaken         = errors.New("username already taken")
	ErrFriendRequestNotFound = errors.New("friend request not found")
)

// User is a profile in the directory. PasswordHash never leaves the server.
type User struct {
	UID          string    `json:"uid"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	DisplayName  string    `json:"displayName"`
	CreatedAt    time.Time `json:"createdAt"`
}

// FriendRequest is a pending, directed invitation. Accepting it creates the
// friendship and removes the request, declining just removes it.
type FriendRequest struct {
	FromUID   string    `json:"fromUid"`
	ToUID     string    `json:"toUid"`
	CreatedAt time.Time `json:"createdAt"`
}

// Friend is the listing view of a confirmed friend.
type Friend struct {
	UID         string `json:"uid"`
	DisplayName string `json:"displayName"`
}
