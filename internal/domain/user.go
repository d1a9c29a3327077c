package domain

import "time"

// User is an account record. Emails are unique and compared case-sensitively.
// Users are never updated or deleted once created.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	Nickname     string
	CreatedAt    time.Time
}

type UserInfo struct {
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
}

func (u *User) ToUserInfo() UserInfo {
	return UserInfo{Email: u.Email, Nickname: u.Nickname}
}
