package models

// Identity is the lightweight user identity decoded from the bearer
// token's payload at login time.
type Identity struct {
	UserID   int64  `json:"id"`
	Username string `json:"username"`
}
