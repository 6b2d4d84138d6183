package models

type User struct {
	ID           int      `json:"id"`
	Username     string   `json:"username"`
	PasswordHash string   `json:"-"` // don’t expose hash
	Access       []string `json:"access"`
}
