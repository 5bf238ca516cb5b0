package models

import "time"

type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Phone        string    `json:"phone"`
	IsAdmin      bool      `json:"isAdmin"`
	Street       string    `json:"street"`
	Apartment    string    `json:"apartment"`
	Zip          string    `json:"zip"`
	City         string    `json:"city"`
	Country      string    `json:"country"`
	CreatedAt    time.Time `json:"createdAt"`
}
