package models

import "time"

type Product struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	RichDescription string    `json:"richDescription"`
	Image           string    `json:"image"`
	Brand           string    `json:"brand"`
	Price           float64   `json:"price"`
	CategoryID      int64     `json:"category"`
	CountInStock    int32     `json:"countInStock"`
	Rating          float64   `json:"rating"`
	NumReviews      int32     `json:"numReviews"`
	IsFeatured      bool      `json:"isFeatured"`
	CreatedAt       time.Time `json:"dateCreated"`
}
