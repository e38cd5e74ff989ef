// Package model holds the catalog's domain types.
//
// Struct tags serve two masters: `db` for scany row scanning and `json` for
// HTTP responses.
package model

import "time"

// User is created on first login through an identity provider.
type User struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Picture   string    `db:"picture" json:"picture"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Category groups items. Names are unique across the catalog.
type Category struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	UserID    int64     `db:"user_id" json:"userId"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Item belongs to exactly one category and is owned by the user who created it.
// CategoryName is filled from a join and is not stored on the row.
type Item struct {
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Description  string    `db:"description" json:"description"`
	CategoryID   int64     `db:"category_id" json:"categoryId"`
	CategoryName string    `db:"category_name" json:"category"`
	UserID       int64     `db:"user_id" json:"userId"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// IsOwnedBy reports whether userID created the item.
func (i *Item) IsOwnedBy(userID int64) bool {
	return i != nil && i.UserID == userID
}

// CategoryWithItems is one entry of the catalog export.
type CategoryWithItems struct {
	Category
	Items []Item `json:"items"`
}
