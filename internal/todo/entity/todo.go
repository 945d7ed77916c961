package entity

import "time"

// Todo is a title/description/done-flag record owned by exactly one user.
// UserName is joined from the owner at read time, never stored.
type Todo struct {
	ID          int64      `db:"id" json:"id"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description"`
	IsDone      bool       `db:"is_done" json:"is_done"`
	UserID      int64      `db:"user_id" json:"user_id"`
	UserName    string     `db:"user_name" json:"user_name"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt   *time.Time `db:"deleted_at" json:"-"`
}
