package entity

import "time"

// User roles. Admins are the teachers running the classroom library.
const (
	RoleAdmin   = "admin"
	RoleStudent = "student"
)

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	FirstName    string    `json:"first_name,omitempty"`
	LastName     string    `json:"last_name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Class groups students under one teacher with an assigned reading list.
type Class struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	TeacherID   int64     `json:"teacher_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// ReadingListItem is one entry on a student's personal reading list.
type ReadingListItem struct {
	ID       int64     `json:"id"`
	UserID   int64     `json:"user_id"`
	BookID   int64     `json:"book_id"`
	Position int       `json:"position"`
	AddedAt  time.Time `json:"added_at"`
}

// BookRead marks a book a student finished.
type BookRead struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	BookID      int64     `json:"book_id"`
	CompletedAt time.Time `json:"completed_at"`
}
