package store

import (
	"context"
	"fmt"

	"readingtracker/internal/entity"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ClassPG struct {
	db *pgxpool.Pool
}

func NewClassPG(db *pgxpool.Pool) *ClassPG {
	return &ClassPG{db: db}
}

func (r *ClassPG) Create(ctx context.Context, c *entity.Class) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO classes (name, description, teacher_id)
		VALUES ($1, NULLIF($2, ''), $3)
		RETURNING id, created_at`,
		c.Name, c.Description, c.TeacherID,
	).Scan(&c.ID, &c.CreatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("class %q: %w", c.Name, ErrDuplicate)
	}
	return err
}

func (r *ClassPG) List(ctx context.Context) ([]entity.Class, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, COALESCE(description, ''), teacher_id, created_at
		FROM classes ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var classes []entity.Class
	for rows.Next() {
		var c entity.Class
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.TeacherID, &c.CreatedAt); err != nil {
			return nil, err
		}
		classes = append(classes, c)
	}
	return classes, rows.Err()
}

func (r *ClassPG) GetByID(ctx context.Context, id int64) (entity.Class, error) {
	var c entity.Class
	err := r.db.QueryRow(ctx, `
		SELECT id, name, COALESCE(description, ''), teacher_id, created_at
		FROM classes WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.Description, &c.TeacherID, &c.CreatedAt)
	if err != nil {
		return entity.Class{}, mapNoRows(err)
	}
	return c, nil
}

// Enroll adds a student to a class; enrolling twice is a no-op.
func (r *ClassPG) Enroll(ctx context.Context, classID, studentID int64) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO class_students (class_id, student_id)
		VALUES ($1, $2)
		ON CONFLICT (class_id, student_id) DO NOTHING`,
		classID, studentID)
	return err
}

// AssignBook puts a book on the class reading list; assigning twice is a no-op.
func (r *ClassPG) AssignBook(ctx context.Context, classID, bookID int64) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO class_books (class_id, book_id)
		VALUES ($1, $2)
		ON CONFLICT (class_id, book_id) DO NOTHING`,
		classID, bookID)
	return err
}

func (r *ClassPG) ListBooks(ctx context.Context, classID int64) ([]entity.Book, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+prefixedBookColumns("b")+`
		FROM class_books cb
		JOIN books b ON b.id = cb.book_id
		WHERE cb.class_id = $1
		ORDER BY b.title`, classID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []entity.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

func (r *ClassPG) ListStudents(ctx context.Context, classID int64) ([]entity.User, error) {
	rows, err := r.db.Query(ctx, `
		SELECT u.id, u.username, u.email, u.password_hash, u.role,
			COALESCE(u.first_name, ''), COALESCE(u.last_name, ''), u.created_at
		FROM class_students cs
		JOIN users u ON u.id = cs.student_id
		WHERE cs.class_id = $1
		ORDER BY u.username`, classID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []entity.User
	for rows.Next() {
		var u entity.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role,
			&u.FirstName, &u.LastName, &u.CreatedAt); err != nil {
			return nil, err
		}
		students = append(students, u)
	}
	return students, rows.Err()
}
