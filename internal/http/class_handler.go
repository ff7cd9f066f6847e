package http

import (
	"context"
	"errors"
	"net/http"

	"readingtracker/internal/entity"
	"readingtracker/internal/httpx"
	"readingtracker/internal/store"
)

type ClassStore interface {
	Create(ctx context.Context, c *entity.Class) error
	List(ctx context.Context) ([]entity.Class, error)
	GetByID(ctx context.Context, id int64) (entity.Class, error)
	Enroll(ctx context.Context, classID, studentID int64) error
	AssignBook(ctx context.Context, classID, bookID int64) error
	ListBooks(ctx context.Context, classID int64) ([]entity.Book, error)
	ListStudents(ctx context.Context, classID int64) ([]entity.User, error)
}

type ClassHandler struct {
	classes ClassStore
	users   UserStore
	books   BookStore
}

func NewClassHandler(classes ClassStore, users UserStore, books BookStore) *ClassHandler {
	return &ClassHandler{classes: classes, users: users, books: books}
}

type classRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
}

func (h *ClassHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req classRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if details := ValidateStruct(req); details != nil {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", "Invalid class", details...)
		return
	}

	c := entity.Class{Name: req.Name, Description: req.Description, TeacherID: httpx.UserIDFrom(r)}
	if err := h.classes.Create(r.Context(), &c); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			httpx.JSONError(w, http.StatusConflict, "duplicate", "A class with this name already exists")
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", "Could not create class")
		return
	}
	httpx.JSONSuccessCreated(w, c)
}

func (h *ClassHandler) List(w http.ResponseWriter, r *http.Request) {
	classes, err := h.classes.List(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", "Could not list classes")
		return
	}
	httpx.JSONSuccess(w, classes)
}

// ListBooks returns the books assigned to a class; GET /classes/{id}/books.
func (h *ClassHandler) ListBooks(w http.ResponseWriter, r *http.Request) {
	classID, action, ok := pathIDAction(r, "/classes/")
	if !ok || action != "books" {
		http.NotFound(w, r)
		return
	}
	if _, err := h.classes.GetByID(r.Context(), classID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", "Class not found")
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", "Could not load class")
		return
	}
	books, err := h.classes.ListBooks(r.Context(), classID)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", "Could not list class books")
		return
	}
	httpx.JSONSuccess(w, books)
}

type enrollRequest struct {
	StudentID int64 `json:"student_id" validate:"required"`
}

type assignBookRequest struct {
	BookID int64 `json:"book_id" validate:"required"`
}

// Manage handles POST /admin/classes/{id}/students and .../books, and
// GET /admin/classes/{id}/students.
func (h *ClassHandler) Manage(w http.ResponseWriter, r *http.Request) {
	classID, action, ok := pathIDAction(r, "/admin/classes/")
	if !ok {
		http.NotFound(w, r)
		return
	}

	if _, err := h.classes.GetByID(r.Context(), classID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", "Class not found")
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", "Could not load class")
		return
	}

	switch {
	case action == "students" && r.Method == http.MethodGet:
		students, err := h.classes.ListStudents(r.Context(), classID)
		if err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "internal_error", "Could not list students")
			return
		}
		httpx.JSONSuccess(w, students)

	case action == "students" && r.Method == http.MethodPost:
		var req enrollRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if details := ValidateStruct(req); details != nil {
			httpx.JSONError(w, http.StatusBadRequest, "validation_failed", "student_id is required", details...)
			return
		}
		if _, err := h.users.GetByID(r.Context(), req.StudentID); err != nil {
			httpx.JSONError(w, http.StatusNotFound, "not_found", "Student not found")
			return
		}
		if err := h.classes.Enroll(r.Context(), classID, req.StudentID); err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "internal_error", "Could not enroll student")
			return
		}
		httpx.JSONSuccessCreated(w, map[string]any{"class_id": classID, "student_id": req.StudentID})

	case action == "books" && r.Method == http.MethodPost:
		var req assignBookRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if details := ValidateStruct(req); details != nil {
			httpx.JSONError(w, http.StatusBadRequest, "validation_failed", "book_id is required", details...)
			return
		}
		if _, err := h.books.GetByID(r.Context(), req.BookID); err != nil {
			httpx.JSONError(w, http.StatusNotFound, "not_found", "Book not found")
			return
		}
		if err := h.classes.AssignBook(r.Context(), classID, req.BookID); err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "internal_error", "Could not assign book")
			return
		}
		httpx.JSONSuccessCreated(w, map[string]any{"class_id": classID, "book_id": req.BookID})

	default:
		http.NotFound(w, r)
	}
}
