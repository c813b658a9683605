package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	StudentRepository *StudentRepository
	CourseRepository  *CourseRepository
	ParentRepository  *ParentRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		StudentRepository: NewStudentRepository(db),
		CourseRepository:  NewCourseRepository(db),
		ParentRepository:  NewParentRepository(db),
	}
}
