package models

import "time"

// Student defines the roster entry model based on the 'students' table.
// StudentID is the externally assigned YYYY-NNNNN identifier; ID is the
// store's own identity.
type Student struct {
	ID           int64         `json:"id" db:"id" example:"1"`
	StudentID    string        `json:"studentId" db:"student_id" example:"2024-12345"`
	FirstName    string        `json:"firstName" db:"first_name" example:"Juan"`
	MiddleName   *string       `json:"middleName,omitempty" db:"middle_name" example:"Santos"`
	LastName     string        `json:"lastName" db:"last_name" example:"Dela Cruz"`
	Sex          Sex           `json:"sex" db:"sex" example:"MALE"`
	BirthDate    *time.Time    `json:"birthDate,omitempty" db:"birth_date"`
	YearEnrolled string        `json:"yearEnrolled" db:"year_enrolled" example:"2024"`
	Status       StudentStatus `json:"status" db:"status" example:"ACTIVE"`
	CourseID     *int64        `json:"courseId,omitempty" db:"course_id"`

	// Health profile, all freely clearable
	BloodType *string  `json:"bloodType,omitempty" db:"blood_type" example:"O+"`
	Allergies *string  `json:"allergies,omitempty" db:"allergies"`
	HeightCM  *float64 `json:"heightCm,omitempty" db:"height_cm"`
	WeightKG  *float64 `json:"weightKg,omitempty" db:"weight_kg"`

	// Parent link state machine
	ParentID           *int64     `json:"parentId,omitempty" db:"parent_id"`
	ParentRelationship *string    `json:"parentRelationship,omitempty" db:"parent_relationship"`
	LinkStatus         LinkStatus `json:"linkStatus" db:"link_status" example:"PENDING"`
	RejectionReason    *string    `json:"rejectionReason,omitempty" db:"rejection_reason"`
	LinkUpdatedAt      *time.Time `json:"linkUpdatedAt,omitempty" db:"link_updated_at"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	// Relations (populated when needed)
	Course *Course `json:"course,omitempty"`
	Parent *Parent `json:"parent,omitempty"`
}

// StudentFilter narrows roster reads for listing and export
type StudentFilter struct {
	YearEnrolled string
	Status       StudentStatus
}
