package dto

import (
	"github.com/yigit/rosterhub/internal/pkg/patch"
)

// CreateStudentRequest is the payload for a direct single-record create.
// Enum and date fields arrive as strings and are normalized by the service,
// the same way imported rows are.
type CreateStudentRequest struct {
	StudentID    string  `json:"studentId" binding:"required" example:"2024-12345"`
	FirstName    string  `json:"firstName" binding:"required" example:"Juan"`
	MiddleName   *string `json:"middleName" example:"Santos"`
	LastName     string  `json:"lastName" binding:"required" example:"Dela Cruz"`
	Sex          string  `json:"sex" binding:"required" example:"MALE"`
	BirthDate    *string `json:"birthDate" example:"2002-06-08"`
	YearEnrolled string  `json:"yearEnrolled" binding:"required" example:"2024"`
	Status       *string `json:"status" example:"ACTIVE"`
	CourseCode   *string `json:"courseCode" example:"BSIT"`

	BloodType *string  `json:"bloodType" example:"O+"`
	Allergies *string  `json:"allergies"`
	HeightCM  *float64 `json:"heightCm" example:"172.5"`
	WeightKG  *float64 `json:"weightKg" example:"64.2"`
}

// UpdateStudentRequest is the payload for a partial update. Every field is
// tri-state: missing leaves the column alone, null clears it, a value sets it.
type UpdateStudentRequest struct {
	FirstName    patch.Field[string]  `json:"firstName"`
	MiddleName   patch.Field[string]  `json:"middleName"`
	LastName     patch.Field[string]  `json:"lastName"`
	Sex          patch.Field[string]  `json:"sex"`
	BirthDate    patch.Field[string]  `json:"birthDate"`
	YearEnrolled patch.Field[string]  `json:"yearEnrolled"`
	Status       patch.Field[string]  `json:"status"`
	CourseCode   patch.Field[string]  `json:"courseCode"`
	BloodType    patch.Field[string]  `json:"bloodType"`
	Allergies    patch.Field[string]  `json:"allergies"`
	HeightCM     patch.Field[float64] `json:"heightCm"`
	WeightKG     patch.Field[float64] `json:"weightKg"`
}
