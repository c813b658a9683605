package models

// Course represents a course a roster entry can be enrolled in.
// "No course" is a valid state for non-college enrollees, so the
// student side of the reference is nullable.
type Course struct {
	ID   int64  `json:"id" db:"id"`
	Code string `json:"code" db:"code" example:"BSIT"`
	Name string `json:"name" db:"name" example:"BS Information Technology"`
}
