package dto

// CreateCourseRequest is the payload for adding a course to the catalog
type CreateCourseRequest struct {
	Code string `json:"code" binding:"required" example:"BSIT"`
	Name string `json:"name" binding:"required" example:"BS Information Technology"`
}
