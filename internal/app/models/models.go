package models

import "strings"

// Sex is the biological sex recorded on a roster entry
type Sex string

const (
	SexMale   Sex = "MALE"
	SexFemale Sex = "FEMALE"
)

// ParseSex matches a raw value case-insensitively against the known values
func ParseSex(raw string) (Sex, bool) {
	switch Sex(strings.ToUpper(strings.TrimSpace(raw))) {
	case SexMale:
		return SexMale, true
	case SexFemale:
		return SexFemale, true
	}
	return "", false
}

// StudentStatus is the enrollment status, independent of the parent link
type StudentStatus string

const (
	StudentActive   StudentStatus = "ACTIVE"
	StudentInactive StudentStatus = "INACTIVE"
)

// ParseStudentStatus matches a raw value case-insensitively against the known values
func ParseStudentStatus(raw string) (StudentStatus, bool) {
	switch StudentStatus(strings.ToUpper(strings.TrimSpace(raw))) {
	case StudentActive:
		return StudentActive, true
	case StudentInactive:
		return StudentInactive, true
	}
	return "", false
}

// LinkStatus is the state of the parent-student link workflow.
// LinkNone is represented as NULL in the database: no parent reference
// and no request in flight.
type LinkStatus string

const (
	LinkNone     LinkStatus = "NONE"
	LinkPending  LinkStatus = "PENDING"
	LinkApproved LinkStatus = "APPROVED"
	LinkRejected LinkStatus = "REJECTED"
)

// ActorRole identifies who performs a link operation
type ActorRole string

const (
	RoleStaff  ActorRole = "STAFF"
	RoleParent ActorRole = "PARENT"
)

// Actor is the authenticated identity performing a link operation.
type Actor struct {
	AccountID int64
	Email     string
	Role      ActorRole
}
