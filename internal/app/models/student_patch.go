package models

import (
	"time"

	"github.com/yigit/rosterhub/internal/pkg/patch"
)

// StudentPatch describes a partial update to a roster entry. Each field is
// absent, set, or cleared; required columns reject the clear state at the
// service layer. Link-workflow columns are deliberately not here, those only
// move through workflow transitions.
type StudentPatch struct {
	FirstName    patch.Field[string]
	MiddleName   patch.Field[string]
	LastName     patch.Field[string]
	Sex          patch.Field[Sex]
	BirthDate    patch.Field[time.Time]
	YearEnrolled patch.Field[string]
	Status       patch.Field[StudentStatus]
	CourseID     patch.Field[int64]
	BloodType    patch.Field[string]
	Allergies    patch.Field[string]
	HeightCM     patch.Field[float64]
	WeightKG     patch.Field[float64]
}

// IsEmpty reports whether the patch carries no update at all
func (p StudentPatch) IsEmpty() bool {
	return p.FirstName.IsAbsent() &&
		p.MiddleName.IsAbsent() &&
		p.LastName.IsAbsent() &&
		p.Sex.IsAbsent() &&
		p.BirthDate.IsAbsent() &&
		p.YearEnrolled.IsAbsent() &&
		p.Status.IsAbsent() &&
		p.CourseID.IsAbsent() &&
		p.BloodType.IsAbsent() &&
		p.Allergies.IsAbsent() &&
		p.HeightCM.IsAbsent() &&
		p.WeightKG.IsAbsent()
}
