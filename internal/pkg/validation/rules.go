package validation

import "regexp"

// Validation rule patterns
var (
	// Student identifier pattern - year, dash, five digit sequence number
	StudentIDPattern = `^\d{4}-\d{5}$`

	// Enrollment year pattern - exactly four digits
	YearPattern = `^[0-9]{4}$`

	// Course code pattern - uppercase alphanumeric, e.g. BSIT
	CourseCodePattern = `^[A-Z][A-Z0-9]{1,15}$`
)

// CompiledPatterns caches compiled regex patterns for better performance
var CompiledPatterns = struct {
	StudentID  *regexp.Regexp
	Year       *regexp.Regexp
	CourseCode *regexp.Regexp
}{
	StudentID:  regexp.MustCompile(StudentIDPattern),
	Year:       regexp.MustCompile(YearPattern),
	CourseCode: regexp.MustCompile(CourseCodePattern),
}

// IsValidStudentID reports whether id matches the YYYY-NNNNN identifier format.
func IsValidStudentID(id string) bool {
	return CompiledPatterns.StudentID.MatchString(id)
}

// IsValidYear reports whether year is exactly four digits.
func IsValidYear(year string) bool {
	return CompiledPatterns.Year.MatchString(year)
}

// IsValidCourseCode reports whether code looks like a course code.
func IsValidCourseCode(code string) bool {
	return CompiledPatterns.CourseCode.MatchString(code)
}
