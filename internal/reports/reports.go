// Package reports computes the admin reports: event popularity, attendance
// percentages, feedback summaries and the most active students.
package reports

import (
	"math"
	"sort"
)

// AttendanceWeight is how much one attendance counts towards a student's
// activity score, relative to one registration.
const AttendanceWeight = 2

// AttendancePercentage returns attended/registrations as a percentage
// rounded to two decimals, or 0 when nobody registered.
func AttendancePercentage(registrations, attended int64) float64 {
	if registrations <= 0 {
		return 0
	}
	return math.Round(float64(attended)/float64(registrations)*10000) / 100
}

func Score(attendance, registrations int64) int64 {
	return attendance*AttendanceWeight + registrations
}

// StudentActivity is one row of the top-students report.
type StudentActivity struct {
	ID                uint   `json:"id"`
	Name              string `json:"name"`
	Email             string `json:"email"`
	StudentNumber     string `json:"student_id"`
	CollegeID         uint   `json:"college_id"`
	AttendanceCount   int64  `json:"attendance_count"`
	RegistrationCount int64  `json:"registration_count"`
	Score             int64  `json:"score"`
}

// RankStudents fills in scores and returns the limit highest. Ties keep
// their input order. A non-positive limit returns every student.
func RankStudents(students []StudentActivity, limit int) []StudentActivity {
	ranked := make([]StudentActivity, len(students))
	copy(ranked, students)
	for i := range ranked {
		ranked[i].Score = Score(ranked[i].AttendanceCount, ranked[i].RegistrationCount)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
