package achievement

// LedgerSnapshot is a read-only view of the counts a user has accumulated.
// Every count is monotonically non-decreasing over the user's lifetime, so
// re-running a predicate against a fresh snapshot can never revoke an
// achievement that was once earned.
type LedgerSnapshot struct {
	Enrollments      int64
	CompletedSurveys int64
	CompletedLessons int64
}

// checks is the fixed registry mapping each achievement code to its
// predicate. Predicates are pure; all persistence stays in the service.
var checks = map[Code]func(LedgerSnapshot) bool{
	CodeEnrollFirstCourse: func(s LedgerSnapshot) bool { return s.Enrollments >= 1 },

	CodeCompleteFirstSurvey: func(s LedgerSnapshot) bool { return s.CompletedSurveys >= 1 },
	CodeCompleteFiveSurveys: func(s LedgerSnapshot) bool { return s.CompletedSurveys >= 5 },
	CodeCompleteTenSurveys:  func(s LedgerSnapshot) bool { return s.CompletedSurveys >= 10 },

	CodeCompleteFirstLesson: func(s LedgerSnapshot) bool { return s.CompletedLessons >= 1 },
	CodeCompleteFiveLessons: func(s LedgerSnapshot) bool { return s.CompletedLessons >= 5 },
	CodeCompleteTenLessons:  func(s LedgerSnapshot) bool { return s.CompletedLessons >= 10 },
}

// Qualifies reports whether the snapshot satisfies the predicate for code.
// Unknown codes never qualify.
func Qualifies(code Code, snapshot LedgerSnapshot) bool {
	check, ok := checks[code]
	if !ok {
		return false
	}
	return check(snapshot)
}
