package achievement

import "testing"

func TestQualifies(t *testing.T) {
	tests := []struct {
		name     string
		code     Code
		snapshot LedgerSnapshot
		want     bool
	}{
		{"FirstEnrollment", CodeEnrollFirstCourse, LedgerSnapshot{Enrollments: 1}, true},
		{"NoEnrollment", CodeEnrollFirstCourse, LedgerSnapshot{}, false},

		{"FirstSurvey", CodeCompleteFirstSurvey, LedgerSnapshot{CompletedSurveys: 1}, true},
		{"FiveSurveysAtThreshold", CodeCompleteFiveSurveys, LedgerSnapshot{CompletedSurveys: 5}, true},
		{"FiveSurveysBelowThreshold", CodeCompleteFiveSurveys, LedgerSnapshot{CompletedSurveys: 4}, false},
		{"TenSurveysAboveThreshold", CodeCompleteTenSurveys, LedgerSnapshot{CompletedSurveys: 12}, true},

		{"FirstLesson", CodeCompleteFirstLesson, LedgerSnapshot{CompletedLessons: 1}, true},
		{"FiveLessons", CodeCompleteFiveLessons, LedgerSnapshot{CompletedLessons: 5}, true},
		{"TenLessonsBelowThreshold", CodeCompleteTenLessons, LedgerSnapshot{CompletedLessons: 9}, false},

		{"UnknownCode", Code("COMPLETE_EVERYTHING"), LedgerSnapshot{Enrollments: 100, CompletedSurveys: 100, CompletedLessons: 100}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Qualifies(tt.code, tt.snapshot); got != tt.want {
				t.Errorf("Qualifies(%q, %+v) = %v, want %v", tt.code, tt.snapshot, got, tt.want)
			}
		})
	}
}

func TestAllCodesHaveChecks(t *testing.T) {
	for _, code := range AllCodes {
		if !code.IsValid() {
			t.Errorf("code %q has no registered check", code)
		}
	}
	if len(AllCodes) != len(checks) {
		t.Errorf("registry has %d checks, AllCodes lists %d", len(checks), len(AllCodes))
	}
}
