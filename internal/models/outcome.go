package models

import "time"

// TestStatus is the terminal classification of one test execution.
type TestStatus string

const (
	StatusPassed  TestStatus = "PASSED"
	StatusFailed  TestStatus = "FAILED"
	StatusSkipped TestStatus = "SKIPPED"
	StatusError   TestStatus = "ERROR"
)

// Valid reports whether s is one of the four recognized statuses.
func (s TestStatus) Valid() bool {
	switch s {
	case StatusPassed, StatusFailed, StatusSkipped, StatusError:
		return true
	}
	return false
}

// Passing reports whether the outcome counts as a successful run.
func (s TestStatus) Passing() bool {
	return s == StatusPassed
}

// TestOutcome is one row in the test_results table. Rows are written
// exactly once at test teardown and never updated.
type TestOutcome struct {
	ID               int64      `json:"id" db:"id"`
	TestCaseName     string     `json:"test_case_name" db:"test_case_name"`
	ModuleName       string     `json:"module_name" db:"module_name"`
	TestStatus       TestStatus `json:"test_status" db:"test_status"`
	TestDatetime     time.Time  `json:"test_datetime" db:"test_datetime"`
	ErrorMessage     string     `json:"error_message,omitempty" db:"error_message"`
	ErrorSummary     string     `json:"error_summary,omitempty" db:"error_summary"`
	TotalTimeSeconds *float64   `json:"total_time_duration,omitempty" db:"total_time_duration"`
	DeviceName       string     `json:"device_name,omitempty" db:"device_name"`
	ScreenResolution string     `json:"screen_resolution,omitempty" db:"screen_resolution"`
	ErrorLink        string     `json:"error_link,omitempty" db:"error_link"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
}

// Statistics aggregates outcome counts across the whole table.
type Statistics struct {
	Total   int64 `json:"total"`
	Passed  int64 `json:"passed"`
	Failed  int64 `json:"failed"`
	Skipped int64 `json:"skipped"`
	Error   int64 `json:"error"`
}
