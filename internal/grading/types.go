package grading

// CheckResult compares one substance's expected and entered quantity.
type CheckResult struct {
	ID       string
	Expected int
	Entered  int
	Passed   bool
	Message  string
}

type Result struct {
	Passed     bool
	Checks     []CheckResult
	Mismatches int
}
