package models

// SolutionPercent computes the share of an account's answers that were
// accepted as solutions, as a truncated integer percentage. An account
// with no answers has no meaningful ratio; the defined policy is to
// return 0 rather than divide by zero.
func SolutionPercent(solutions, answers int) int {
	if answers == 0 {
		return 0
	}
	return solutions * 100 / answers
}
