package tasks

import "fmt"

// ProgressUpdate reports one step of a bulk screening run.
// The first update of a run has Step 0 and no Result.
type ProgressUpdate struct {
	Step   int
	Total  int
	Result *ScreenResult
}

// Started reports whether u announces the start of a run.
func (u ProgressUpdate) Started() bool {
	return u.Result == nil
}

// String renders u as a single progress line.
func (u ProgressUpdate) String() string {
	res := u.Result
	switch {
	case res == nil:
		return fmt.Sprintf("Screening %d titles...", u.Total)
	case res.Error != nil:
		return fmt.Sprintf("[%d/%d] ! %s: %v", u.Step, u.Total, res.Title, res.Error)
	case res.Approved:
		return fmt.Sprintf("[%d/%d] ✓ %s (score %.2f)", u.Step, u.Total, res.Title, res.Score)
	default:
		return fmt.Sprintf("[%d/%d] ✗ %s (score %.2f)", u.Step, u.Total, res.Title, res.Score)
	}
}
