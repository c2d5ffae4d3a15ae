package gesture

import "fmt"

// Status describes how many hands the tracker reported.
func Status(hands int) string {
	switch {
	case hands <= 0:
		return "no hands"
	case hands == 1:
		return "1 hand detected"
	default:
		return fmt.Sprintf("%d hands detected", hands)
	}
}
