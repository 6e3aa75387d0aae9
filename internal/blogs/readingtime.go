package blogs

import "strings"

const wordsPerMinute = 200

// EstimateReadingTime returns the estimated minutes to read body at 200
// words per minute, rounded up. A body with no words estimates to zero; an
// empty or missing body is never an error.
func EstimateReadingTime(body string) int {
	words := len(strings.Fields(body))
	if words == 0 {
		return 0
	}
	return (words + wordsPerMinute - 1) / wordsPerMinute
}
