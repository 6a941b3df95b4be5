package utils

// TruncateString truncates str to at most maxLength bytes, marking the cut with "...".
func TruncateString(str string, maxLength int) string {
	if len(str) <= maxLength {
		return str
	}

	return str[:maxLength] + "..."
}
