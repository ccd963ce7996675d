package codes

// dtgen exit codes
const (
	OK = 0

	// General failure
	Failure = 1

	// Configuration-shape error: the package database stack cannot be
	// represented under the legacy flag grammar
	ConfigShape = 2

	// Plan error: the build plan is missing, unreadable or invalid
	Plan = 3

	// I/O error: the artifact directory or file could not be written
	IO = 4
)

// Messages maps dtgen exit codes to their descriptions
var Messages = map[int]string{
	OK:          "Success",
	Failure:     "General failure",
	ConfigShape: "Unrepresentable package database stack",
	Plan:        "Invalid build plan",
	IO:          "Cannot write generated artifact",
}

// Message returns the description for a given exit code, or a generic
// message if unknown
func Message(code int) string {
	if msg, ok := Messages[code]; ok {
		return msg
	}

	return "Unknown error"
}
