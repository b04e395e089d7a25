package utils

// Application Constants
const (
	AppName    = "TouristSafety"
	AppVersion = "1.0.0"

	// Case code format
	CaseCodePrefix       = "CASE"
	CaseCodeSuffixLength = 9

	// Resolution
	DefaultResolver = "Emergency Responder"

	// Response status
	StatusSuccess = "success"
	StatusError   = "error"

	// Error messages
	ErrInternalServer   = "internal server error"
	ErrValidationFailed = "validation failed"
	ErrTouristNotFound  = "Tourist not found"
	ErrCaseNotFound     = "Case not found"
)
