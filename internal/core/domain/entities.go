package domain

// ApplicationStatus represents the processing state of a case
type ApplicationStatus string

const (
	StatusPending  ApplicationStatus = "Pending"
	StatusApproved ApplicationStatus = "Approved"
	StatusRejected ApplicationStatus = "Rejected"
	StatusInReview ApplicationStatus = "InReview"
)

// ValidApplicationStatus checks enum membership.
// Note: transitions are NOT enforced — any member value may be written at any time.
func ValidApplicationStatus(s string) bool {
	switch ApplicationStatus(s) {
	case StatusPending, StatusApproved, StatusRejected, StatusInReview:
		return true
	}
	return false
}

// BiometricsStatus represents the biometric collection step state
type BiometricsStatus string

const (
	BiometricsCompleted    BiometricsStatus = "Completed"
	BiometricsNotCompleted BiometricsStatus = "NotCompleted"
	BiometricsExpired      BiometricsStatus = "Expired"
)

// ValidBiometricsStatus checks enum membership
func ValidBiometricsStatus(s string) bool {
	switch BiometricsStatus(s) {
	case BiometricsCompleted, BiometricsNotCompleted, BiometricsExpired:
		return true
	}
	return false
}

// Role represents a session role carried in tokens
type Role string

const (
	RoleApplicant Role = "APPLICANT"
	RoleAdmin     Role = "ADMIN"
)

// OTP settings
const (
	// OTPLength is the number of characters in a one-time passcode
	OTPLength = 8
	// OTPAlphabet is the character set codes are drawn from (uniform)
	OTPAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	// OTPValidityMinutes is how long a code stays verifiable
	OTPValidityMinutes = 10
)

// MinPasswordLength is the schema-level minimum for applicant passwords
const MinPasswordLength = 6
