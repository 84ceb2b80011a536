package domain

// OTP purposes. A login code and a password-reset code share the otps
// table but never satisfy each other.
const (
	OtpPurposeLogin         = "LOGIN"
	OtpPurposeResetPassword = "RESET_PASSWORD"
)

// OtpRecord stores a pending one-time password.
// PK: email, SK: otp_id (ULID). Records are created on login/reset
// initiation and bulk-deleted on successful verification; they are
// never updated in place. ExpiresAt is a Unix timestamp used as
// DynamoDB TTL.
type OtpRecord struct {
	Email     string `json:"email" dynamodbav:"email"`
	OtpID     string `json:"otp_id" dynamodbav:"otp_id"`
	Purpose   string `json:"purpose" dynamodbav:"purpose"` // "LOGIN" | "RESET_PASSWORD"
	Code      string `json:"code" dynamodbav:"code"`
	ExpiresAt int64  `json:"expires_at" dynamodbav:"expires_at"` // TTL (Unix seconds)
}

// LatestOtp selects the authoritative record from a set of pending codes:
// the one with the greatest ExpiresAt, ties broken by the greatest OtpID.
// ULIDs are monotonic, so the tie-break picks the record the store
// assigned last. Returns false when the set is empty.
func LatestOtp(records []OtpRecord) (OtpRecord, bool) {
	if len(records) == 0 {
		return OtpRecord{}, false
	}
	latest := records[0]
	for _, r := range records[1:] {
		if r.ExpiresAt > latest.ExpiresAt ||
			(r.ExpiresAt == latest.ExpiresAt && r.OtpID > latest.OtpID) {
			latest = r
		}
	}
	return latest, true
}
