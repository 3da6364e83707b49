package models

// MailJob is the payload published to the mail queue. Kind selects the
// template the mailer renders.
type MailJob struct {
	Kind     MailKind `json:"kind"`
	Email    string   `json:"email"`
	Nickname string   `json:"nickname,omitempty"`
	Code     string   `json:"code"`
}

// MailKind names a mail template.
type MailKind string

const (
	// MailVerification carries an email verification code.
	MailVerification MailKind = "verification"
	// MailPasswordReset carries a password reset code.
	MailPasswordReset MailKind = "password_reset"
)
