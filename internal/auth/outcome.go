package auth

// OutcomeKind discriminates the terminal result of one sign-in attempt.
type OutcomeKind int

const (
	// OutcomeError means the provider or the code exchange failed.
	OutcomeError OutcomeKind = iota
	// OutcomeSuccess means an identity token was obtained.
	OutcomeSuccess
	// OutcomeCancelled means the user dismissed the interactive flow.
	// Not an error: callers must not surface an alarming failure for it.
	OutcomeCancelled
)

// String returns the outcome kind name.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeCancelled:
		return "cancelled"
	default:
		return "error"
	}
}

// Outcome is the normalized result of one interactive sign-in attempt.
//
// The optional-field soup of the underlying OAuth responses is collapsed
// into this tagged shape at the boundary, so downstream code checks the
// kind exactly once. Every attempt yields exactly one Outcome.
type Outcome struct {
	Kind OutcomeKind

	// IDToken is set on success: the provider-issued identity token the
	// backend verifies during login.
	IDToken string

	// AccessToken is set on success when the provider returned one.
	AccessToken string

	// Message is set on error and is always non-empty there.
	Message string
}

func successOutcome(idToken, accessToken string) *Outcome {
	return &Outcome{Kind: OutcomeSuccess, IDToken: idToken, AccessToken: accessToken}
}

func errorOutcome(message string) *Outcome {
	if message == "" {
		message = "sign-in failed"
	}
	return &Outcome{Kind: OutcomeError, Message: message}
}

func cancelledOutcome() *Outcome {
	return &Outcome{Kind: OutcomeCancelled}
}
