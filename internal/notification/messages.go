package notification

import (
	"fmt"
	"time"
)

// ReturningVisitorMessage renders the one-time-passcode SMS for an enrolled
// visitor: greeting, the code, expiry in human terms, the verification link
// parameterized with the identity key, and the note telling recipients to use
// the most recent code when several arrived.
func ReturningVisitorMessage(code, identityKey, visitorURL string, ttl time.Duration) string {
	return fmt.Sprintf(
		"Welcome back! Here is your one time password: %q. This password will expire in %s. "+
			"Please enter it on this webpage: %s?externalID=%s. "+
			"Note: If you received multiple OTPs, please use the one from the most recent text.",
		code, humanDuration(ttl), visitorURL, identityKey)
}

// OwnerReviewMessage renders the fixed review request sent to the owner for
// an unknown visitor. It deliberately carries no identity or photo reference;
// the review page always shows the single current-visitor slot.
func OwnerReviewMessage(ownerURL string) string {
	return fmt.Sprintf(
		"Hello, you have received a visitor verification request. "+
			"To see who is at your door and admit/deny them access, click here: %s", ownerURL)
}

func humanDuration(d time.Duration) string {
	if d >= time.Minute && d%time.Minute == 0 {
		minutes := int(d / time.Minute)
		if minutes == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", minutes)
	}
	return d.String()
}
