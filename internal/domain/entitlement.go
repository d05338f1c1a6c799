package domain

import "strings"

const (
	// DefaultCourseID is the paid tier the piano reference pages belong to.
	DefaultCourseID = "intermediate"

	// AdminPathSegment marks routes that bypass stored entitlements.
	AdminPathSegment = "/admin/"

	PricingPath = "/pricing"
	HomePath    = "/"
)

type AccessDecision string

const (
	AccessGranted AccessDecision = "granted"
	AccessDenied  AccessDecision = "denied"
)

func (d AccessDecision) Granted() bool { return d == AccessGranted }

// EntitlementKey is written by the purchase flow, e.g. "intermediate_access_u1".
func EntitlementKey(courseID, userID string) string {
	return courseID + "_access_" + userID
}

// EntitlementGranted reports whether a stored entitlement value grants access.
// Only the literal "true" counts.
func EntitlementGranted(raw string) bool {
	return raw == "true"
}

// IsAdminPath reports whether the request path went through the admin entry point.
func IsAdminPath(path string) bool {
	return strings.Contains(path, AdminPathSegment)
}
