package internaldefs

import (
	adminauth "github.com/klinika/adminauth"
)

// CounterDef defines a public type used by adminauth APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   adminauth.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the session engine.
var CounterDefs = []CounterDef{
	{ID: adminauth.MetricCodeRequestSuccess, Name: "adminauth_code_request_success_total", Help: "Successful OTP code requests."},
	{ID: adminauth.MetricCodeRequestFailure, Name: "adminauth_code_request_failure_total", Help: "Failed OTP code requests."},
	{ID: adminauth.MetricCodeResendBlocked, Name: "adminauth_code_resend_blocked_total", Help: "Resend attempts blocked by the cooldown."},
	{ID: adminauth.MetricVerifySuccess, Name: "adminauth_verify_success_total", Help: "Successful OTP verifications."},
	{ID: adminauth.MetricVerifyFailure, Name: "adminauth_verify_failure_total", Help: "Failed OTP verifications."},
	{ID: adminauth.MetricSessionAuthenticated, Name: "adminauth_session_authenticated_total", Help: "Session checks that settled authenticated."},
	{ID: adminauth.MetricSessionUnauthenticated, Name: "adminauth_session_unauthenticated_total", Help: "Session checks that settled unauthenticated."},
	{ID: adminauth.MetricSessionCheckFailure, Name: "adminauth_session_check_failure_total", Help: "Session checks that failed closed on storage or fetch errors."},
	{ID: adminauth.MetricSignOut, Name: "adminauth_sign_out_total", Help: "Explicit sign-out operations."},
	{ID: adminauth.MetricDevBypassUsed, Name: "adminauth_dev_bypass_used_total", Help: "Sessions established through the developer bypass."},
}
