// Package internaldefs holds the metric definitions shared by the
// Prometheus and OTel exporters so the two surfaces never drift apart.
package internaldefs

import (
	coverauth "github.com/coverpages/coverauth"
)

// CounterDef binds an engine counter to its exported name and help text.
type CounterDef struct {
	ID   coverauth.MetricID
	Name string
	Help string
}

// CounterDefs lists every exported engine counter, in a stable order.
var CounterDefs = []CounterDef{
	{ID: coverauth.MetricLoginSuccess, Name: "coverauth_login_success_total", Help: "Successful login attempts."},
	{ID: coverauth.MetricLoginFailure, Name: "coverauth_login_failure_total", Help: "Failed login attempts."},
	{ID: coverauth.MetricTokenIssued, Name: "coverauth_token_issued_total", Help: "Signed bearer tokens issued."},
	{ID: coverauth.MetricSessionCreated, Name: "coverauth_session_created_total", Help: "Sessions established at login."},
	{ID: coverauth.MetricSessionRenewed, Name: "coverauth_session_renewed_total", Help: "Session expiries slid forward on admission."},
	{ID: coverauth.MetricSessionDestroyed, Name: "coverauth_session_destroyed_total", Help: "Sessions destroyed by logout."},
	{ID: coverauth.MetricGateAdmitted, Name: "coverauth_gate_admitted_total", Help: "Requests admitted by the authorization gate."},
	{ID: coverauth.MetricGateUnauthenticated, Name: "coverauth_gate_unauthenticated_total", Help: "Requests rejected with no resolvable identity."},
	{ID: coverauth.MetricGateForbidden, Name: "coverauth_gate_forbidden_total", Help: "Requests rejected for insufficient role rank."},
}

// AuditDroppedName is the exported name for the audit backpressure counter.
const AuditDroppedName = "coverauth_audit_dropped_total"

// AuditDroppedHelp describes the audit backpressure counter.
const AuditDroppedHelp = "Dropped audit events due to dispatcher backpressure."
