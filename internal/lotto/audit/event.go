package audit

import (
	"strings"
	"time"
)

type Kind string

const (
	KindUserRegistration   Kind = "USER_REGISTRATION"
	KindLoginSuccess       Kind = "LOGIN_SUCCESS"
	KindLoginFailure       Kind = "LOGIN_FAILURE"
	KindLoginMFAFailure    Kind = "LOGIN_MFA_FAILURE"
	KindLoginLockedOut     Kind = "LOGIN_LOCKED_OUT"
	KindLogout             Kind = "LOGOUT"
	KindUnauthorizedAccess Kind = "UNAUTHORIZED_ACCESS"
	KindDecryptionFailure  Kind = "DECRYPTION_FAILURE"
	KindDrawResolved       Kind = "DRAW_RESOLVED"
)

// Kinds lists every event kind, in declaration order.
var Kinds = []Kind{
	KindUserRegistration,
	KindLoginSuccess,
	KindLoginFailure,
	KindLoginMFAFailure,
	KindLoginLockedOut,
	KindLogout,
	KindUnauthorizedAccess,
	KindDecryptionFailure,
	KindDrawResolved,
}

// Marker prefixes every security event message. Records without it never
// reach the audit stream.
const Marker = "SECURITY"

// Event is a single security-relevant occurrence. Passwords, one-time codes,
// secrets and draw numbers have no field here on purpose.
type Event struct {
	Time       time.Time
	Kind       Kind
	UserID     string
	Email      string
	Role       string
	DrawID     string
	RemoteAddr string
}

// Message renders the event as "SECURITY - KIND [field, ...]". Empty fields
// are skipped; the order is user id, email, role, draw id, remote address.
func (e Event) Message() string {
	var fields []string
	for _, f := range []string{e.UserID, e.Email, e.Role, e.DrawID, e.RemoteAddr} {
		if f != "" {
			fields = append(fields, f)
		}
	}

	var b strings.Builder
	b.WriteString(Marker)
	b.WriteString(" - ")
	b.WriteString(string(e.Kind))
	b.WriteString(" [")
	b.WriteString(strings.Join(fields, ", "))
	b.WriteString("]")
	return b.String()
}
