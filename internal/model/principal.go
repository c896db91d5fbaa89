package model

type PrincipalKind string

const (
	PrincipalUser      PrincipalKind = "USER"
	PrincipalAnonymous PrincipalKind = "ANONYMOUS"
)

// Principal identifies who owns the cart a request works on.
type Principal struct {
	Kind    PrincipalKind
	Subject string
}

func (p Principal) IsAnonymous() bool {
	return p.Kind == PrincipalAnonymous
}

// Owner is the session key of the principal.
func (p Principal) Owner() string {
	if p.IsAnonymous() {
		return "anon:" + p.Subject
	}
	return "user:" + p.Subject
}
