package domain

// State is the login session state.
//
// Transitions:
//
//	MethodUnselected  --select-->          MethodSelected
//	MethodSelected    --select(none)-->    MethodUnselected
//	MethodUnselected,
//	MethodSelected    --begin-->           AuthorizationPending
//	AuthorizationPending --success-->      Authenticated
//	AuthorizationPending --cancel/error--> MethodSelected
//	any               --phone continue-->  Authenticated
type State int

const (
	StateMethodUnselected State = iota
	StateMethodSelected
	StateAuthorizationPending
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateMethodUnselected:
		return "method_unselected"
	case StateMethodSelected:
		return "method_selected"
	case StateAuthorizationPending:
		return "authorization_pending"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}
