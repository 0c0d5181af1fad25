// Package guard is the navigation policy over auth state. It decides, for a
// given route and session state, whether to proceed, wait, or send the user
// somewhere else, acting as the client-side counterpart of role middleware.
package guard

// State is the resolved auth state at decision time.
type State int

const (
	// StateLoading means session restoration has not finished; no redirect
	// decision may be made yet.
	StateLoading State = iota
	StateAnonymous
	StateUser
	StateAdmin
)

// Access classifies what a route demands.
type Access int

const (
	// AccessPublic routes are reachable signed out. Login entry routes
	// additionally bounce authenticated visitors to their home.
	AccessPublic Access = iota
	// AccessAuthenticated routes accept any signed-in role.
	AccessAuthenticated
	AccessUserOnly
	AccessAdminOnly
)

// Route homes.
const (
	LoginRoute = "/login"
	UserHome   = "/"
	AdminHome  = "/admin"
)

// Kind is the category of a guard decision.
type Kind int

const (
	Allow Kind = iota
	// Wait renders a placeholder and defers the decision.
	Wait
	Redirect
)

// Decision is the guard's verdict. Target is set only for redirects.
type Decision struct {
	Kind   Kind
	Target string
}

func allow() Decision             { return Decision{Kind: Allow} }
func wait() Decision              { return Decision{Kind: Wait} }
func redirect(to string) Decision { return Decision{Kind: Redirect, Target: to} }

// Home returns the landing route for a state.
func Home(state State) string {
	if state == StateAdmin {
		return AdminHome
	}
	return UserHome
}

// Resolve applies the guard rules for a route with the given access class.
func Resolve(state State, access Access) Decision {
	if state == StateLoading {
		return wait()
	}
	switch access {
	case AccessPublic:
		return allow()
	case AccessAuthenticated:
		if state == StateAnonymous {
			return redirect(LoginRoute)
		}
		return allow()
	case AccessUserOnly:
		switch state {
		case StateAnonymous:
			return redirect(LoginRoute)
		case StateAdmin:
			return redirect(AdminHome)
		}
		return allow()
	case AccessAdminOnly:
		switch state {
		case StateAnonymous:
			return redirect(LoginRoute)
		case StateUser:
			return redirect(UserHome)
		}
		return allow()
	}
	return allow()
}

// routes maps known paths to their access class.
var routes = map[string]Access{
	LoginRoute:     AccessPublic,
	"/login/admin": AccessPublic,
	"/login/user":  AccessPublic,
	"/settings":    AccessAuthenticated,
	UserHome:       AccessUserOnly,
	"/upload":      AccessUserOnly,
	"/questions":   AccessUserOnly,
	"/generate":    AccessUserOnly,
	"/paper":       AccessUserOnly,
	AdminHome:      AccessAdminOnly,
	"/admin/users": AccessAdminOnly,
}

// loginEntries bounce already-authenticated visitors to their home instead
// of showing a signin form again.
var loginEntries = map[string]bool{
	LoginRoute:     true,
	"/login/admin": true,
	"/login/user":  true,
}

// ResolvePath decides for a concrete path. Unknown paths redirect to the
// role-appropriate home (anonymous visitors end up at login).
func ResolvePath(state State, path string) Decision {
	if state == StateLoading {
		return wait()
	}
	access, known := routes[path]
	if !known {
		if state == StateAnonymous {
			return redirect(LoginRoute)
		}
		return redirect(Home(state))
	}
	if loginEntries[path] && (state == StateUser || state == StateAdmin) {
		return redirect(Home(state))
	}
	return Resolve(state, access)
}
