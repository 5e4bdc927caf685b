package models

// Scope describes the subset of entities an actor may see or mutate. It is
// computed once per actor and applied as a query predicate on every list and
// by-id read path, so an out-of-scope fetch is indistinguishable from a fetch
// of a row that does not exist.
type Scope struct {
	all     bool
	tutorID int64
}

// ScopeAll is the privileged scope: no filtering.
func ScopeAll() Scope {
	return Scope{all: true}
}

// ScopeTutor restricts visibility to entities rooted at one tutor profile.
func ScopeTutor(tutorID int64) Scope {
	return Scope{tutorID: tutorID}
}

// ScopeNone is the fail-closed scope for actors with neither privilege nor a
// tutor profile: every read returns empty or not-found, never an error.
func ScopeNone() Scope {
	return Scope{}
}

// All reports whether the scope is unrestricted.
func (s Scope) All() bool {
	return s.all
}

// Tutor returns the owning tutor the scope is bound to, if any.
func (s Scope) Tutor() (int64, bool) {
	if s.all || s.tutorID == 0 {
		return 0, false
	}
	return s.tutorID, true
}

// None reports whether the scope admits nothing.
func (s Scope) None() bool {
	return !s.all && s.tutorID == 0
}
