package domain

import "sort"

// Google People API scopes used by contact operations.
const (
	// ScopeContactsReadonly grants read access to contacts.
	ScopeContactsReadonly = "https://www.googleapis.com/auth/contacts.readonly"
	// ScopeContacts grants full read/write access to contacts.
	ScopeContacts = "https://www.googleapis.com/auth/contacts"
	// ScopeUserinfoEmail grants access to the account's email address,
	// which serves as the account identity.
	ScopeUserinfoEmail = "https://www.googleapis.com/auth/userinfo.email"
)

// ReadScopes is the minimal scope set for read-only contact operations.
var ReadScopes = []string{ScopeContactsReadonly}

// WriteScopes is the minimal scope set for mutating contact operations.
var WriteScopes = []string{ScopeContacts}

// DefaultScopes is the set requested on first authorization.
var DefaultScopes = []string{ScopeContacts, ScopeUserinfoEmail}

// MissingScopes returns the required scopes not present in granted.
// Comparison is verbatim string equality; there is no prefix or
// hierarchy matching.
func MissingScopes(granted, required []string) []string {
	have := make(map[string]struct{}, len(granted))
	for _, s := range granted {
		have[s] = struct{}{}
	}

	var missing []string
	for _, s := range required {
		if _, ok := have[s]; !ok {
			missing = append(missing, s)
		}
	}
	return missing
}

// HasScopes reports whether granted is a superset of required.
func HasScopes(granted, required []string) bool {
	return len(MissingScopes(granted, required)) == 0
}

// UnionScopes returns the sorted union of two scope sets. Used to build
// reauthorization URLs that are additive, never scope-reducing.
func UnionScopes(a, b []string) []string {
	set := make(map[string]struct{}, len(a)+len(b))
	for _, s := range a {
		set[s] = struct{}{}
	}
	for _, s := range b {
		set[s] = struct{}{}
	}

	union := make([]string, 0, len(set))
	for s := range set {
		union = append(union, s)
	}
	sort.Strings(union)
	return union
}
