package domain

// Access is a user's resolved authorization view: the names of the
// assigned roles and the effective permission set, the union of every
// permission reachable from any of those roles. A permission grants
// regardless of which role contributed it.
type Access struct {
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
}

// Allows reports whether the effective permission set contains name.
func (a *Access) Allows(name string) bool {
	for _, p := range a.Permissions {
		if p == name {
			return true
		}
	}
	return false
}
