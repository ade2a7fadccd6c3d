package domain

// Role is a coarse authorization tag checked for exact equality by protected
// endpoints. There is no hierarchy between roles.
type Role string

const (
	RoleTrainer Role = "trainer"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleTrainer, RoleAdmin:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }
