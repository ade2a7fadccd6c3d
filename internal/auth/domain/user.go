package domain

// User is a credential record: immutable at runtime, loaded once at process
// start. Password holds whatever form the configured verifier expects (raw
// for the seeded roster, a PHC argon2id hash for stored users).
type User struct {
	Username string
	Password string
	Role     Role
}
