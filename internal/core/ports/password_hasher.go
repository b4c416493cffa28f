package ports

// PasswordHasher abstracts one-way salted password hashing. Hash produces a
// new salt on every call, so two hashes of the same plaintext never compare
// equal; Compare is the only way to check a plaintext against a stored hash.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Compare(hash, plaintext string) bool
}
