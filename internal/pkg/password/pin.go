package password

// Transaction PINs are short numeric secrets. They are stored as bcrypt
// hashes like passwords; bcrypt comparison does not leak the match position,
// which covers the constant-time requirement for PIN checks. PINs must never
// appear in logs or error messages.

// IsValidPIN reports whether pin is exactly 4 decimal digits.
func IsValidPIN(pin string) bool {
	if len(pin) != 4 {
		return false
	}
	for _, c := range pin {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// HashPIN hashes a transaction PIN for storage.
func HashPIN(pin string) (string, error) {
	return Hash(pin)
}

// VerifyPIN compares a transaction PIN with its stored hash.
func VerifyPIN(pin, hash string) bool {
	return Verify(pin, hash)
}
