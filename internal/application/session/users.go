package session

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// DemoPassword is the shared password of the demo operators
const DemoPassword = "password123"

// DemoUsers returns the built-in operator list
func DemoUsers() []User {
	return []User{
		{ID: "1", Name: "Admin User", Email: "admin@nbfc.com", Role: "admin"},
		{ID: "2", Name: "Manager User", Email: "manager@nbfc.com", Role: "manager"},
		{ID: "3", Name: "Staff User", Email: "staff@nbfc.com", Role: "staff"},
	}
}

// PasswordChecker verifies a login password
type PasswordChecker interface {
	Check(password string) bool
}

// BcryptChecker compares passwords against a bcrypt hash
type BcryptChecker struct {
	Hash []byte
}

// Check reports whether password matches the hash
func (c BcryptChecker) Check(password string) bool {
	return bcrypt.CompareHashAndPassword(c.Hash, []byte(password)) == nil
}

var demoHash = sync.OnceValue(func() []byte {
	h, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return h
})

// DemoPasswordChecker accepts DemoPassword
func DemoPasswordChecker() PasswordChecker {
	return BcryptChecker{Hash: demoHash()}
}
