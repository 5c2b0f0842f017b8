package domain

// AuthMethod describes how a caller authenticated with the API.
type AuthMethod string

const (
	AuthMethodJWT AuthMethod = "jwt"
)

// Principal captures normalized caller identity independent of auth mechanism.
type Principal struct {
	ID          string
	AuthMethod  AuthMethod
	Subject     string
	Issuer      string
	Username    string
	Email       string
	Name        string
	Credentials map[string]string
}
