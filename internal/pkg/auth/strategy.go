package auth

import "time"

// Claims is the identity encoded into an auth token.
type Claims struct {
	Subject int64
	Role    string
}

type Strategy interface {
	IssueToken(claims Claims) (string, error)
	ParseToken(token string) (Claims, error)
	Name() string
}

type Options struct {
	TTL time.Duration
}
