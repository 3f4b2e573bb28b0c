// Package auth implements session establishment and token handling.
//
// Sessions arrive through one of three methods (BankID, OIDC, or the
// development login) and are normalized into a single Identity before a
// token is issued. Handlers downstream never see method-specific fields.
package auth

import (
	"fmt"
	"strings"
)

// Authentication methods
const (
	MethodBankID = "bankid"
	MethodOIDC   = "oidc"
	MethodDev    = "dev"
)

// Identity is the canonical result of any successful authentication.
type Identity struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Method string `json:"method"`
}

// Session is one of BankIDSession, OIDCSession or DevSession.
type Session interface {
	// Identity normalizes the session into the canonical form.
	Identity() (Identity, error)
	// Method returns the authentication method name.
	Method() string
}

// BankIDSession carries the fields returned by a completed BankID flow.
type BankIDSession struct {
	PersonalRef string `json:"personal_ref"`
	Name        string `json:"name"`
}

func (s BankIDSession) Method() string { return MethodBankID }

func (s BankIDSession) Identity() (Identity, error) {
	if s.PersonalRef == "" {
		return Identity{}, fmt.Errorf("bankid session missing personal reference")
	}
	return Identity{
		UserID: "bankid:" + s.PersonalRef,
		Name:   s.Name,
		Method: MethodBankID,
	}, nil
}

// OIDCSession carries the subject claims from an external OIDC provider.
type OIDCSession struct {
	Issuer  string `json:"issuer"`
	Subject string `json:"subject"`
	Name    string `json:"name"`
	Email   string `json:"email"`
}

func (s OIDCSession) Method() string { return MethodOIDC }

func (s OIDCSession) Identity() (Identity, error) {
	if s.Issuer == "" || s.Subject == "" {
		return Identity{}, fmt.Errorf("oidc session missing issuer or subject")
	}
	name := s.Name
	if name == "" {
		name = s.Email
	}
	return Identity{
		UserID: "oidc:" + hostOf(s.Issuer) + ":" + s.Subject,
		Name:   name,
		Method: MethodOIDC,
	}, nil
}

// DevSession is the username/password login used outside production.
type DevSession struct {
	Username string `json:"username"`
	Name     string `json:"name"`
}

func (s DevSession) Method() string { return MethodDev }

func (s DevSession) Identity() (Identity, error) {
	if s.Username == "" {
		return Identity{}, fmt.Errorf("dev session missing username")
	}
	return Identity{
		UserID: "dev:" + strings.ToLower(s.Username),
		Name:   s.Name,
		Method: MethodDev,
	}, nil
}

// hostOf strips the scheme from an issuer URL for use in a user ID.
func hostOf(issuer string) string {
	h := strings.TrimPrefix(issuer, "https://")
	h = strings.TrimPrefix(h, "http://")
	return strings.TrimSuffix(h, "/")
}
