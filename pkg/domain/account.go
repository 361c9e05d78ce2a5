package domain

import "time"

// Credentials identify the registrar account. They are built once per run and
// never logged: both String and GoString redact them.
type Credentials struct {
	// Identity is the account login (an e-mail address for DigitalPlat).
	Identity string
	// Secret is the account password.
	Secret string
}

// String implements fmt.Stringer without exposing the values.
func (c Credentials) String() string { return "Credentials{<redacted>}" }

// GoString implements fmt.GoStringer so %#v does not leak the values either.
func (c Credentials) GoString() string { return c.String() }

// Cookie is one browser cookie captured from an authenticated context.
type Cookie struct {
	Name     string `json:"name"`
	Value    string `json:"value"`
	Domain   string `json:"domain"`
	Path     string `json:"path"`
	Secure   bool   `json:"secure"`
	HTTPOnly bool   `json:"httpOnly"`
}

// SessionToken is the opaque set of artifacts that identify an authenticated
// portal session. The portal exposes no lifetime for it, so validity is only
// ever established by replaying it and probing the result.
type SessionToken struct {
	// Cookies is the cookie jar captured from the browser or HTTP client.
	Cookies []Cookie `json:"cookies"`
	// CapturedAt is when the token was captured.
	CapturedAt time.Time `json:"capturedAt"`
	// Source names the authentication strategy that produced the token.
	Source string `json:"source"`
}

// Empty reports whether the token carries no cookies.
func (t SessionToken) Empty() bool { return len(t.Cookies) == 0 }
