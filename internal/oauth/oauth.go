// Package oauth holds the provider-neutral pieces of the social login
// handshake.
package oauth

// Attributes are the verified user attributes returned by a provider after a
// successful authorization-code exchange. Picture may be empty.
type Attributes struct {
	Email   string
	Name    string
	Picture string
	Subject string
}
