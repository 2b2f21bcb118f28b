// Package api provides the REST API for the key-management service:
// key generation, listing and public-key projection over HTTP.
package api

// APIError is the JSON error body returned by all endpoints.
type APIError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// KeyGenerateRequest asks for fresh key material.
type KeyGenerateRequest struct {
	Curve    string `json:"curve"`               // "p256", "p384", "p521", "x25519"
	HKDFHash string `json:"hkdf_hash,omitempty"` // "sha256" (default), "sha384", "sha512"
}

// PublicKeyInfo is the JSON projection of a public key.
type PublicKeyInfo struct {
	Curve string `json:"curve"`
	X     string `json:"x"` // base64url, big-endian
	Y     string `json:"y,omitempty"`
}

// KeyGenerateResponse returns the identifier of the stored private key and
// its public half. Private material never appears in responses.
type KeyGenerateResponse struct {
	ID        string        `json:"id"`
	TypeURL   string        `json:"type_url"`
	PublicKey PublicKeyInfo `json:"public_key"`
}

// KeyListEntry describes one stored key.
type KeyListEntry struct {
	ID           string `json:"id"`
	TypeURL      string `json:"type_url"`
	MaterialType string `json:"material_type"`
}

// KeyListResponse lists stored keys.
type KeyListResponse struct {
	Keys []KeyListEntry `json:"keys"`
}

// KeyDataResponse is the JSON form of a KeyData envelope. Only public
// envelopes are ever served.
type KeyDataResponse struct {
	TypeURL      string `json:"type_url"`
	Value        string `json:"value"` // base64url serialized key
	MaterialType string `json:"material_type"`
}
