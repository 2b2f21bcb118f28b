package keyset

import "os"

// ResolvePassphrase resolves a passphrase that may be "env:VAR_NAME".
// An empty input resolves to nil (no encryption).
func ResolvePassphrase(passphrase string) []byte {
	if passphrase == "" {
		return nil
	}
	if len(passphrase) > 4 && passphrase[:4] == "env:" {
		return []byte(os.Getenv(passphrase[4:]))
	}
	return []byte(passphrase)
}
