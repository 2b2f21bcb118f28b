package audit

import "sync"

// Global audit writer. Disabled (NopWriter) until InitFile is called.
var (
	globalMu     sync.RWMutex
	globalWriter Writer = NopWriter{}
	enabled      bool
)

// InitFile enables global audit logging to the given JSONL file.
func InitFile(path string) error {
	w, err := NewFileWriter(path)
	if err != nil {
		return err
	}

	globalMu.Lock()
	defer globalMu.Unlock()
	globalWriter = w
	enabled = true
	return nil
}

// Enabled reports whether global audit logging is active.
func Enabled() bool {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return enabled
}

// Log writes an event to the global writer. Audit failure is surfaced as an
// error so callers can fail the audited operation.
func Log(event *Event) error {
	globalMu.RLock()
	w := globalWriter
	globalMu.RUnlock()
	return w.Write(event)
}

// Close closes the global writer and disables audit logging.
func Close() error {
	globalMu.Lock()
	defer globalMu.Unlock()

	err := globalWriter.Close()
	globalWriter = NopWriter{}
	enabled = false
	return err
}

// result converts a success flag to a Result.
func result(ok bool) Result {
	if ok {
		return ResultSuccess
	}
	return ResultFailure
}

// LogKeyGenerated records generation of new key material.
func LogKeyGenerated(keyID, typeURL, curveName, hkdfHash string, ok bool) error {
	event := NewEvent(EventKeyGenerated, result(ok)).
		WithObject(Object{Type: "key", KeyID: keyID, TypeURL: typeURL}).
		WithContext(Context{Curve: curveName, HKDFHash: hkdfHash})
	return Log(event)
}

// LogPublicKeyExported records projection of a public key out of stored
// private material.
func LogPublicKeyExported(keyID, typeURL string, ok bool) error {
	event := NewEvent(EventPublicKeyExported, result(ok)).
		WithObject(Object{Type: "key", KeyID: keyID, TypeURL: typeURL})
	return Log(event)
}

// LogKeyAccessed records a read of stored key material.
func LogKeyAccessed(keyID, typeURL, path string, ok bool) error {
	event := NewEvent(EventKeyAccessed, result(ok)).
		WithObject(Object{Type: "key", KeyID: keyID, TypeURL: typeURL, Path: path})
	return Log(event)
}

// LogKeysetSaved records persisting a keyset to disk.
func LogKeysetSaved(keyID, path string, encrypted, ok bool) error {
	event := NewEvent(EventKeysetSaved, result(ok)).
		WithObject(Object{Type: "keyset", KeyID: keyID, Path: path}).
		WithContext(Context{Encrypted: encrypted})
	return Log(event)
}

// LogAuthFailed records a failed authentication attempt (e.g. a wrong
// keyset passphrase).
func LogAuthFailed(path, reason string) error {
	event := NewEvent(EventAuthFailed, ResultFailure).
		WithObject(Object{Type: "keyset", Path: path}).
		WithContext(Context{Reason: reason})
	return Log(event)
}

// LogServerStarted records the API server coming up.
func LogServerStarted(address string) error {
	event := NewEvent(EventServerStarted, ResultSuccess).
		WithObject(Object{Type: "server"}).
		WithContext(Context{Address: address}).
		WithActor(Actor{Type: "system", ID: "hkms-server"})
	return Log(event)
}
