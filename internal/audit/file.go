package audit

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// GenesisHash is the HashPrev of the first event in a log.
const GenesisHash = "sha256:genesis"

// FileWriter writes audit events to a JSONL file with hash chaining.
type FileWriter struct {
	mu       sync.Mutex
	f        *os.File
	lastHash string
}

var _ Writer = (*FileWriter)(nil)

// NewFileWriter opens (or creates) the audit log at path. If the file
// already holds events, the chain continues from the last event's hash.
func NewFileWriter(path string) (*FileWriter, error) {
	last, err := lastHashInFile(path)
	if err != nil {
		return nil, err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}
	return &FileWriter{f: f, lastHash: last}, nil
}

// Write validates the event, extends the hash chain and appends the event
// as one JSON line, syncing to disk before returning.
func (w *FileWriter) Write(event *Event) error {
	if err := event.Validate(); err != nil {
		return fmt.Errorf("invalid audit event: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	event.HashPrev = w.lastHash
	hash, err := hashEvent(event)
	if err != nil {
		return err
	}
	event.Hash = hash

	line, err := event.JSON()
	if err != nil {
		return fmt.Errorf("failed to encode audit event: %w", err)
	}
	if _, err := w.f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("failed to write audit event: %w", err)
	}
	if err := w.f.Sync(); err != nil {
		return fmt.Errorf("failed to sync audit log: %w", err)
	}

	w.lastHash = event.Hash
	return nil
}

// Close closes the underlying file.
func (w *FileWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.f.Close()
}

// LastHash returns the hash of the last written event.
func (w *FileWriter) LastHash() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastHash
}

// hashEvent computes "sha256:<hex>" over the event's canonical JSON.
func hashEvent(event *Event) (string, error) {
	canonical, err := event.CanonicalJSON()
	if err != nil {
		return "", fmt.Errorf("failed to canonicalize audit event: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return "sha256:" + hex.EncodeToString(sum[:]), nil
}

// lastHashInFile returns the hash of the final event in an existing log,
// or GenesisHash if the file is missing or empty.
func lastHashInFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return GenesisHash, nil
		}
		return "", fmt.Errorf("failed to read audit log: %w", err)
	}
	defer func() { _ = f.Close() }()

	last := GenesisHash
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var event Event
		if err := json.Unmarshal(scanner.Bytes(), &event); err != nil {
			return "", fmt.Errorf("corrupted audit log line: %w", err)
		}
		last = event.Hash
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("failed to scan audit log: %w", err)
	}
	return last, nil
}

// VerifyChain verifies the hash chain of an audit log and returns the number
// of valid events. It fails on the first broken link or altered event.
func VerifyChain(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open audit log: %w", err)
	}
	defer func() { _ = f.Close() }()

	count := 0
	prev := GenesisHash
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var event Event
		if err := json.Unmarshal(scanner.Bytes(), &event); err != nil {
			return count, fmt.Errorf("event %d: invalid JSON: %w", count+1, err)
		}
		if event.HashPrev != prev {
			return count, fmt.Errorf("event %d: broken hash chain", count+1)
		}
		expected, err := hashEvent(&event)
		if err != nil {
			return count, err
		}
		if event.Hash != expected {
			return count, fmt.Errorf("event %d: hash mismatch", count+1)
		}
		prev = event.Hash
		count++
	}
	if err := scanner.Err(); err != nil {
		return count, fmt.Errorf("failed to scan audit log: %w", err)
	}
	return count, nil
}
