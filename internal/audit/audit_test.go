package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// =============================================================================
// Event Tests
// =============================================================================

func TestU_NewEvent_Creation(t *testing.T) {
	event := NewEvent(EventKeyGenerated, ResultSuccess)

	if event.EventType != EventKeyGenerated {
		t.Errorf("expected EventType=%s, got %s", EventKeyGenerated, event.EventType)
	}
	if event.Result != ResultSuccess {
		t.Errorf("expected Result=%s, got %s", ResultSuccess, event.Result)
	}
	if event.Timestamp == "" {
		t.Error("Timestamp should not be empty")
	}
	if event.Actor.Type != "user" {
		t.Errorf("expected Actor.Type=user, got %s", event.Actor.Type)
	}
}

func TestU_Event_Validate(t *testing.T) {
	tests := []struct {
		name    string
		event   *Event
		wantErr bool
	}{
		{
			name:    "[Unit] Validate: valid event",
			event:   NewEvent(EventKeyGenerated, ResultSuccess),
			wantErr: false,
		},
		{
			name: "[Unit] Validate: missing event_type",
			event: &Event{
				Timestamp: "2024-01-15T10:00:00Z",
				Actor:     Actor{Type: "user", ID: "admin"},
				Result:    ResultSuccess,
			},
			wantErr: true,
		},
		{
			name: "[Unit] Validate: missing result",
			event: &Event{
				EventType: EventKeyGenerated,
				Timestamp: "2024-01-15T10:00:00Z",
				Actor:     Actor{Type: "user", ID: "admin"},
			},
			wantErr: true,
		},
		{
			name: "[Unit] Validate: missing actor id",
			event: &Event{
				EventType: EventKeyAccessed,
				Timestamp: "2024-01-15T10:00:00Z",
				Actor:     Actor{Type: "user"},
				Result:    ResultSuccess,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.event.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestU_Event_CanonicalJSON(t *testing.T) {
	event := NewEvent(EventKeyGenerated, ResultSuccess).
		WithObject(Object{Type: "key", KeyID: "k1"})
	event.HashPrev = GenesisHash

	canonical, err := event.CanonicalJSON()
	if err != nil {
		t.Fatalf("CanonicalJSON() error = %v", err)
	}

	// Verify it doesn't contain the Hash field
	if strings.Contains(string(canonical), `"hash":`) {
		t.Error("CanonicalJSON should not contain hash field")
	}

	// Verify it's valid JSON
	var parsed map[string]interface{}
	if err := json.Unmarshal(canonical, &parsed); err != nil {
		t.Errorf("CanonicalJSON produced invalid JSON: %v", err)
	}
}

// =============================================================================
// FileWriter Tests
// =============================================================================

func TestU_FileWriter_Write(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "audit.jsonl")

	writer, err := NewFileWriter(logPath)
	if err != nil {
		t.Fatalf("NewFileWriter() error = %v", err)
	}
	defer func() { _ = writer.Close() }()

	// Write first event
	event1 := NewEvent(EventKeyGenerated, ResultSuccess).
		WithObject(Object{Type: "key", KeyID: "k1"})

	if err := writer.Write(event1); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	// Verify first event has genesis as prev hash
	if event1.HashPrev != GenesisHash {
		t.Errorf("First event HashPrev = %s, want %s", event1.HashPrev, GenesisHash)
	}
	if event1.Hash == "" {
		t.Error("First event Hash is empty")
	}

	// Second event chains from the first
	event2 := NewEvent(EventKeyAccessed, ResultSuccess).
		WithObject(Object{Type: "key", KeyID: "k1"})
	if err := writer.Write(event2); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if event2.HashPrev != event1.Hash {
		t.Errorf("Second event HashPrev = %s, want %s", event2.HashPrev, event1.Hash)
	}
	if writer.LastHash() != event2.Hash {
		t.Errorf("LastHash() = %s, want %s", writer.LastHash(), event2.Hash)
	}
}

func TestU_FileWriter_ResumesChain(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "audit.jsonl")

	writer1, err := NewFileWriter(logPath)
	if err != nil {
		t.Fatalf("NewFileWriter() error = %v", err)
	}
	event1 := NewEvent(EventKeyGenerated, ResultSuccess)
	if err := writer1.Write(event1); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := writer1.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	// Reopening continues from the stored last hash
	writer2, err := NewFileWriter(logPath)
	if err != nil {
		t.Fatalf("NewFileWriter() reopen error = %v", err)
	}
	defer func() { _ = writer2.Close() }()

	if writer2.LastHash() != event1.Hash {
		t.Errorf("LastHash() after reopen = %s, want %s", writer2.LastHash(), event1.Hash)
	}

	event2 := NewEvent(EventKeyAccessed, ResultSuccess)
	if err := writer2.Write(event2); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if event2.HashPrev != event1.Hash {
		t.Error("reopened writer did not chain from the existing log")
	}
}

func TestU_FileWriter_RejectsInvalidEvent(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "audit.jsonl")

	writer, err := NewFileWriter(logPath)
	if err != nil {
		t.Fatalf("NewFileWriter() error = %v", err)
	}
	defer func() { _ = writer.Close() }()

	invalid := NewEvent(EventKeyGenerated, ResultSuccess)
	invalid.Result = ""
	if err := writer.Write(invalid); err == nil {
		t.Error("Write() with invalid event should fail")
	}
}

// =============================================================================
// Chain Verification Tests
// =============================================================================

func TestU_VerifyChain_Valid(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "audit.jsonl")

	writer, err := NewFileWriter(logPath)
	if err != nil {
		t.Fatalf("NewFileWriter() error = %v", err)
	}
	for i := 0; i < 5; i++ {
		if err := writer.Write(NewEvent(EventKeyAccessed, ResultSuccess)); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	count, err := VerifyChain(logPath)
	if err != nil {
		t.Fatalf("VerifyChain() error = %v", err)
	}
	if count != 5 {
		t.Errorf("VerifyChain() count = %d, want 5", count)
	}
}

func TestU_VerifyChain_DetectsTampering(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "audit.jsonl")

	writer, err := NewFileWriter(logPath)
	if err != nil {
		t.Fatalf("NewFileWriter() error = %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := writer.Write(NewEvent(EventKeyAccessed, ResultSuccess)); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	// Flip a field in the first event without recomputing its hash
	raw, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	tampered := strings.Replace(string(raw), `"result":"success"`, `"result":"failure"`, 1)
	if tampered == string(raw) {
		t.Fatal("tampering had no effect on the log")
	}
	if err := os.WriteFile(logPath, []byte(tampered), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if _, err := VerifyChain(logPath); err == nil {
		t.Error("VerifyChain() should fail on tampered log")
	}
}

// =============================================================================
// NopWriter / MultiWriter Tests
// =============================================================================

func TestU_NopWriter(t *testing.T) {
	writer := NopWriter{}

	if err := writer.Write(NewEvent(EventKeyGenerated, ResultSuccess)); err != nil {
		t.Errorf("Write() error = %v", err)
	}
	if writer.LastHash() != GenesisHash {
		t.Errorf("LastHash() = %s, want %s", writer.LastHash(), GenesisHash)
	}
	if err := writer.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestU_MultiWriter(t *testing.T) {
	tmpDir := t.TempDir()
	pathA := filepath.Join(tmpDir, "a.jsonl")
	pathB := filepath.Join(tmpDir, "b.jsonl")

	writerA, err := NewFileWriter(pathA)
	if err != nil {
		t.Fatalf("NewFileWriter() error = %v", err)
	}
	writerB, err := NewFileWriter(pathB)
	if err != nil {
		t.Fatalf("NewFileWriter() error = %v", err)
	}

	multi := NewMultiWriter(writerA, writerB)
	if err := multi.Write(NewEvent(EventKeysetSaved, ResultSuccess)); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := multi.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	for _, path := range []string{pathA, pathB} {
		count, err := VerifyChain(path)
		if err != nil {
			t.Errorf("VerifyChain(%s) error = %v", path, err)
		}
		if count != 1 {
			t.Errorf("VerifyChain(%s) count = %d, want 1", path, count)
		}
	}
}

// =============================================================================
// Global Writer Tests
// =============================================================================

func TestU_Global_Lifecycle(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "audit.jsonl")

	if Enabled() {
		t.Fatal("Enabled() = true before InitFile")
	}
	if err := InitFile(logPath); err != nil {
		t.Fatalf("InitFile() error = %v", err)
	}
	if !Enabled() {
		t.Error("Enabled() = false after InitFile")
	}

	if err := LogKeyGenerated("k1", "keytype.test/Alpha", "p256", "sha256", true); err != nil {
		t.Errorf("LogKeyGenerated() error = %v", err)
	}
	if err := LogPublicKeyExported("k1", "keytype.test/Alpha", true); err != nil {
		t.Errorf("LogPublicKeyExported() error = %v", err)
	}
	if err := LogKeyAccessed("k1", "keytype.test/Alpha", "/tmp/key.hks", true); err != nil {
		t.Errorf("LogKeyAccessed() error = %v", err)
	}
	if err := LogKeysetSaved("k1", "/tmp/key.hks", true, true); err != nil {
		t.Errorf("LogKeysetSaved() error = %v", err)
	}
	if err := LogAuthFailed("/tmp/key.hks", "wrong passphrase"); err != nil {
		t.Errorf("LogAuthFailed() error = %v", err)
	}
	if err := LogServerStarted("127.0.0.1:8470"); err != nil {
		t.Errorf("LogServerStarted() error = %v", err)
	}

	if err := Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if Enabled() {
		t.Error("Enabled() = true after Close")
	}

	count, err := VerifyChain(logPath)
	if err != nil {
		t.Fatalf("VerifyChain() error = %v", err)
	}
	if count != 6 {
		t.Errorf("VerifyChain() count = %d, want 6", count)
	}

	raw, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	for _, want := range []EventType{
		EventKeyGenerated,
		EventPublicKeyExported,
		EventKeyAccessed,
		EventKeysetSaved,
		EventAuthFailed,
		EventServerStarted,
	} {
		if !strings.Contains(string(raw), string(want)) {
			t.Errorf("audit log missing %s event", want)
		}
	}
}
