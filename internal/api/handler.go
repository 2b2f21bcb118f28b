package api

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cipherworks/hybrid-kms/internal/ecies"
)

// KeyHandler handles key-related HTTP requests.
type KeyHandler struct {
	svc *KeyService
}

// NewKeyHandler creates a new KeyHandler.
func NewKeyHandler(svc *KeyService) *KeyHandler {
	return &KeyHandler{svc: svc}
}

// Generate handles POST /api/v1/keys/generate
func (h *KeyHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req KeyGenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, &APIError{
			Code:    CodeInvalidRequest,
			Message: "Invalid JSON request body",
		})
		return
	}

	id, pub, err := h.svc.Generate(req.Curve, req.HKDFHash)
	if err != nil {
		respondMappedError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, KeyGenerateResponse{
		ID:        id,
		TypeURL:   ecies.PrivateKeyTypeURL,
		PublicKey: publicKeyInfo(pub),
	})
}

// List handles GET /api/v1/keys
func (h *KeyHandler) List(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, KeyListResponse{Keys: h.svc.List()})
}

// Public handles GET /api/v1/keys/{id}/public
func (h *KeyHandler) Public(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	kd, err := h.svc.Public(id)
	if err != nil {
		respondMappedError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, KeyDataResponse{
		TypeURL:      kd.TypeURL,
		Value:        base64.RawURLEncoding.EncodeToString(kd.Value),
		MaterialType: kd.MaterialType.String(),
	})
}

// publicKeyInfo converts a public key to its JSON projection.
func publicKeyInfo(pub *ecies.PublicKey) PublicKeyInfo {
	info := PublicKeyInfo{
		Curve: pub.Params.KEM.Curve.String(),
		X:     base64.RawURLEncoding.EncodeToString(pub.X),
	}
	if len(pub.Y) > 0 {
		info.Y = base64.RawURLEncoding.EncodeToString(pub.Y)
	}
	return info
}

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	version string
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{version: version}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": h.version,
	})
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
