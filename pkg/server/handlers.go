// Copyright 2025 Certen Protocol
//
// Read-only HTTP introspection API: query handlers over the gateway and
// ITS engines' persistent records, grounded in the teacher's
// pkg/server/ledger_handlers.go (stdlib net/http + encoding/json, JSON
// error bodies, query-parameter parsing with strconv).
package server

import (
	"encoding/hex"
	"encoding/json"
	"net/http"

	"github.com/axelar-network/axelar-solana-core/pkg/address"
	"github.com/axelar-network/axelar-solana-core/pkg/gateway"
	"github.com/axelar-network/axelar-solana-core/pkg/its"
	"github.com/axelar-network/axelar-solana-core/pkg/store"
)

// Handlers provides HTTP handlers for gateway and ITS read queries.
type Handlers struct {
	st      *store.Store
	itsRoot address.Address
	cfg     *gateway.RootConfig
}

// NewHandlers constructs introspection handlers over a store handle, the
// ITS root address, and the live root configuration.
func NewHandlers(st *store.Store, itsRoot address.Address, cfg *gateway.RootConfig) *Handlers {
	return &Handlers{st: st, itsRoot: itsRoot, cfg: cfg}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to encode response: "+err.Error())
	}
}

// HandleIncomingMessage handles GET /api/messages?command_id=<hex>.
func (h *Handlers) HandleIncomingMessage(w http.ResponseWriter, r *http.Request) {
	commandIDHex := r.URL.Query().Get("command_id")
	if commandIDHex == "" {
		writeError(w, http.StatusBadRequest, "missing command_id query parameter")
		return
	}
	raw, err := hex.DecodeString(commandIDHex)
	if err != nil || len(raw) != 32 {
		writeError(w, http.StatusBadRequest, "command_id must be 32 bytes hex-encoded")
		return
	}
	var commandID [32]byte
	copy(commandID[:], raw)

	key := store.IncomingMessageKey(commandID[:])
	data, err := h.st.Get(key)
	if err == store.ErrNotFound {
		writeError(w, http.StatusNotFound, "incoming message not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load incoming message: "+err.Error())
		return
	}
	msg, err := gateway.DecodeIncomingMessage(data)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to decode incoming message: "+err.Error())
		return
	}
	writeJSON(w, msg)
}

// HandleRootConfig handles GET /api/root-config.
func (h *Handlers) HandleRootConfig(w http.ResponseWriter, r *http.Request) {
	if h.cfg == nil {
		writeError(w, http.StatusInternalServerError, "root configuration not available")
		return
	}
	writeJSON(w, h.cfg)
}

// HandleTokenManager handles GET /api/token-manager?token_id=<hex>.
func (h *Handlers) HandleTokenManager(w http.ResponseWriter, r *http.Request) {
	tokenIDHex := r.URL.Query().Get("token_id")
	if tokenIDHex == "" {
		writeError(w, http.StatusBadRequest, "missing token_id query parameter")
		return
	}
	raw, err := hex.DecodeString(tokenIDHex)
	if err != nil || len(raw) != 32 {
		writeError(w, http.StatusBadRequest, "token_id must be 32 bytes hex-encoded")
		return
	}
	var tokenID [32]byte
	copy(tokenID[:], raw)

	tm, err := its.LoadTokenManager(h.st, h.itsRoot, tokenID)
	if err == store.ErrNotFound {
		writeError(w, http.StatusNotFound, "token manager not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load token manager: "+err.Error())
		return
	}
	writeJSON(w, tm)
}

// Mux builds the http.ServeMux wiring every read-only route.
func (h *Handlers) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/messages", h.HandleIncomingMessage)
	mux.HandleFunc("/api/root-config", h.HandleRootConfig)
	mux.HandleFunc("/api/token-manager", h.HandleTokenManager)
	return mux
}
