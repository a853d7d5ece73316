// Package api exposes the editing engine over HTTP and websocket. One
// Handler owns all live sessions; each session wraps an engine.Editor. The
// engine core is single-goroutine, so the handler serializes access per
// session with a mutex and keeps all concurrency at this boundary.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/mux"

	"github.com/vectra/vectra/engine-go/internal/compiler"
	"github.com/vectra/vectra/engine-go/internal/document"
	"github.com/vectra/vectra/engine-go/internal/engine"
	"github.com/vectra/vectra/engine-go/internal/geometry"
	"github.com/vectra/vectra/engine-go/internal/history"
	"github.com/vectra/vectra/engine-go/internal/layout"
	"github.com/vectra/vectra/engine-go/internal/session"
)

const maxBodySize = 16 << 20 // 16MB: full document snapshots pass through here

type sessionState struct {
	mu     sync.Mutex
	editor *engine.Editor
}

type Handler struct {
	sessions map[string]*sessionState
	mu       sync.RWMutex

	tokens          *session.Service
	historyCapacity int
	snapThreshold   float64
}

func NewHandler(tokens *session.Service, historyCapacity int, snapThreshold float64) *Handler {
	return &Handler{
		sessions:        make(map[string]*sessionState),
		tokens:          tokens,
		historyCapacity: historyCapacity,
		snapThreshold:   snapThreshold,
	}
}

type createSessionRequest struct {
	Document json.RawMessage `json:"document"`
}

type createSessionResponse struct {
	SessionID string `json:"sessionId"`
	Token     string `json:"token"`
}

// CreateSession starts a new editing session from an initial document
// payload and returns its id plus a bearer token.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeBody(w, r, &req); err != nil {
		return
	}
	if len(req.Document) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "document is required"})
		return
	}

	ed, err := engine.NewEditor(req.Document, history.WithCapacity(h.historyCapacity))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	ed.SetSnapThreshold(h.snapThreshold)

	sessionID, token, err := h.tokens.Create()
	if err != nil {
		slog.Error("create session token", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	h.mu.Lock()
	h.sessions[sessionID] = &sessionState{editor: ed}
	h.mu.Unlock()

	writeJSON(w, http.StatusCreated, createSessionResponse{SessionID: sessionID, Token: token})
}

type buildIndexRequest struct {
	Rects []geometry.Rect `json:"rects"`
}

// BuildIndex rebuilds the session's snap index from the sibling rect set.
// Called on pointer-down, once per drag interaction.
func (h *Handler) BuildIndex(w http.ResponseWriter, r *http.Request) {
	st, ok := h.authorize(w, r)
	if !ok {
		return
	}

	var req buildIndexRequest
	if err := decodeBody(w, r, &req); err != nil {
		return
	}

	st.mu.Lock()
	st.editor.BeginDrag(req.Rects)
	st.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type snapQueryRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// SnapQuery answers one pointer-move frame.
func (h *Handler) SnapQuery(w http.ResponseWriter, r *http.Request) {
	st, ok := h.authorize(w, r)
	if !ok {
		return
	}

	var req snapQueryRequest
	if err := decodeBody(w, r, &req); err != nil {
		return
	}

	st.mu.Lock()
	result := st.editor.SnapTo(req.X, req.Y, req.W, req.H)
	st.mu.Unlock()

	writeJSON(w, http.StatusOK, result)
}

type gridConvertRequest struct {
	Nodes       []layout.GridInputNode `json:"nodes"`
	CanvasWidth float64                `json:"canvasWidth"`
}

// GridConvert maps an absolutely-positioned arrangement to a CSS grid
// descriptor.
func (h *Handler) GridConvert(w http.ResponseWriter, r *http.Request) {
	st, ok := h.authorize(w, r)
	if !ok {
		return
	}

	var req gridConvertRequest
	if err := decodeBody(w, r, &req); err != nil {
		return
	}

	st.mu.Lock()
	result, err := st.editor.ConvertToGrid(req.Nodes, req.CanvasWidth)
	st.mu.Unlock()

	if err != nil {
		if errors.Is(err, layout.ErrEmptyInput) || errors.Is(err, layout.ErrDegenerateLayout) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
			return
		}
		slog.Error("grid convert failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

type commitRequest struct {
	State json.RawMessage `json:"state,omitempty"`
}

// Commit records an edit boundary: an optional replacement document payload
// is loaded first, then the current state is pushed into history.
func (h *Handler) Commit(w http.ResponseWriter, r *http.Request) {
	st, ok := h.authorize(w, r)
	if !ok {
		return
	}

	var req commitRequest
	if err := decodeBody(w, r, &req); err != nil {
		return
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	if len(req.State) > 0 {
		if err := st.editor.LoadDocument(req.State); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
	}
	if err := st.editor.Commit(); err != nil {
		slog.Error("commit failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, h.historyStatusLocked(st))
}

type historyStepResponse struct {
	State   json.RawMessage `json:"state,omitempty"`
	Applied bool            `json:"applied"`
	CanUndo bool            `json:"canUndo"`
	CanRedo bool            `json:"canRedo"`
}

// Undo steps the session back one state. Stepping past the beginning is a
// no-op, reported with applied=false.
func (h *Handler) Undo(w http.ResponseWriter, r *http.Request) {
	h.historyStep(w, r, func(ed *engine.Editor) ([]byte, bool, error) { return ed.Undo() })
}

// Redo steps the session forward one state.
func (h *Handler) Redo(w http.ResponseWriter, r *http.Request) {
	h.historyStep(w, r, func(ed *engine.Editor) ([]byte, bool, error) { return ed.Redo() })
}

func (h *Handler) historyStep(w http.ResponseWriter, r *http.Request, step func(*engine.Editor) ([]byte, bool, error)) {
	st, ok := h.authorize(w, r)
	if !ok {
		return
	}

	st.mu.Lock()
	state, applied, err := step(st.editor)
	resp := historyStepResponse{
		State:   state,
		Applied: applied,
		CanUndo: st.editor.CanUndo(),
		CanRedo: st.editor.CanRedo(),
	}
	st.mu.Unlock()

	if err != nil {
		// Decompression failure of a store-owned entry: fatal, not recoverable.
		slog.Error("history step failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "history corrupted"})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

type historyStatusResponse struct {
	CanUndo     bool `json:"canUndo"`
	CanRedo     bool `json:"canRedo"`
	MemoryUsage int  `json:"memoryUsage"`
}

// HistoryStatus reports cursor bounds and the compressed footprint.
func (h *Handler) HistoryStatus(w http.ResponseWriter, r *http.Request) {
	st, ok := h.authorize(w, r)
	if !ok {
		return
	}

	st.mu.Lock()
	resp := h.historyStatusLocked(st)
	st.mu.Unlock()

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) historyStatusLocked(st *sessionState) historyStatusResponse {
	return historyStatusResponse{
		CanUndo:     st.editor.CanUndo(),
		CanRedo:     st.editor.CanRedo(),
		MemoryUsage: st.editor.HistoryMemoryUsage(),
	}
}

// DeleteNode removes a node and its subtree from the session document.
func (h *Handler) DeleteNode(w http.ResponseWriter, r *http.Request) {
	st, ok := h.authorize(w, r)
	if !ok {
		return
	}

	nodeID := mux.Vars(r)["nodeId"]

	st.mu.Lock()
	st.editor.DeleteNode(nodeID)
	st.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type instantiateRequest struct {
	Template document.Tree `json:"template"`
	RootID   string        `json:"rootId"`
}

type instantiateResponse struct {
	RootID string `json:"rootId"`
}

// Instantiate clones a template subtree into the session document with
// fresh element ids.
func (h *Handler) Instantiate(w http.ResponseWriter, r *http.Request) {
	st, ok := h.authorize(w, r)
	if !ok {
		return
	}

	var req instantiateRequest
	if err := decodeBody(w, r, &req); err != nil {
		return
	}
	if len(req.Template) == 0 || req.RootID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "template and rootId are required"})
		return
	}

	st.mu.Lock()
	newRoot := st.editor.InstantiateTemplate(req.Template, req.RootID)
	st.mu.Unlock()

	writeJSON(w, http.StatusOK, instantiateResponse{RootID: newRoot})
}

type exportResponse struct {
	Source string `json:"source"`
}

// ExportReact renders the session document as React component source.
func (h *Handler) ExportReact(w http.ResponseWriter, r *http.Request) {
	st, ok := h.authorize(w, r)
	if !ok {
		return
	}

	st.mu.Lock()
	source, err := st.editor.ExportReact()
	st.mu.Unlock()

	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, exportResponse{Source: source})
}

type compileRequest struct {
	Source string `json:"source"`
}

type compileResponse struct {
	Code string `json:"code"`
}

// Compile transforms TSX component source to plain JS. Stateless: no
// session required.
func (h *Handler) Compile(w http.ResponseWriter, r *http.Request) {
	var req compileRequest
	if err := decodeBody(w, r, &req); err != nil {
		return
	}

	code, err := compiler.Compile(req.Source)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, compileResponse{Code: code})
}

// authorize resolves the session from the URL and checks the bearer token.
// The playground session is open to anonymous callers.
func (h *Handler) authorize(w http.ResponseWriter, r *http.Request) (*sessionState, bool) {
	sessionID := mux.Vars(r)["sessionId"]

	if sessionID != session.PlaygroundSessionID {
		token := bearerToken(r)
		if token == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing token"})
			return nil, false
		}
		sub, err := h.tokens.Validate(token)
		if err != nil || sub != sessionID {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
			return nil, false
		}
	}

	st, ok := h.lookup(sessionID)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return nil, false
	}
	return st, true
}

func (h *Handler) lookup(sessionID string) (*sessionState, bool) {
	h.mu.RLock()
	st, ok := h.sessions[sessionID]
	h.mu.RUnlock()
	if !ok && sessionID == session.PlaygroundSessionID {
		st = h.createPlayground()
		ok = st != nil
	}
	return st, ok
}

// createPlayground lazily starts the anonymous playground session with the
// built-in sample document.
func (h *Handler) createPlayground() *sessionState {
	tree, root := document.NewSampleTree()
	data, err := json.Marshal(engine.Document{Root: root, Nodes: tree})
	if err != nil {
		slog.Error("marshal sample document", "error", err)
		return nil
	}

	ed, err := engine.NewEditor(data, history.WithCapacity(h.historyCapacity))
	if err != nil {
		slog.Error("create playground session", "error", err)
		return nil
	}
	ed.SetSnapThreshold(h.snapThreshold)

	h.mu.Lock()
	defer h.mu.Unlock()
	if existing, ok := h.sessions[session.PlaygroundSessionID]; ok {
		return existing
	}
	st := &sessionState{editor: ed}
	h.sessions[session.PlaygroundSessionID] = st
	return st
}

func bearerToken(r *http.Request) string {
	const prefix = "Bearer "
	auth := r.Header.Get("Authorization")
	if len(auth) > len(prefix) && auth[:len(prefix)] == prefix {
		return auth[len(prefix):]
	}
	return r.URL.Query().Get("token")
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}
