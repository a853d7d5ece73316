package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/vectra/vectra/engine-go/internal/geometry"
	"github.com/vectra/vectra/engine-go/internal/session"
)

const (
	wsWriteWait  = 10 * time.Second
	wsMaxMsgSize = 256 * 1024
)

// Frame message types.
const (
	frameTypeIndex = "index"
	frameTypeSnap  = "snap"
	frameTypeError = "error"
)

// wsFrame is one message on the drag stream. Clients send an "index" frame
// on pointer-down carrying the sibling rects, then one "snap" frame per
// pointer-move carrying five scalars; the server answers each snap frame
// with the corrected position and guides. No bulk data crosses per frame.
type wsFrame struct {
	Type      string               `json:"type"`
	Rects     []geometry.Rect      `json:"rects,omitempty"`
	X         float64              `json:"x,omitempty"`
	Y         float64              `json:"y,omitempty"`
	W         float64              `json:"w,omitempty"`
	H         float64              `json:"h,omitempty"`
	Result    *geometry.SnapResult `json:"result,omitempty"`
	Error     string               `json:"error,omitempty"`
	RequestID string               `json:"requestId,omitempty"`
}

// Origins returns the websocket origin patterns for the configured
// frontend origins.
func Origins(allowedOrigins string) []string {
	var patterns []string
	for _, o := range strings.Split(allowedOrigins, ",") {
		o = strings.TrimSpace(o)
		o = strings.TrimPrefix(o, "http://")
		o = strings.TrimPrefix(o, "https://")
		if o != "" {
			patterns = append(patterns, o)
		}
	}
	return patterns
}

// HandleDragSocket upgrades the request and runs the per-frame snap loop.
// The loop is synchronous by design: one frame in, one frame out, matching
// the single-caller contract of the engine core.
func (h *Handler) HandleDragSocket(originPatterns []string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := mux.Vars(r)["sessionId"]

		if sessionID != session.PlaygroundSessionID {
			token := r.URL.Query().Get("token")
			if token == "" {
				http.Error(w, "missing token", http.StatusUnauthorized)
				return
			}
			sub, err := h.tokens.Validate(token)
			if err != nil || sub != sessionID {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
		}

		st, ok := h.lookup(sessionID)
		if !ok {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: originPatterns,
		})
		if err != nil {
			slog.Error("websocket accept", "error", err)
			return
		}

		clientID := uuid.New().String()
		slog.Info("drag socket open", "session", sessionID, "client", clientID)
		h.dragLoop(r.Context(), conn, st, clientID)
	}
}

func (h *Handler) dragLoop(ctx context.Context, conn *websocket.Conn, st *sessionState, clientID string) {
	defer conn.Close(websocket.StatusNormalClosure, "")

	conn.SetReadLimit(wsMaxMsgSize)

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure ||
				websocket.CloseStatus(err) == websocket.StatusGoingAway {
				return
			}
			slog.Debug("drag socket read", "error", err, "client", clientID)
			return
		}

		var frame wsFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			h.writeFrame(ctx, conn, wsFrame{Type: frameTypeError, Error: "invalid frame"})
			continue
		}

		switch frame.Type {
		case frameTypeIndex:
			st.mu.Lock()
			st.editor.BeginDrag(frame.Rects)
			st.mu.Unlock()

		case frameTypeSnap:
			st.mu.Lock()
			result := st.editor.SnapTo(frame.X, frame.Y, frame.W, frame.H)
			st.mu.Unlock()
			h.writeFrame(ctx, conn, wsFrame{
				Type:      frameTypeSnap,
				Result:    &result,
				RequestID: frame.RequestID,
			})

		default:
			h.writeFrame(ctx, conn, wsFrame{Type: frameTypeError, Error: "unknown frame type: " + frame.Type})
		}
	}
}

func (h *Handler) writeFrame(ctx context.Context, conn *websocket.Conn, frame wsFrame) {
	data, err := json.Marshal(frame)
	if err != nil {
		slog.Error("marshal frame", "error", err)
		return
	}

	writeCtx, cancel := context.WithTimeout(ctx, wsWriteWait)
	defer cancel()
	if err := conn.Write(writeCtx, websocket.MessageText, data); err != nil {
		slog.Debug("drag socket write", "error", err)
	}
}
