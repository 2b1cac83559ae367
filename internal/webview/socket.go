package webview

import (
	"encoding/json"
	"log"

	"github.com/ramonehamilton/deckstats/internal/server/websocket"
)

// SocketHost renders surfaces into browser shells connected to hub.
type SocketHost struct {
	*scriptHost
	hub *websocket.Hub
}

// NewSocketHost creates a host broadcasting commands to every shell on hub.
// It takes over the hub's message handler.
func NewSocketHost(hub *websocket.Hub) *SocketHost {
	h := &SocketHost{hub: hub}
	h.scriptHost = newScriptHost("SocketHost", func(cmd Command) error {
		if hub.ClientCount() == 0 {
			log.Printf("[SocketHost] No shell connected for %s", cmd.Op)
		}
		if !hub.BroadcastEvent(websocket.Event{Type: EventCommand, Data: cmd}) {
			return ErrNoShell
		}
		return nil
	})
	hub.OnMessage(h.handle)
	return h
}

func (h *SocketHost) handle(msg websocket.Inbound) {
	switch msg.Type {
	case EventEvalResult:
		var res EvalResult
		if err := json.Unmarshal(msg.Data, &res); err != nil {
			log.Printf("[SocketHost] Bad eval result: %v", err)
			return
		}
		h.resolve(res)
	case EventBridge:
		var cmd string
		if err := json.Unmarshal(msg.Data, &cmd); err != nil {
			log.Printf("[SocketHost] Bad bridge command: %v", err)
			return
		}
		h.bridgeCommand(cmd)
	default:
		log.Printf("[SocketHost] Ignoring %s message", msg.Type)
	}
}
