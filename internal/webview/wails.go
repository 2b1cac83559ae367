package webview

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	wailsruntime "github.com/wailsapp/wails/v2/pkg/runtime"
)

// Runtime is the part of the Wails runtime the window host needs.
type Runtime interface {
	ExecJS(js string)
	On(event string, fn func(data ...any)) (off func())
}

type wailsRuntime struct {
	ctx context.Context
}

// NewRuntime adapts the Wails runtime bound to ctx.
func NewRuntime(ctx context.Context) Runtime {
	return wailsRuntime{ctx: ctx}
}

func (r wailsRuntime) ExecJS(js string) {
	wailsruntime.WindowExecJS(r.ctx, js)
}

func (r wailsRuntime) On(event string, fn func(data ...any)) func() {
	return wailsruntime.EventsOn(r.ctx, event, fn)
}

// WindowHost renders surfaces into the stats frame of the desktop window.
type WindowHost struct {
	*scriptHost
	offs []func()
}

// NewWindowHost creates a host driving the shell page loaded in the window.
func NewWindowHost(rt Runtime) *WindowHost {
	h := &WindowHost{}
	h.scriptHost = newScriptHost("WindowHost", func(cmd Command) error {
		payload, err := json.Marshal(cmd)
		if err != nil {
			return fmt.Errorf("encode %s command: %w", cmd.Op, err)
		}
		rt.ExecJS("window.deckstats.apply(" + string(payload) + ");")
		return nil
	})
	h.offs = append(h.offs,
		rt.On(EventEvalResult, func(data ...any) {
			res, err := decodeArg[EvalResult](data)
			if err != nil {
				log.Printf("[WindowHost] Bad eval result: %v", err)
				return
			}
			h.resolve(res)
		}),
		rt.On(EventBridge, func(data ...any) {
			cmd, err := decodeArg[string](data)
			if err != nil {
				log.Printf("[WindowHost] Bad bridge command: %v", err)
				return
			}
			h.bridgeCommand(cmd)
		}),
	)
	return h
}

// Close stops listening for shell events.
func (h *WindowHost) Close() {
	for _, off := range h.offs {
		if off != nil {
			off()
		}
	}
	h.offs = nil
}

// decodeArg converts the first event argument, which the runtime delivers as
// decoded JSON, into T.
func decodeArg[T any](data []any) (T, error) {
	var out T
	if len(data) == 0 {
		return out, fmt.Errorf("missing event data")
	}
	raw, err := json.Marshal(data[0])
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, err
	}
	return out, nil
}
