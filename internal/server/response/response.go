// Package response writes the JSON bodies of the stats API.
package response

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

// Envelope wraps successful payloads.
type Envelope struct {
	Data any `json:"data"`
}

// Problem is the body of every failed request. Kind lets the shell tell
// apart failures that share a status, e.g. "closed" and "not-initialized".
type Problem struct {
	Status    int    `json:"status"`
	Error     string `json:"error"`
	Message   string `json:"message"`
	Kind      string `json:"kind,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

// Problem kinds.
const (
	KindBadRequest        = "bad-request"
	KindClosed            = "closed"
	KindNotInitialized    = "not-initialized"
	KindInvalidTransition = "invalid-transition"
	KindUnsupported       = "unsupported"
	KindInternal          = "internal"
)

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[Response] Encode %T: %v", v, err)
	}
}

// Data writes a 200 with data in the envelope.
func Data(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, Envelope{Data: data})
}

// Done writes a 204 for commands that return nothing.
func Done(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Fail writes a Problem. The request id set by chi's RequestID middleware is
// echoed so a failure can be matched with the server log.
func Fail(w http.ResponseWriter, r *http.Request, status int, kind string, err error) {
	p := Problem{
		Status:    status,
		Error:     http.StatusText(status),
		Message:   err.Error(),
		Kind:      kind,
		RequestID: middleware.GetReqID(r.Context()),
	}
	if status >= http.StatusInternalServerError {
		log.Printf("[Response] %s %s failed (%s): %v", r.Method, r.URL.Path, p.RequestID, err)
	}
	JSON(w, status, p)
}

// BadRequest writes a 400 for an unreadable request.
func BadRequest(w http.ResponseWriter, r *http.Request, err error) {
	Fail(w, r, http.StatusBadRequest, KindBadRequest, err)
}
