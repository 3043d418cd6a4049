// Package response holds the envelope every business endpoint answers with.
package response

import "net/http"

// Envelope is the uniform response wrapper.
//
// Status travels at the transport level only; the JSON body is
// {"message": "...", "data": ...} with data omitted unless set.
type Envelope struct {
	Status  int    `json:"-"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// New returns an envelope with status 200 and no data.
func New() *Envelope {
	return &Envelope{Status: http.StatusOK}
}

// Fail sets status and message in one step.
func (e *Envelope) Fail(status int, message string) *Envelope {
	e.Status = status
	e.Message = message
	return e
}

// Succeed sets the message and data of a 200 response.
func (e *Envelope) Succeed(message string, data any) *Envelope {
	e.Status = http.StatusOK
	e.Message = message
	e.Data = data
	return e
}

// IsSuccess reports whether the envelope carries a 2xx status.
func (e *Envelope) IsSuccess() bool {
	return e.Status >= 200 && e.Status < 300
}
