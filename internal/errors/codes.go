// Package errors provides the classified error codes shared by the room
// service and its clients.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
)

// Code is a machine-readable error code. Codes cross the wire verbatim.
type Code string

const (
	// Protocol conflicts
	CodeVersionMismatch Code = "version_mismatch"
	CodeNotYourTurn     Code = "not_your_turn"

	// Capacity and lifecycle
	CodeRoomFull        Code = "room_full"
	CodeRoomNotJoinable Code = "room_not_joinable"
	CodeRoomNotActive   Code = "room_not_active"
	CodeRoomNotFound    Code = "room_not_found"

	// Input validation
	CodeInvalidRoomID  Code = "invalid_room_id"
	CodeInvalidMove    Code = "invalid_move"
	CodeInvalidRequest Code = "invalid_request"
	CodeBusy           Code = "busy"

	// Transport and generic fallbacks
	CodeMoveFailed   Code = "move_failed"
	CodeJoinFailed   Code = "join_failed"
	CodeCreateFailed Code = "create_failed"
	CodeUnknown      Code = "unknown"
)

// Kind groups codes by how a client recovers from them.
type Kind int

const (
	// KindTransport errors are retried implicitly by refetching.
	KindTransport Kind = iota
	// KindConflict errors mean the local view is stale.
	KindConflict
	// KindCapacity errors are shown to the user; the room is unaffected.
	KindCapacity
	// KindValidation errors are caught before or instead of any state change.
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindConflict:
		return "conflict"
	case KindCapacity:
		return "capacity"
	case KindValidation:
		return "validation"
	default:
		return "transport"
	}
}

func (c Code) Kind() Kind {
	switch c {
	case CodeVersionMismatch, CodeNotYourTurn:
		return KindConflict
	case CodeRoomFull, CodeRoomNotJoinable, CodeRoomNotActive, CodeRoomNotFound:
		return KindCapacity
	case CodeInvalidRoomID, CodeInvalidMove, CodeInvalidRequest, CodeBusy:
		return KindValidation
	default:
		return KindTransport
	}
}

// HTTPStatus maps a code to the status the room service answers with.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeVersionMismatch, CodeRoomFull, CodeRoomNotJoinable, CodeRoomNotActive:
		return http.StatusConflict
	case CodeNotYourTurn:
		return http.StatusForbidden
	case CodeRoomNotFound:
		return http.StatusNotFound
	case CodeInvalidRoomID, CodeInvalidMove, CodeInvalidRequest:
		return http.StatusBadRequest
	case CodeBusy:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Error carries a code plus optional detail and cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Wrap(code Code, err error) *Error {
	return &Error{Code: code, Err: err}
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	default:
		return string(e.Code)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error with the same code, so sentinels work with
// errors.Is after a round trip over the wire.
func (e *Error) Is(target error) bool {
	var t *Error
	if !stderrors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

var (
	ErrVersionMismatch = New(CodeVersionMismatch, "")
	ErrNotYourTurn     = New(CodeNotYourTurn, "")
	ErrRoomFull        = New(CodeRoomFull, "")
	ErrRoomNotJoinable = New(CodeRoomNotJoinable, "")
	ErrRoomNotActive   = New(CodeRoomNotActive, "")
	ErrRoomNotFound    = New(CodeRoomNotFound, "")
	ErrInvalidRoomID   = New(CodeInvalidRoomID, "")
	ErrInvalidMove     = New(CodeInvalidMove, "")
	ErrInvalidRequest  = New(CodeInvalidRequest, "")
	ErrBusy            = New(CodeBusy, "")
)

// CodeOf extracts the code of err, CodeUnknown when it carries none.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}

// Classify finds a known code inside a raw message, for errors that reached
// us as plain text.
func Classify(message string) Code {
	for _, code := range []Code{
		CodeVersionMismatch,
		CodeNotYourTurn,
		CodeRoomNotJoinable,
		CodeRoomFull,
		CodeRoomNotActive,
		CodeRoomNotFound,
		CodeInvalidRoomID,
		CodeInvalidMove,
	} {
		if strings.Contains(message, string(code)) {
			return code
		}
	}
	return CodeUnknown
}

// ParseCode accepts a code string from the wire, CodeUnknown when unrecognised.
func ParseCode(s string) Code {
	code := Code(s)
	if _, ok := english[code]; ok {
		return code
	}
	return CodeUnknown
}
