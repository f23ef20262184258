package pipeline

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies where in the run a fatal failure happened. Metadata and
// summarization-stream failures never become a Kind: the run degrades and
// continues instead of failing.
type Kind string

const (
	KindValidation    Kind = "validation"
	KindDownload      Kind = "download"
	KindTranscription Kind = "transcription"
	KindPersistence   Kind = "persistence"
	KindUnknown       Kind = "unknown"
)

type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// KindOf reports the classification of err, KindUnknown when it carries none.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindUnknown
}

// StatusCode maps a run error onto the synchronous endpoint's response code.
// Only client mistakes are 4xx; everything past validation already did work.
func StatusCode(err error) int {
	if KindOf(err) == KindValidation {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
