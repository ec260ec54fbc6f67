package handlers

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const maxBodyBytes = 1 << 20

// requestError is a client mistake in the request body, reported as its status.
type requestError struct {
	status int
	msg    string
}

func (e *requestError) Error() string { return e.msg }

// decodeRecords reads a JSON body holding either a single object or an array
// of objects and returns the records as a slice.
func decodeRecords[T any](w http.ResponseWriter, r *http.Request) ([]T, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	br := bufio.NewReader(r.Body)

	first, err := peekNonSpace(br)
	if err != nil {
		return nil, classifyDecodeError(err)
	}

	dec := json.NewDecoder(br)
	dec.DisallowUnknownFields()

	var out []T
	if first == '[' {
		if err := dec.Decode(&out); err != nil {
			return nil, classifyDecodeError(err)
		}
	} else {
		var one T
		if err := dec.Decode(&one); err != nil {
			return nil, classifyDecodeError(err)
		}
		out = []T{one}
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, &requestError{status: http.StatusBadRequest, msg: "request body must only contain a single JSON value"}
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		if !bytes.ContainsRune([]byte(" \t\r\n"), rune(b)) {
			return b, br.UnreadByte()
		}
	}
}

func classifyDecodeError(err error) error {
	var syntaxError *json.SyntaxError
	var typeError *json.UnmarshalTypeError
	var maxBytesError *http.MaxBytesError

	switch {
	case errors.As(err, &syntaxError):
		return badRequest(fmt.Sprintf("request body contains badly-formed JSON (at character %d)", syntaxError.Offset))
	case errors.Is(err, io.ErrUnexpectedEOF):
		return badRequest("request body contains badly-formed JSON")
	case errors.As(err, &typeError):
		if typeError.Field != "" {
			return badRequest(fmt.Sprintf("request body contains incorrect JSON type for field %q", typeError.Field))
		}
		return badRequest(fmt.Sprintf("request body contains incorrect JSON type (at character %d)", typeError.Offset))
	case errors.Is(err, io.EOF):
		return badRequest("request body must not be empty")
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		field := strings.TrimPrefix(err.Error(), "json: unknown field ")
		return badRequest("request body contains unknown key " + field)
	case errors.As(err, &maxBytesError):
		return &requestError{status: http.StatusRequestEntityTooLarge, msg: fmt.Sprintf("request body must not be larger than %d bytes", maxBytesError.Limit)}
	default:
		return badRequest(err.Error())
	}
}

func badRequest(msg string) error {
	return &requestError{status: http.StatusBadRequest, msg: msg}
}
