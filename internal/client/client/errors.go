package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrNotLoggedIn  = errors.New("not logged in")
)

// APIError is a 4xx response the caller can show to the user as is.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Detail)
}

type fieldError struct {
	Loc []string `json:"loc"`
	Msg string   `json:"msg"`
}

// parseDetail flattens the "detail" member of an error body, which is
// either a string or a list of field errors.
func parseDetail(body []byte) string {
	var env struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &env); err != nil || len(env.Detail) == 0 {
		return strings.TrimSpace(string(body))
	}

	var s string
	if err := json.Unmarshal(env.Detail, &s); err == nil {
		return s
	}

	var fields []fieldError
	if err := json.Unmarshal(env.Detail, &fields); err == nil {
		parts := make([]string, 0, len(fields))
		for _, f := range fields {
			loc := f.Loc
			if len(loc) > 0 && (loc[0] == "body" || loc[0] == "path") {
				loc = loc[1:]
			}
			parts = append(parts, strings.Join(loc, ".")+": "+f.Msg)
		}
		return strings.Join(parts, "; ")
	}

	return string(env.Detail)
}
