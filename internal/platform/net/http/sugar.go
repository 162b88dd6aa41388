package http

import (
	"net/http"

	"locsync/internal/platform/net/http/bind"
)

// GetJSON mounts a handler for GET that returns data or an error
func GetJSON(r Router, path string, h func(*http.Request) (any, error)) {
	r.Get(path, Handle(func(req *http.Request) Response {
		out, err := h(req)
		if err != nil {
			return Error(err)
		}
		return OK(out)
	}))
}

// GetQuery mounts a GET handler whose query string is bound and validated into T first
func GetQuery[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Get(path, Handle(func(req *http.Request) Response {
		in, err := bind.ParseQuery[T](req)
		if err != nil {
			return Error(err)
		}
		out, err := h(req, in)
		if err != nil {
			return Error(err)
		}
		return OK(out)
	}))
}
