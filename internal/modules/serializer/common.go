package serializer

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the envelope of every API reply. Code mirrors the HTTP status.
type Response struct {
	Code int         `json:"code"`
	Data interface{} `json:"data,omitempty"`
	Msg  string      `json:"msg"`
	// Kind is the machine-readable failure class: validation, not_found,
	// conflict or database.
	Kind  string `json:"kind,omitempty"`
	Error string `json:"error,omitempty"`
}

// Err builds an error reply. The underlying error is only exposed outside
// release mode.
func Err(errCode int, msg string, err error) Response {
	res := Response{
		Code: errCode,
		Msg:  msg,
	}
	if err != nil && gin.Mode() != gin.ReleaseMode {
		res.Error = fmt.Sprintf("%+v", err)
	}
	return res
}

// KindErr is Err tagged with a failure class.
func KindErr(errCode int, kind, msg string, err error) Response {
	res := Err(errCode, msg, err)
	res.Kind = kind
	return res
}

func DBErr(msg string, err error) Response {
	if msg == "" {
		msg = "database error"
	}
	return KindErr(http.StatusInternalServerError, "database", msg, err)
}

func ParamErr(msg string, err error) Response {
	if msg == "" {
		msg = "parameter error"
	}
	return KindErr(http.StatusBadRequest, "validation", msg, err)
}

func AuthErr(msg string) Response {
	if msg == "" {
		msg = "authentication error"
	}
	return Err(http.StatusUnauthorized, msg, nil)
}

func NotFoundErr(msg string, err error) Response {
	if msg == "" {
		msg = "not found"
	}
	return KindErr(http.StatusNotFound, "not_found", msg, err)
}

func ConflictErr(msg string, err error) Response {
	if msg == "" {
		msg = "conflict"
	}
	return KindErr(http.StatusConflict, "conflict", msg, err)
}
