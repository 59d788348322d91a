package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/memodb-io/docledger/internal/middleware"
	"github.com/memodb-io/docledger/internal/modules/serializer"
	"github.com/memodb-io/docledger/internal/modules/service"
)

// authorID returns the caller resolved by middleware.ServiceAuth. It writes
// the error response itself when the value is missing.
func authorID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(middleware.AuthorIDKey)
	if !ok {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", errors.New("author not found")))
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	if !ok || id == uuid.Nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", errors.New("author not found")))
		return uuid.Nil, false
	}
	return id, true
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid "+name, err))
		return uuid.Nil, false
	}
	return id, true
}

// writeServiceErr maps the service error taxonomy onto HTTP statuses.
func writeServiceErr(c *gin.Context, err error) {
	msg := err.Error()
	var de *service.DocumentError
	if errors.As(err, &de) {
		msg = de.Msg
	}

	switch service.KindOf(err) {
	case service.KindValidation:
		c.JSON(http.StatusBadRequest, serializer.ParamErr(msg, err))
	case service.KindNotFound:
		c.JSON(http.StatusNotFound, serializer.NotFoundErr(msg, err))
	case service.KindConflict:
		c.JSON(http.StatusConflict, serializer.ConflictErr(msg, err))
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, serializer.DBErr("", err))
	}
}
