package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/memodb-io/docledger/internal/modules/serializer"
	"github.com/memodb-io/docledger/internal/modules/service"
)

const IdempotencyKeyHeader = "Idempotency-Key"

type SessionHandler struct {
	workspaces service.WorkspaceService
	documents  service.DocumentService
}

func NewSessionHandler(ws service.WorkspaceService, ds service.DocumentService) *SessionHandler {
	return &SessionHandler{workspaces: ws, documents: ds}
}

// RegisterSession godoc
//
//	@Summary		Register session
//	@Description	Register a writing session against an objective
//	@Tags			session
//	@Produce		json
//	@Param			X-Author-Id		header	string	true	"Author ID"		Format(uuid)
//	@Param			objective_id	path	string	true	"Objective ID"	Format(uuid)
//	@Security		BearerAuth
//	@Success		201	{object}	serializer.Response{data=model.Session}
//	@Router			/objective/{objective_id}/session [post]
func (h *SessionHandler) RegisterSession(c *gin.Context) {
	objectiveID, ok := uuidParam(c, "objective_id")
	if !ok {
		return
	}
	author, ok := authorID(c)
	if !ok {
		return
	}

	sess, err := h.workspaces.RegisterSession(c.Request.Context(), service.RegisterSessionInput{
		ObjectiveID: objectiveID,
		AuthorID:    author,
	})
	if err != nil {
		writeServiceErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, serializer.Response{Data: sess})
}

type BindSessionReq struct {
	ObjectiveID uuid.UUID `form:"objective_id" json:"objective_id" binding:"required" format:"uuid"`
	WorkspaceID uuid.UUID `form:"workspace_id" json:"workspace_id" binding:"required" format:"uuid"`
}

// BindSession godoc
//
//	@Summary		Bind session to version
//	@Description	Give the session its own version: the first version of a new document, or a copy of the latest one.
//	@Description	Retries carrying the same Idempotency-Key replay the first result.
//	@Tags			session
//	@Accept			json
//	@Produce		json
//	@Param			X-Author-Id		header	string					true	"Author ID"	Format(uuid)
//	@Param			Idempotency-Key	header	string					false	"Client retry key"
//	@Param			session_id		path	string					true	"Session ID"	Format(uuid)
//	@Param			payload			body	handler.BindSessionReq	true	"BindSession payload"
//	@Security		BearerAuth
//	@Success		201	{object}	serializer.Response{data=service.BindResult}
//	@Success		200	{object}	serializer.Response{data=service.BindResult}	"replayed"
//	@Router			/session/{session_id}/bind [post]
func (h *SessionHandler) BindSession(c *gin.Context) {
	sessionID, ok := uuidParam(c, "session_id")
	if !ok {
		return
	}
	req := BindSessionReq{}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	author, ok := authorID(c)
	if !ok {
		return
	}

	out, err := h.documents.BindSessionToVersion(c.Request.Context(), service.BindSessionInput{
		SessionID:      sessionID,
		ObjectiveID:    req.ObjectiveID,
		AuthorID:       author,
		WorkspaceID:    req.WorkspaceID,
		IdempotencyKey: c.GetHeader(IdempotencyKeyHeader),
	})
	if err != nil {
		writeServiceErr(c, err)
		return
	}

	status := http.StatusCreated
	if out.Replayed {
		status = http.StatusOK
	}
	c.JSON(status, serializer.Response{Data: out})
}
