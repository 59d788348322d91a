package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/memodb-io/docledger/internal/modules/serializer"
	"github.com/memodb-io/docledger/internal/modules/service"
)

type WorkspaceHandler struct {
	svc service.WorkspaceService
}

func NewWorkspaceHandler(s service.WorkspaceService) *WorkspaceHandler {
	return &WorkspaceHandler{svc: s}
}

type CreateWorkspaceReq struct {
	Name     string     `form:"name" json:"name" binding:"required" example:"acme"`
	DomainID *uuid.UUID `form:"domain_id" json:"domain_id" format:"uuid"`
}

// CreateWorkspace godoc
//
//	@Summary		Create workspace
//	@Description	Create a workspace owned by the calling author
//	@Tags			workspace
//	@Accept			json
//	@Produce		json
//	@Param			X-Author-Id	header	string						true	"Author ID"	Format(uuid)
//	@Param			payload		body	handler.CreateWorkspaceReq	true	"CreateWorkspace payload"
//	@Security		BearerAuth
//	@Success		201	{object}	serializer.Response{data=model.Workspace}
//	@Router			/workspace [post]
func (h *WorkspaceHandler) CreateWorkspace(c *gin.Context) {
	req := CreateWorkspaceReq{}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	author, ok := authorID(c)
	if !ok {
		return
	}

	ws, err := h.svc.CreateWorkspace(c.Request.Context(), service.CreateWorkspaceInput{
		OwnerID:  author,
		Name:     req.Name,
		DomainID: req.DomainID,
	})
	if err != nil {
		writeServiceErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, serializer.Response{Data: ws})
}

// DeleteWorkspace godoc
//
//	@Summary		Delete workspace
//	@Description	Soft delete a workspace. Its documents become unreachable.
//	@Tags			workspace
//	@Produce		json
//	@Param			X-Author-Id		header	string	true	"Author ID"		Format(uuid)
//	@Param			workspace_id	path	string	true	"Workspace ID"	Format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response
//	@Router			/workspace/{workspace_id} [delete]
func (h *WorkspaceHandler) DeleteWorkspace(c *gin.Context) {
	workspaceID, ok := uuidParam(c, "workspace_id")
	if !ok {
		return
	}
	author, ok := authorID(c)
	if !ok {
		return
	}

	if err := h.svc.DeleteWorkspace(c.Request.Context(), workspaceID, author); err != nil {
		writeServiceErr(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{})
}

type CreateObjectiveReq struct {
	Title string `form:"title" json:"title" binding:"required" example:"Q3 launch plan"`
}

// CreateObjective godoc
//
//	@Summary		Create objective
//	@Description	Create an objective in a workspace owned by the caller
//	@Tags			workspace
//	@Accept			json
//	@Produce		json
//	@Param			X-Author-Id		header	string						true	"Author ID"		Format(uuid)
//	@Param			workspace_id	path	string						true	"Workspace ID"	Format(uuid)
//	@Param			payload			body	handler.CreateObjectiveReq	true	"CreateObjective payload"
//	@Security		BearerAuth
//	@Success		201	{object}	serializer.Response{data=model.Objective}
//	@Router			/workspace/{workspace_id}/objective [post]
func (h *WorkspaceHandler) CreateObjective(c *gin.Context) {
	workspaceID, ok := uuidParam(c, "workspace_id")
	if !ok {
		return
	}
	req := CreateObjectiveReq{}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	author, ok := authorID(c)
	if !ok {
		return
	}

	obj, err := h.svc.CreateObjective(c.Request.Context(), service.CreateObjectiveInput{
		WorkspaceID: workspaceID,
		AuthorID:    author,
		Title:       req.Title,
	})
	if err != nil {
		writeServiceErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, serializer.Response{Data: obj})
}
