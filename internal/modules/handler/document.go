package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/memodb-io/docledger/internal/modules/serializer"
	"github.com/memodb-io/docledger/internal/modules/service"
)

type DocumentHandler struct {
	svc service.DocumentService
}

func NewDocumentHandler(s service.DocumentService) *DocumentHandler {
	return &DocumentHandler{svc: s}
}

type CreateDocumentReq struct {
	WorkspaceID uuid.UUID              `form:"workspace_id" json:"workspace_id" binding:"required" format:"uuid"`
	Content     string                 `form:"content" json:"content" example:"# Launch plan"`
	Title       *string                `form:"title" json:"title" example:"Q3 launch plan"`
	Punchlist   *string                `form:"punchlist" json:"punchlist" example:"- tighten the intro"`
	Metadata    map[string]interface{} `form:"metadata" json:"metadata"`
}

// CreateDocument godoc
//
//	@Summary		Create document
//	@Description	Create the objective's document together with its first version
//	@Tags			document
//	@Accept			json
//	@Produce		json
//	@Param			X-Author-Id		header	string						true	"Author ID"		Format(uuid)
//	@Param			objective_id	path	string						true	"Objective ID"	Format(uuid)
//	@Param			payload			body	handler.CreateDocumentReq	true	"CreateDocument payload"
//	@Security		BearerAuth
//	@Success		201	{object}	serializer.Response{data=service.DocumentWithVersion}
//	@Router			/objective/{objective_id}/document [post]
func (h *DocumentHandler) CreateDocument(c *gin.Context) {
	objectiveID, ok := uuidParam(c, "objective_id")
	if !ok {
		return
	}
	req := CreateDocumentReq{}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	author, ok := authorID(c)
	if !ok {
		return
	}

	out, err := h.svc.CreateDocument(c.Request.Context(), service.CreateDocumentInput{
		ObjectiveID: objectiveID,
		WorkspaceID: req.WorkspaceID,
		AuthorID:    author,
		Content:     req.Content,
		Title:       req.Title,
		Punchlist:   req.Punchlist,
		Metadata:    req.Metadata,
	})
	if err != nil {
		writeServiceErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, serializer.Response{Data: out})
}

// GetDocumentByObjective godoc
//
//	@Summary		Get document by objective
//	@Description	Get the objective's document with every version. data is omitted when the objective has no document yet.
//	@Tags			document
//	@Produce		json
//	@Param			X-Author-Id		header	string	true	"Author ID"		Format(uuid)
//	@Param			objective_id	path	string	true	"Objective ID"	Format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=service.DocumentView}
//	@Router			/objective/{objective_id}/document [get]
func (h *DocumentHandler) GetDocumentByObjective(c *gin.Context) {
	objectiveID, ok := uuidParam(c, "objective_id")
	if !ok {
		return
	}
	author, ok := authorID(c)
	if !ok {
		return
	}

	view, err := h.svc.GetDocumentByObjective(c.Request.Context(), objectiveID, author)
	if err != nil {
		writeServiceErr(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: view})
}

type ListWorkspaceDocumentsReq struct {
	ObjectiveID string `form:"objective_id" json:"objective_id" example:"123e4567-e89b-12d3-a456-426614174000"`
}

// ListWorkspaceDocuments godoc
//
//	@Summary		List workspace documents
//	@Description	List the documents of a workspace with their latest versions, in objective creation order
//	@Tags			document
//	@Produce		json
//	@Param			X-Author-Id		header	string	true	"Author ID"		Format(uuid)
//	@Param			workspace_id	path	string	true	"Workspace ID"	Format(uuid)
//	@Param			objective_id	query	string	false	"Only this objective"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=[]service.WorkspaceDocument}
//	@Router			/workspace/{workspace_id}/document [get]
func (h *DocumentHandler) ListWorkspaceDocuments(c *gin.Context) {
	workspaceID, ok := uuidParam(c, "workspace_id")
	if !ok {
		return
	}
	req := ListWorkspaceDocumentsReq{}
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	author, ok := authorID(c)
	if !ok {
		return
	}

	in := service.ListWorkspaceDocumentsInput{WorkspaceID: workspaceID, AuthorID: author}
	if req.ObjectiveID != "" {
		objectiveID, err := uuid.Parse(req.ObjectiveID)
		if err != nil {
			c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid objective_id", err))
			return
		}
		in.ObjectiveID = &objectiveID
	}

	out, err := h.svc.ListWorkspaceDocuments(c.Request.Context(), in)
	if err != nil {
		writeServiceErr(c, err)
		return
	}
	if out == nil {
		out = []service.WorkspaceDocument{}
	}

	c.JSON(http.StatusOK, serializer.Response{Data: out})
}

type CreateVersionReq struct {
	Content   *string                `form:"content" json:"content"`
	Punchlist *string                `form:"punchlist" json:"punchlist"`
	Metadata  map[string]interface{} `form:"metadata" json:"metadata"`
}

// CreateVersion godoc
//
//	@Summary		Create version
//	@Description	Append a version copied from the latest one. Supplied fields replace the copied values.
//	@Tags			document
//	@Accept			json
//	@Produce		json
//	@Param			X-Author-Id	header	string					true	"Author ID"		Format(uuid)
//	@Param			document_id	path	string					true	"Document ID"	Format(uuid)
//	@Param			payload		body	handler.CreateVersionReq	false	"Overrides"
//	@Security		BearerAuth
//	@Success		201	{object}	serializer.Response{data=model.DocumentVersion}
//	@Router			/document/{document_id}/version [post]
func (h *DocumentHandler) CreateVersion(c *gin.Context) {
	documentID, ok := uuidParam(c, "document_id")
	if !ok {
		return
	}
	req := CreateVersionReq{}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
			return
		}
	}
	author, ok := authorID(c)
	if !ok {
		return
	}

	v, err := h.svc.CreateVersion(c.Request.Context(), service.CreateVersionInput{
		DocumentID: documentID,
		AuthorID:   author,
		Overrides: service.VersionOverrides{
			Content:   req.Content,
			Punchlist: req.Punchlist,
			Metadata:  req.Metadata,
		},
	})
	if err != nil {
		writeServiceErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, serializer.Response{Data: v})
}

type ListVersionsReq struct {
	Limit  int    `form:"limit,default=20" json:"limit" binding:"required,min=1,max=200" example:"20"`
	Cursor string `form:"cursor" json:"cursor"`
}

// ListVersions godoc
//
//	@Summary		List versions
//	@Description	List a document's versions newest first
//	@Tags			document
//	@Produce		json
//	@Param			X-Author-Id	header	string	true	"Author ID"		Format(uuid)
//	@Param			document_id	path	string	true	"Document ID"	Format(uuid)
//	@Param			limit		query	integer	false	"Limit of versions to return, default 20. Max 200."
//	@Param			cursor		query	string	false	"Cursor from the previous page"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=service.ListVersionsOutput}
//	@Router			/document/{document_id}/version [get]
func (h *DocumentHandler) ListVersions(c *gin.Context) {
	documentID, ok := uuidParam(c, "document_id")
	if !ok {
		return
	}
	req := ListVersionsReq{}
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	author, ok := authorID(c)
	if !ok {
		return
	}

	out, err := h.svc.ListVersions(c.Request.Context(), service.ListVersionsInput{
		DocumentID: documentID,
		AuthorID:   author,
		Limit:      req.Limit,
		Cursor:     req.Cursor,
	})
	if err != nil {
		writeServiceErr(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: out})
}

// GetLatestVersion godoc
//
//	@Summary		Get latest version
//	@Tags			document
//	@Produce		json
//	@Param			X-Author-Id	header	string	true	"Author ID"		Format(uuid)
//	@Param			document_id	path	string	true	"Document ID"	Format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.DocumentVersion}
//	@Router			/document/{document_id}/version/latest [get]
func (h *DocumentHandler) GetLatestVersion(c *gin.Context) {
	documentID, ok := uuidParam(c, "document_id")
	if !ok {
		return
	}
	author, ok := authorID(c)
	if !ok {
		return
	}

	v, err := h.svc.GetLatestVersion(c.Request.Context(), documentID, author)
	if err != nil {
		writeServiceErr(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: v})
}

// GetVersion godoc
//
//	@Summary		Get version
//	@Tags			version
//	@Produce		json
//	@Param			X-Author-Id	header	string	true	"Author ID"		Format(uuid)
//	@Param			version_id	path	string	true	"Version ID"	Format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.DocumentVersion}
//	@Router			/version/{version_id} [get]
func (h *DocumentHandler) GetVersion(c *gin.Context) {
	versionID, ok := uuidParam(c, "version_id")
	if !ok {
		return
	}
	author, ok := authorID(c)
	if !ok {
		return
	}

	v, err := h.svc.GetVersion(c.Request.Context(), versionID, author)
	if err != nil {
		writeServiceErr(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: v})
}

// DeleteDocument godoc
//
//	@Summary		Delete document
//	@Description	Delete a document, all its versions and every session binding to them
//	@Tags			document
//	@Produce		json
//	@Param			X-Author-Id	header	string	true	"Author ID"		Format(uuid)
//	@Param			document_id	path	string	true	"Document ID"	Format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response
//	@Router			/document/{document_id} [delete]
func (h *DocumentHandler) DeleteDocument(c *gin.Context) {
	documentID, ok := uuidParam(c, "document_id")
	if !ok {
		return
	}
	author, ok := authorID(c)
	if !ok {
		return
	}

	if err := h.svc.DeleteDocument(c.Request.Context(), documentID, author); err != nil {
		writeServiceErr(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{})
}

type ExportVersionReq struct {
	VersionID *uuid.UUID `form:"version_id" json:"version_id" format:"uuid"`
}

// ExportVersion godoc
//
//	@Summary		Export version snapshot
//	@Description	Upload a Markdown snapshot of a version to object storage and return a presigned URL. Exports the latest version when version_id is omitted.
//	@Tags			document
//	@Accept			json
//	@Produce		json
//	@Param			X-Author-Id	header	string					true	"Author ID"		Format(uuid)
//	@Param			document_id	path	string					true	"Document ID"	Format(uuid)
//	@Param			payload		body	handler.ExportVersionReq	false	"ExportVersion payload"
//	@Security		BearerAuth
//	@Success		201	{object}	serializer.Response{data=service.ExportResult}
//	@Router			/document/{document_id}/export [post]
func (h *DocumentHandler) ExportVersion(c *gin.Context) {
	documentID, ok := uuidParam(c, "document_id")
	if !ok {
		return
	}
	req := ExportVersionReq{}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
			return
		}
	}
	author, ok := authorID(c)
	if !ok {
		return
	}

	out, err := h.svc.ExportVersion(c.Request.Context(), service.ExportInput{
		DocumentID: documentID,
		AuthorID:   author,
		VersionID:  req.VersionID,
	})
	if err != nil {
		writeServiceErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, serializer.Response{Data: out})
}

type UpdateContentReq struct {
	Content  *string                `form:"content" json:"content"`
	Metadata map[string]interface{} `form:"metadata" json:"metadata"`
}

// UpdateVersionContent godoc
//
//	@Summary		Update version content in place
//	@Description	Overwrite a version's content without creating a new version
//	@Tags			version
//	@Accept			json
//	@Produce		json
//	@Param			X-Author-Id	header	string						true	"Author ID"		Format(uuid)
//	@Param			version_id	path	string						true	"Version ID"	Format(uuid)
//	@Param			payload		body	handler.UpdateContentReq	true	"UpdateContent payload"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.DocumentVersion}
//	@Router			/version/{version_id}/content [patch]
func (h *DocumentHandler) UpdateVersionContent(c *gin.Context) {
	versionID, ok := uuidParam(c, "version_id")
	if !ok {
		return
	}
	req := UpdateContentReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	if req.Content == nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("content is required", nil))
		return
	}
	author, ok := authorID(c)
	if !ok {
		return
	}

	v, err := h.svc.UpdateVersionContentInPlace(c.Request.Context(), service.UpdateContentInput{
		VersionID: versionID,
		AuthorID:  author,
		Content:   *req.Content,
		Metadata:  req.Metadata,
	})
	if err != nil {
		writeServiceErr(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: v})
}

type UpdatePunchlistReq struct {
	Punchlist *string `form:"punchlist" json:"punchlist"`
}

// UpdateVersionPunchlist godoc
//
//	@Summary		Update version punchlist in place
//	@Tags			version
//	@Accept			json
//	@Produce		json
//	@Param			X-Author-Id	header	string						true	"Author ID"		Format(uuid)
//	@Param			version_id	path	string						true	"Version ID"	Format(uuid)
//	@Param			payload		body	handler.UpdatePunchlistReq	true	"UpdatePunchlist payload"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.DocumentVersion}
//	@Router			/version/{version_id}/punchlist [patch]
func (h *DocumentHandler) UpdateVersionPunchlist(c *gin.Context) {
	versionID, ok := uuidParam(c, "version_id")
	if !ok {
		return
	}
	req := UpdatePunchlistReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	if req.Punchlist == nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("punchlist is required", nil))
		return
	}
	author, ok := authorID(c)
	if !ok {
		return
	}

	v, err := h.svc.UpdateVersionPunchlistInPlace(c.Request.Context(), service.UpdatePunchlistInput{
		VersionID: versionID,
		AuthorID:  author,
		Punchlist: *req.Punchlist,
	})
	if err != nil {
		writeServiceErr(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: v})
}
