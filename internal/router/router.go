package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "github.com/memodb-io/docledger/docs"
	"github.com/memodb-io/docledger/internal/config"
	"github.com/memodb-io/docledger/internal/middleware"
	"github.com/memodb-io/docledger/internal/modules/handler"
	"github.com/memodb-io/docledger/internal/modules/serializer"
	"github.com/memodb-io/docledger/internal/telemetry"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	Config           *config.Config
	Log              *zap.Logger
	Credential       *middleware.ServiceCredential
	WorkspaceHandler *handler.WorkspaceHandler
	DocumentHandler  *handler.DocumentHandler
	SessionHandler   *handler.SessionHandler
}

func NewRouter(d RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	if telemetry.Enabled(d.Config) {
		r.Use(telemetry.GinMiddleware(d.Config.App.Name))
		r.Use(telemetry.TraceIDMiddleware())
	}

	r.Use(middleware.ZapLogger(d.Log))

	// health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, serializer.Response{Msg: "ok"}) })

	// swagger
	r.GET("/swagger", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		v1.Use(middleware.ServiceAuth(d.Credential))

		v1.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, serializer.Response{Msg: "pong"}) })

		workspace := v1.Group("/workspace")
		{
			workspace.POST("", d.WorkspaceHandler.CreateWorkspace)
			workspace.DELETE("/:workspace_id", d.WorkspaceHandler.DeleteWorkspace)
			workspace.POST("/:workspace_id/objective", d.WorkspaceHandler.CreateObjective)
			workspace.GET("/:workspace_id/document", d.DocumentHandler.ListWorkspaceDocuments)
		}

		objective := v1.Group("/objective/:objective_id")
		{
			objective.POST("/document", d.DocumentHandler.CreateDocument)
			objective.GET("/document", d.DocumentHandler.GetDocumentByObjective)
			objective.POST("/session", d.SessionHandler.RegisterSession)
		}

		session := v1.Group("/session")
		{
			session.POST("/:session_id/bind", d.SessionHandler.BindSession)
		}

		document := v1.Group("/document/:document_id")
		{
			document.DELETE("", d.DocumentHandler.DeleteDocument)
			document.POST("/version", d.DocumentHandler.CreateVersion)
			document.GET("/version", d.DocumentHandler.ListVersions)
			document.GET("/version/latest", d.DocumentHandler.GetLatestVersion)
			document.POST("/export", d.DocumentHandler.ExportVersion)
		}

		version := v1.Group("/version/:version_id")
		{
			version.GET("", d.DocumentHandler.GetVersion)
			version.PATCH("/content", d.DocumentHandler.UpdateVersionContent)
			version.PATCH("/punchlist", d.DocumentHandler.UpdateVersionPunchlist)
		}
	}
	return r
}
