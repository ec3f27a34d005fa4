package main

import (
	"context"
	"log"

	"github.com/haltia/conveyor/internal"
	"github.com/haltia/conveyor/internal/handler"
	"github.com/haltia/conveyor/internal/security"
	"github.com/haltia/conveyor/internal/service"
	"github.com/haltia/conveyor/internal/settings"
	"github.com/haltia/conveyor/internal/store"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	_ "modernc.org/sqlite"
)

func main() {
	settings.ReadDotenv(internal.DotEnvPath)
	settings.Settings = settings.NewSettings()
	internal.InitializeConfiguration()
	hashKey := security.EnsureHashKey()

	rdb := store.InitDatabase(true)
	defer rdb.Close()
	rwdb := store.InitDatabase(false)
	defer rwdb.Close()
	store.RunMigrations(rwdb)

	scheduler := service.NewScheduler()
	defer func() { _ = scheduler.Shutdown() }()

	encrypter := security.NewAESEncrypter(hashKey)
	credSvc := service.NewCredentialService(store.NewCredentialSQLiteStore(rdb, rwdb), encrypter)
	agentSvc := service.NewAgentService(store.NewAgentSQLiteStore(rdb, rwdb), credSvc)
	apiKeySvc := service.NewAPIKeyService(
		store.NewAPIKeySQLiteStore(rdb, rwdb),
		service.NewUUIDGen(),
	)
	pipelineSvc := service.NewPipelineService(
		store.NewPipelineSQLiteStore(rdb, rwdb),
		store.NewRunSQLiteStore(rdb, rwdb),
		agentSvc,
		credSvc,
		scheduler,
	)

	ctx := context.Background()
	if err := agentSvc.EnsureControllerAgent(ctx); err != nil {
		log.Fatal(err)
	}
	bootstrapAPIKey(ctx, apiKeySvc)
	if err := pipelineSvc.InitializeRunQueues(ctx); err != nil {
		log.Fatal(err)
	}
	defer pipelineSvc.ShutdownAll()

	scheduler.Start()

	credH := handler.NewCredentialHandler(credSvc)
	agentH := handler.NewAgentHandler(agentSvc)
	pipelineH := handler.NewPipelineHandler(pipelineSvc)
	runH := handler.NewRunHandler(pipelineSvc)
	apiKeyH := handler.NewAPIKeyHandler(apiKeySvc)

	e := setupEcho()
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	api := e.Group("/api", handler.APIKeyAuth(apiKeySvc))

	api.GET("/config", handler.GetConfig)
	api.POST("/config", handler.PostConfig)

	api.GET("/credentials", credH.GetCredentials)
	api.POST("/credentials", credH.PostCredential)
	api.PATCH("/credentials/:credential_id", credH.PatchCredential)
	api.DELETE("/credentials/:credential_id", credH.DeleteCredential)

	api.GET("/agents", agentH.GetAgents)
	api.POST("/agents", agentH.PostAgent)
	api.GET("/agents/:agent_id", agentH.GetAgent)
	api.PATCH("/agents/:agent_id", agentH.PatchAgent)
	api.DELETE("/agents/:agent_id", agentH.DeleteAgent)
	api.POST("/agents/:agent_id/test-connection", agentH.PostTestAgentConnection)

	api.GET("/pipelines", pipelineH.GetPipelines)
	api.POST("/pipelines", pipelineH.PostPipeline)
	api.GET("/pipelines/:pipeline_id", pipelineH.GetPipeline)
	api.PATCH("/pipelines/:pipeline_id", pipelineH.PatchPipeline)
	api.PATCH("/pipelines/:pipeline_id/schedule", pipelineH.PatchPipelineSchedule)
	api.DELETE("/pipelines/:pipeline_id", pipelineH.DeletePipeline)

	api.POST("/pipelines/:pipeline_id/runs", runH.PostRun)
	api.GET("/pipelines/:pipeline_id/runs", runH.GetRuns)
	api.GET("/pipelines/:pipeline_id/runs/:run_id", runH.GetRun)
	api.GET("/pipelines/:pipeline_id/runs/:run_id/output", runH.GetRunOutput)
	api.GET("/pipelines/:pipeline_id/runs/:run_id/artifacts", runH.GetRunArtifacts)
	api.DELETE("/pipelines/:pipeline_id/runs/:run_id", runH.DeleteRun)

	api.GET("/api-keys", apiKeyH.GetAPIKeys)
	api.POST("/api-keys", apiKeyH.PostAPIKey)
	api.DELETE("/api-keys/:id", apiKeyH.DeleteAPIKey)

	internal.GracefulShutdown(e, settings.Settings.Port)
}

// bootstrapAPIKey creates the first API key on a fresh database and logs it
// once, so the API is reachable without poking the database by hand.
func bootstrapAPIKey(ctx context.Context, apiKeySvc *service.APIKeyService) {
	keys, err := apiKeySvc.ListAPIKeys(ctx)
	if err != nil {
		log.Fatal(err)
	}
	if len(keys) > 0 {
		return
	}
	key, err := apiKeySvc.CreateAPIKey(ctx)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("created initial API key: %s", key.Value)
}

func setupEcho() *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = handler.ErrorHandler
	e.Use(
		middleware.CORSWithConfig(internal.GetCORSConfig()),
		middleware.RateLimiterWithConfig(internal.GetRateLimiterConfig()),
	)
	return e
}
