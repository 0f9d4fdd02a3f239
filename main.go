// Copyright 2024-2025 ReviewHub
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	goctx "context"
	"flag"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/reviewhub/reviewhub-backend/reviewhub-service/client"
	"github.com/reviewhub/reviewhub-backend/reviewhub-service/config"
	"github.com/reviewhub/reviewhub-backend/reviewhub-service/controller"
	"github.com/reviewhub/reviewhub-backend/reviewhub-service/db"
	"github.com/reviewhub/reviewhub-backend/reviewhub-service/metrics"
	midldleware "github.com/reviewhub/reviewhub-backend/reviewhub-service/middleware"
	"github.com/reviewhub/reviewhub-backend/reviewhub-service/repository"
	"github.com/reviewhub/reviewhub-backend/reviewhub-service/service"
	"github.com/reviewhub/reviewhub-backend/reviewhub-service/utils"
	"github.com/reviewhub/reviewhub-backend/reviewhub-service/view"
)

func main() {
	configPath := flag.String("config", os.Getenv("REVIEWHUB_CONFIG"), "path to yaml config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	setupLogging(cfg.Logging)
	utils.PrintConfig(*cfg)

	creds := &view.DbCredentials{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		Database: cfg.Database.Name,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
	}
	cp := db.NewConnectionProvider(creds)

	campaignRepository := repository.NewCampaignRepository(cp)
	reviewItemRepository := repository.NewReviewItemRepository(cp)
	decisionRepository := repository.NewDecisionRepository(cp)
	scheduledReviewRepository := repository.NewScheduledReviewRepository(cp)
	notificationRepository := repository.NewNotificationRepository(cp)
	lockRepository := repository.NewLockRepository(cp)

	graphClient := client.NewGraphClient(cfg.Graph.BaseUrl, cfg.Graph.AccessToken,
		time.Duration(cfg.Graph.TimeoutSeconds)*time.Second)

	collectionService := service.NewCollectionService(graphClient, reviewItemRepository)
	campaignService := service.NewCampaignService(campaignRepository, reviewItemRepository, collectionService)
	decisionService := service.NewDecisionService(campaignRepository, reviewItemRepository, decisionRepository)
	scheduledReviewService := service.NewScheduledReviewService(scheduledReviewRepository)
	notificationService := service.NewNotificationService(notificationRepository)
	lockService := service.NewLockService(lockRepository, cfg.Scheduler.InstanceId)
	executionService := service.NewExecutionService(graphClient, campaignRepository, reviewItemRepository,
		decisionRepository, campaignService, notificationService)
	exportService := service.NewExportService(campaignRepository, reviewItemRepository)
	schedulerService := service.NewSchedulerService(scheduledReviewRepository, campaignRepository,
		decisionService, campaignService, notificationService, lockService,
		cfg.Scheduler.ReminderDays, cfg.Scheduler.LockLeaseSeconds)

	campaignController := controller.NewCampaignController(campaignService)
	decisionController := controller.NewDecisionController(decisionService)
	scheduledReviewController := controller.NewScheduledReviewController(scheduledReviewService)
	executionController := controller.NewExecutionController(executionService)
	schedulerController := controller.NewSchedulerController(schedulerService)
	notificationController := controller.NewNotificationController(notificationService)
	exportController := controller.NewExportController(exportService)
	healthController := controller.NewHealthController(cp)

	prometheus.MustRegister(metrics.TotalRequests, metrics.SchedulerTicksTotal, metrics.PermissionRemovalsTotal)

	r := mux.NewRouter()
	r.Use(midldleware.PrometheusMiddleware)

	r.HandleFunc("/api/v1/campaigns", campaignController.CreateCampaign).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/campaigns", campaignController.ListCampaigns).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/campaigns/{campaignId}", campaignController.GetCampaign).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/campaigns/{campaignId}", campaignController.UpdateCampaign).Methods(http.MethodPatch)
	r.HandleFunc("/api/v1/campaigns/{campaignId}", campaignController.DeleteCampaign).Methods(http.MethodDelete)
	r.HandleFunc("/api/v1/campaigns/{campaignId}/start", campaignController.StartCampaign).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/campaigns/{campaignId}/complete", campaignController.CompleteCampaign).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/campaigns/{campaignId}/progress", campaignController.GetProgress).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/campaigns/{campaignId}/items", campaignController.ListItems).Methods(http.MethodGet)

	r.HandleFunc("/api/v1/items/{itemId}/decision", decisionController.SubmitDecision).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/campaigns/{campaignId}/decisions/bulk", decisionController.BulkDecisions).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/campaigns/{campaignId}/decisions/retainAll", decisionController.RetainAll).Methods(http.MethodPost)

	r.HandleFunc("/api/v1/campaigns/{campaignId}/execute", executionController.ExecuteCampaign).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/campaigns/{campaignId}/execution/retry", executionController.RetryFailedExecutions).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/campaigns/{campaignId}/export", exportController.ExportCampaignReport).Methods(http.MethodGet)

	r.HandleFunc("/api/v1/scheduledReviews", scheduledReviewController.CreateScheduledReview).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/scheduledReviews", scheduledReviewController.ListScheduledReviews).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/scheduledReviews/{scheduleId}", scheduledReviewController.GetScheduledReview).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/scheduledReviews/{scheduleId}", scheduledReviewController.UpdateScheduledReview).Methods(http.MethodPatch)
	r.HandleFunc("/api/v1/scheduledReviews/{scheduleId}", scheduledReviewController.DeleteScheduledReview).Methods(http.MethodDelete)

	r.HandleFunc("/api/v1/scheduler/tick", schedulerController.RunTick).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/scheduler/phases/{phase}", schedulerController.RunPhase).Methods(http.MethodPost)

	r.HandleFunc("/api/v1/notifications", notificationController.ListNotifications).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/notifications/{notificationId}/read", notificationController.MarkRead).Methods(http.MethodPost)

	r.HandleFunc("/live", healthController.HandleLiveRequest).Methods(http.MethodGet)
	r.HandleFunc("/ready", healthController.HandleReadyRequest).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	if cfg.Scheduler.Enabled {
		if err := schedulerService.StartPeriodicTick(cfg.Scheduler.TickSchedule); err != nil {
			log.Fatalf("Failed to start periodic scheduler tick: %v", err)
		}
	} else {
		log.Info("Periodic scheduler tick is disabled")
	}

	corsOptions := []handlers.CORSOption{
		handlers.AllowedHeaders([]string{"Content-Type", "X-Reviewer-Id", "X-Reviewer-Name"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete}),
	}
	if len(cfg.Server.AllowedOrigins) > 0 {
		corsOptions = append(corsOptions, handlers.AllowedOrigins(cfg.Server.AllowedOrigins))
	}

	srv := &http.Server{
		Handler:      handlers.CompressHandler(handlers.CORS(corsOptions...)(r)),
		Addr:         cfg.Server.ListenAddress,
		WriteTimeout: 300 * time.Second,
		ReadTimeout:  30 * time.Second,
	}

	go func() {
		log.Infof("Listening on %s", cfg.Server.ListenAddress)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("Shutting down")
	shutdownCtx, cancel := goctx.WithTimeout(goctx.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Graceful shutdown failed: %v", err)
	}
}

func setupLogging(cfg config.LoggingConfig) {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
	log.SetFormatter(&prefixed.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000000",
	})
	if cfg.Dir != "" {
		rotator := &lumberjack.Logger{
			Filename:   filepath.Join(cfg.Dir, "reviewhub.log"),
			MaxSize:    10, // megabytes
			MaxBackups: 10,
		}
		log.SetOutput(io.MultiWriter(os.Stderr, rotator))
	}
}
