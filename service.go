// Copyright 2024-2025 NetCracker Technology Corporation
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
	"net/http"
	"runtime/debug"
	"time"

	"github.com/Netcracker/qubership-pdf-accessibility-service/client"
	"github.com/Netcracker/qubership-pdf-accessibility-service/controller"
	"github.com/Netcracker/qubership-pdf-accessibility-service/db"
	"github.com/Netcracker/qubership-pdf-accessibility-service/repository"
	"github.com/Netcracker/qubership-pdf-accessibility-service/security"
	"github.com/Netcracker/qubership-pdf-accessibility-service/service"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

func main() {
	readyChan := make(chan bool)
	systemInfoService, err := service.NewSystemInfoService()
	if err != nil {
		panic(err)
	}
	setLogLevel(systemInfoService.GetLogLevel())

	connectionProvider := db.NewConnectionProvider(systemInfoService.GetDbCredentials())

	olricProvider, err := client.NewOlricProvider(
		systemInfoService.GetOlricDiscoveryMode(),
		systemInfoService.GetReplicaCount(),
		systemInfoService.GetNamespace())
	if err != nil {
		panic(err)
	}

	checkerClient := client.NewCheckerClient(systemInfoService.GetCheckerUrl(), systemInfoService.GetCheckerApiKey())
	platformClient := client.NewPlatformClient(systemInfoService.GetPlatformUrl(), systemInfoService.GetPlatformAccessToken())

	documentRepository := repository.NewDocumentRepository(connectionProvider)
	taskRepository := repository.NewRemediationTaskRepository(connectionProvider)
	resultRepository := repository.NewScanResultRepository(connectionProvider)

	complianceEngine := service.NewComplianceEngine()
	statusPoller := service.NewStatusPoller(checkerClient)
	scanService := service.NewScanService(documentRepository, taskRepository, resultRepository, complianceEngine, olricProvider)
	authorizationService := service.NewAuthorizationService()

	taskProcessor := service.NewTaskProcessor(documentRepository, taskRepository, resultRepository, checkerClient, statusPoller, complianceEngine, olricProvider)
	scanEventListener := service.NewScanEventListener(olricProvider, scanService)
	retentionService := service.NewRetentionService(connectionProvider, systemInfoService.GetRetentionDays())

	documentController := controller.NewDocumentController(scanService, authorizationService)
	complianceController := controller.NewComplianceController(scanService, authorizationService)
	remediationController := controller.NewRemediationController(scanService, authorizationService)
	schemaController := controller.NewSchemaController()
	healthController := controller.NewHealthController(readyChan)

	if err := security.SetupGoGuardian(platformClient); err != nil {
		panic(err)
	}

	taskProcessor.Start()
	scanEventListener.Start()
	retentionService.Start()

	router := mux.NewRouter()
	router.HandleFunc("/api/v1/documents", security.Secure(documentController.UploadDocument)).Methods(http.MethodPost)
	router.HandleFunc("/api/v1/documents/{documentId}", security.Secure(documentController.GetDocument)).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/documents/{documentId}/report", security.Secure(complianceController.GetReport)).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/documents/{documentId}/summary", security.Secure(complianceController.GetSummary)).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/documents/{documentId}/summary/reconcile", security.Secure(complianceController.ReconcileSummary)).Methods(http.MethodPost)
	router.HandleFunc("/api/v1/documents/{documentId}/snapshot", security.Secure(complianceController.GetSnapshot)).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/documents/{documentId}/fixes", security.Secure(remediationController.RequestFixes)).Methods(http.MethodPost)
	router.HandleFunc("/api/v1/tasks/{taskId}", security.Secure(remediationController.GetTaskStatus)).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/schemas/summary", security.NoSecure(schemaController.GetSummarySchema)).Methods(http.MethodGet)

	router.HandleFunc("/live", healthController.HandleLiveRequest).Methods(http.MethodGet)
	router.HandleFunc("/ready", healthController.HandleReadyRequest).Methods(http.MethodGet)
	readyChan <- true
	close(readyChan)

	debug.SetGCPercent(30)

	srv := makeServer(systemInfoService, router)
	log.Fatalf("%v", srv.ListenAndServe())
}

func setLogLevel(logLevel string) {
	if logLevel == "" {
		return
	}
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		log.Warnf("Unknown log level %s, keeping default", logLevel)
		return
	}
	log.SetLevel(level)
}

func makeServer(systemInfoService service.SystemInfoService, r *mux.Router) *http.Server {
	listenAddr := systemInfoService.GetListenAddress()

	log.Infof("Listen addr = %s", listenAddr)

	var corsOptions []handlers.CORSOption

	corsOptions = append(corsOptions, handlers.AllowedHeaders([]string{"Connection", "Accept-Encoding", "Content-Encoding", "X-Requested-With", "Content-Type", "Authorization", "api-key", "X-Personal-Access-Token"}))

	allowedOrigin := systemInfoService.GetOriginAllowed()
	if allowedOrigin != "" {
		corsOptions = append(corsOptions, handlers.AllowedOrigins([]string{allowedOrigin}))
	}
	corsOptions = append(corsOptions, handlers.AllowedMethods([]string{"GET", "HEAD", "POST", "PUT", "OPTIONS"}))

	return &http.Server{
		Handler:      handlers.CompressHandler(handlers.CORS(corsOptions...)(r)),
		Addr:         listenAddr,
		WriteTimeout: 600 * time.Second,
		ReadTimeout:  60 * time.Second,
	}
}
