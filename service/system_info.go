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

package service

import (
	"fmt"
	"os"
	"strconv"

	"github.com/Netcracker/qubership-pdf-accessibility-service/db"
	log "github.com/sirupsen/logrus"
)

const (
	LISTEN_ADDRESS        = "LISTEN_ADDRESS"
	ORIGIN_ALLOWED        = "ORIGIN_ALLOWED"
	LOG_LEVEL             = "LOG_LEVEL"
	CHECKER_URL           = "CHECKER_URL"
	CHECKER_API_KEY       = "CHECKER_API_KEY"
	PLATFORM_URL          = "PLATFORM_URL"
	PLATFORM_ACCESS_TOKEN = "PLATFORM_ACCESS_TOKEN"
	DB_HOST               = "DB_HOST"
	DB_PORT               = "DB_PORT"
	DB_NAME               = "DB_NAME"
	DB_USERNAME           = "DB_USERNAME"
	DB_PASSWORD           = "DB_PASSWORD"
	OLRIC_DISCOVERY_MODE  = "OLRIC_DISCOVERY_MODE"
	REPLICA_COUNT         = "REPLICA_COUNT"
	NAMESPACE             = "NAMESPACE"
	RETENTION_DAYS        = "RETENTION_DAYS"
)

type SystemInfoService interface {
	Init() error
	GetListenAddress() string
	GetOriginAllowed() string
	GetLogLevel() string
	GetCheckerUrl() string
	GetCheckerApiKey() string
	GetPlatformUrl() string
	GetPlatformAccessToken() string
	GetDbCredentials() db.Credentials
	GetOlricDiscoveryMode() string
	GetReplicaCount() int
	GetNamespace() string
	GetRetentionDays() int
}

func NewSystemInfoService() (SystemInfoService, error) {
	s := &systemInfoServiceImpl{
		systemInfoMap: make(map[string]interface{})}
	if err := s.Init(); err != nil {
		log.Error("Failed to read system info: " + err.Error())
		return nil, err
	}
	return s, nil
}

type systemInfoServiceImpl struct {
	systemInfoMap map[string]interface{}
}

func (g systemInfoServiceImpl) Init() error {
	g.setListenAddress()
	g.setOriginAllowed()
	g.setLogLevel()
	g.setOlricDiscoveryMode()
	g.setReplicaCount()
	g.setNamespace()
	g.setRetentionDays()

	if err := g.setRequired(CHECKER_URL); err != nil {
		return err
	}
	g.systemInfoMap[CHECKER_API_KEY] = os.Getenv(CHECKER_API_KEY)
	if err := g.setRequired(PLATFORM_URL); err != nil {
		return err
	}
	if err := g.setRequired(PLATFORM_ACCESS_TOKEN); err != nil {
		return err
	}

	return g.setDbCredentials()
}

func (g systemInfoServiceImpl) setRequired(env string) error {
	value := os.Getenv(env)
	if value == "" {
		return fmt.Errorf("%s env is not set", env)
	}
	g.systemInfoMap[env] = value
	return nil
}

func (g systemInfoServiceImpl) setListenAddress() {
	listenAddr := os.Getenv(LISTEN_ADDRESS)
	if listenAddr == "" {
		listenAddr = ":8080"
	}
	g.systemInfoMap[LISTEN_ADDRESS] = listenAddr
}

func (g systemInfoServiceImpl) GetListenAddress() string {
	return g.systemInfoMap[LISTEN_ADDRESS].(string)
}

func (g systemInfoServiceImpl) setOriginAllowed() {
	g.systemInfoMap[ORIGIN_ALLOWED] = os.Getenv(ORIGIN_ALLOWED)
}

func (g systemInfoServiceImpl) GetOriginAllowed() string {
	return g.systemInfoMap[ORIGIN_ALLOWED].(string)
}

func (g systemInfoServiceImpl) setLogLevel() {
	g.systemInfoMap[LOG_LEVEL] = os.Getenv(LOG_LEVEL)
}

func (g systemInfoServiceImpl) GetLogLevel() string {
	return g.systemInfoMap[LOG_LEVEL].(string)
}

func (g systemInfoServiceImpl) GetCheckerUrl() string {
	return g.systemInfoMap[CHECKER_URL].(string)
}

func (g systemInfoServiceImpl) GetCheckerApiKey() string {
	return g.systemInfoMap[CHECKER_API_KEY].(string)
}

func (g systemInfoServiceImpl) GetPlatformUrl() string {
	return g.systemInfoMap[PLATFORM_URL].(string)
}

func (g systemInfoServiceImpl) GetPlatformAccessToken() string {
	return g.systemInfoMap[PLATFORM_ACCESS_TOKEN].(string)
}

func (g systemInfoServiceImpl) setDbCredentials() error {
	for _, env := range []string{DB_HOST, DB_NAME, DB_USERNAME, DB_PASSWORD} {
		if err := g.setRequired(env); err != nil {
			return err
		}
	}
	port := 5432
	if portStr := os.Getenv(DB_PORT); portStr != "" {
		parsed, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("%s env has incorrect value: %s", DB_PORT, portStr)
		}
		port = parsed
	}
	g.systemInfoMap[DB_PORT] = port
	return nil
}

func (g systemInfoServiceImpl) GetDbCredentials() db.Credentials {
	return db.Credentials{
		Host:     g.systemInfoMap[DB_HOST].(string),
		Port:     g.systemInfoMap[DB_PORT].(int),
		Database: g.systemInfoMap[DB_NAME].(string),
		Username: g.systemInfoMap[DB_USERNAME].(string),
		Password: g.systemInfoMap[DB_PASSWORD].(string),
	}
}

func (g systemInfoServiceImpl) setOlricDiscoveryMode() {
	g.systemInfoMap[OLRIC_DISCOVERY_MODE] = os.Getenv(OLRIC_DISCOVERY_MODE)
}

func (g systemInfoServiceImpl) GetOlricDiscoveryMode() string {
	return g.systemInfoMap[OLRIC_DISCOVERY_MODE].(string)
}

func (g systemInfoServiceImpl) setReplicaCount() {
	count, err := strconv.Atoi(os.Getenv(REPLICA_COUNT))
	if err != nil {
		count = 0
	}
	g.systemInfoMap[REPLICA_COUNT] = count
}

func (g systemInfoServiceImpl) GetReplicaCount() int {
	return g.systemInfoMap[REPLICA_COUNT].(int)
}

func (g systemInfoServiceImpl) setNamespace() {
	g.systemInfoMap[NAMESPACE] = os.Getenv(NAMESPACE)
}

func (g systemInfoServiceImpl) GetNamespace() string {
	return g.systemInfoMap[NAMESPACE].(string)
}

func (g systemInfoServiceImpl) setRetentionDays() {
	days, err := strconv.Atoi(os.Getenv(RETENTION_DAYS))
	if err != nil || days <= 0 {
		days = 90
	}
	g.systemInfoMap[RETENTION_DAYS] = days
}

func (g systemInfoServiceImpl) GetRetentionDays() int {
	return g.systemInfoMap[RETENTION_DAYS].(int)
}
