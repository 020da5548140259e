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
	"github.com/Netcracker/qubership-pdf-accessibility-service/client"
	"github.com/Netcracker/qubership-pdf-accessibility-service/utils"
	"github.com/Netcracker/qubership-pdf-accessibility-service/view"
	"github.com/buraksezer/olric"
	log "github.com/sirupsen/logrus"
)

// ScanEventListener receives scan completed notifications from all replicas
// and drops the affected snapshot from the local cache partition.
type ScanEventListener interface {
	Start()
}

func NewScanEventListener(op client.OlricProvider, scanService ScanService) ScanEventListener {
	return &scanEventListenerImpl{op: op, scanService: scanService}
}

type scanEventListenerImpl struct {
	op          client.OlricProvider
	scanService ScanService
}

func (l *scanEventListenerImpl) Start() {
	utils.SafeAsync(func() {
		dt, err := l.op.Get().NewDTopic(ScanCompletedTopicName, 0, olric.UnorderedDelivery)
		if err != nil {
			log.Errorf("Failed to subscribe to %s topic: %s", ScanCompletedTopicName, err.Error())
			return
		}
		_, err = dt.AddListener(func(msg olric.DTopicMessage) {
			notification, ok := msg.Message.(view.ScanCompletedNotification)
			if !ok {
				log.Warnf("Unexpected message type %T on %s topic", msg.Message, ScanCompletedTopicName)
				return
			}
			log.Debugf("Scan for document %s completed with status %s", notification.DocumentId, notification.Status)
			l.scanService.InvalidateSnapshot(notification.DocumentId)
		})
		if err != nil {
			log.Errorf("Failed to add listener to %s topic: %s", ScanCompletedTopicName, err.Error())
			return
		}
		log.Infof("Listening to %s topic", ScanCompletedTopicName)
	})
}
