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
	"context"
	"time"

	"github.com/Netcracker/qubership-pdf-accessibility-service/client"
	"github.com/Netcracker/qubership-pdf-accessibility-service/view"
	log "github.com/sirupsen/logrus"
)

// StatusPoller tracks a checker job until it reaches a terminal status.
type StatusPoller interface {
	Poll(ctx context.Context, jobId string, onFinal func(job view.CheckerJob)) error
}

func NewStatusPoller(checkerClient client.CheckerClient) StatusPoller {
	return &statusPollerImpl{
		checkerClient: checkerClient,
		interval:      time.Second * 2,
		settleDelay:   time.Millisecond * 500,
	}
}

func NewStatusPollerWithTimings(checkerClient client.CheckerClient, interval time.Duration, settleDelay time.Duration) StatusPoller {
	return &statusPollerImpl{
		checkerClient: checkerClient,
		interval:      interval,
		settleDelay:   settleDelay,
	}
}

type statusPollerImpl struct {
	checkerClient client.CheckerClient
	interval      time.Duration
	settleDelay   time.Duration
}

// Poll requests the job status on a fixed interval and blocks until the job
// reaches a terminal status or ctx is cancelled. Transient fetch failures are
// logged and retried on the next tick. onFinal is called at most once, after a
// short settle delay that lets the checker flush the report for the job.
func (s statusPollerImpl) Poll(ctx context.Context, jobId string, onFinal func(job view.CheckerJob)) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			job, err := s.checkerClient.GetJobStatus(ctx, jobId)
			if err != nil {
				log.Warnf("Failed to get status for job %s: %s", jobId, err.Error())
				continue
			}
			if job == nil {
				log.Warnf("Job %s not found on checker, will retry", jobId)
				continue
			}
			log.Tracef("Job %s status: %s, progress: %v", jobId, job.Status, job.Progress)
			if !job.Status.Terminal() {
				continue
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(s.settleDelay):
			}
			if onFinal != nil {
				onFinal(*job)
			}
			return nil
		}
	}
}
