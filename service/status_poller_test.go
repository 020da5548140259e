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
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Netcracker/qubership-pdf-accessibility-service/view"
)

type fakeCheckerClient struct {
	mu       sync.Mutex
	statuses []view.CheckerJob
	errs     []error
	calls    int
}

func (f *fakeCheckerClient) GetJobStatus(ctx context.Context, jobId string) (*view.CheckerJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	idx := f.calls
	f.calls++
	if idx < len(f.errs) && f.errs[idx] != nil {
		return nil, f.errs[idx]
	}
	if idx >= len(f.statuses) {
		idx = len(f.statuses) - 1
	}
	job := f.statuses[idx]
	return &job, nil
}

func (f *fakeCheckerClient) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeCheckerClient) StartScan(ctx context.Context, documentName string, data []byte) (*view.CheckerJob, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeCheckerClient) GetReport(ctx context.Context, jobId string) (*view.CheckerReport, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeCheckerClient) ApplyFixes(ctx context.Context, documentName string, data []byte, req view.FixRequest) (*view.FixResult, []byte, error) {
	return nil, nil, errors.New("not implemented")
}

func TestPollStopsOnTerminalStatus(t *testing.T) {
	checker := &fakeCheckerClient{statuses: []view.CheckerJob{
		{JobId: "j1", Status: view.CheckerJobQueued},
		{JobId: "j1", Status: view.CheckerJobProcessing},
		{JobId: "j1", Status: view.CheckerJobDone},
	}}
	poller := NewStatusPollerWithTimings(checker, time.Millisecond, time.Millisecond)

	finals := 0
	var final view.CheckerJob
	err := poller.Poll(context.Background(), "j1", func(job view.CheckerJob) {
		finals++
		final = job
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if finals != 1 {
		t.Errorf("expected exactly one final notification, got %d", finals)
	}
	if final.Status != view.CheckerJobDone {
		t.Errorf("expected final status %s, got %s", view.CheckerJobDone, final.Status)
	}
	if checker.callCount() != 3 {
		t.Errorf("expected 3 status calls, got %d", checker.callCount())
	}
}

func TestPollRetriesTransientErrors(t *testing.T) {
	checker := &fakeCheckerClient{
		statuses: []view.CheckerJob{
			{JobId: "j1", Status: view.CheckerJobProcessing},
			{JobId: "j1", Status: view.CheckerJobProcessing},
			{JobId: "j1", Status: view.CheckerJobFailed},
		},
		errs: []error{nil, errors.New("connection reset"), nil},
	}
	poller := NewStatusPollerWithTimings(checker, time.Millisecond, time.Millisecond)

	finals := 0
	var final view.CheckerJob
	err := poller.Poll(context.Background(), "j1", func(job view.CheckerJob) {
		finals++
		final = job
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if finals != 1 {
		t.Errorf("expected exactly one final notification, got %d", finals)
	}
	if final.Status != view.CheckerJobFailed {
		t.Errorf("expected final status %s, got %s", view.CheckerJobFailed, final.Status)
	}
}

func TestPollStopsAtDeadline(t *testing.T) {
	checker := &fakeCheckerClient{statuses: []view.CheckerJob{
		{JobId: "j1", Status: view.CheckerJobProcessing},
	}}
	poller := NewStatusPollerWithTimings(checker, time.Millisecond, time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond*20)
	defer cancel()

	finals := 0
	err := poller.Poll(ctx, "j1", func(job view.CheckerJob) {
		finals++
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context.DeadlineExceeded, got %v", err)
	}
	if finals != 0 {
		t.Errorf("expected no final notification after deadline, got %d", finals)
	}
}

func TestPollCancelledContextSkipsFinal(t *testing.T) {
	checker := &fakeCheckerClient{statuses: []view.CheckerJob{
		{JobId: "j1", Status: view.CheckerJobProcessing},
	}}
	poller := NewStatusPollerWithTimings(checker, time.Millisecond, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(time.Millisecond * 20)
		cancel()
	}()

	finals := 0
	err := poller.Poll(ctx, "j1", func(job view.CheckerJob) {
		finals++
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if finals != 0 {
		t.Errorf("expected no final notification after cancellation, got %d", finals)
	}
}
