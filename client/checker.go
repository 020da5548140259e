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

package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/Netcracker/qubership-pdf-accessibility-service/exception"
	"github.com/Netcracker/qubership-pdf-accessibility-service/view"
	log "github.com/sirupsen/logrus"
	"gopkg.in/resty.v1"
)

// CheckerClient talks to the external accessibility checking and remediation
// service (veraPDF based). Scans and fixes are asynchronous jobs on the
// checker side, the job id is used for status polling.
type CheckerClient interface {
	StartScan(ctx context.Context, documentName string, data []byte) (*view.CheckerJob, error)
	GetJobStatus(ctx context.Context, jobId string) (*view.CheckerJob, error)
	GetReport(ctx context.Context, jobId string) (*view.CheckerReport, error)
	ApplyFixes(ctx context.Context, documentName string, data []byte, req view.FixRequest) (*view.FixResult, []byte, error)
}

func NewCheckerClient(checkerUrl, apiKey string) CheckerClient {
	parsedUrl, err := url.Parse(checkerUrl)
	checkerHost := ""
	if err != nil {
		log.Errorf("Can't parse checker url: %v", err)
	} else {
		checkerHost = parsedUrl.Hostname()
	}

	tr := http.Transport{TLSClientConfig: &tls.Config{InsecureSkipVerify: true}}
	cl := http.Client{Transport: &tr, Timeout: time.Second * 60}
	client := resty.NewWithClient(&cl)
	if checkerHost != "" {
		client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(checkerHost))
	}

	return &checkerClientImpl{checkerUrl: checkerUrl, apiKey: apiKey, client: client}
}

type checkerClientImpl struct {
	checkerUrl string
	apiKey     string
	client     *resty.Client
}

func (c checkerClientImpl) makeRequest(ctx context.Context) *resty.Request {
	req := c.client.R()
	req.SetContext(ctx)
	req.SetHeader("api-key", c.apiKey)
	return req
}

func (c checkerClientImpl) StartScan(ctx context.Context, documentName string, data []byte) (*view.CheckerJob, error) {
	req := c.makeRequest(ctx)
	req.SetFileReader("file", documentName, bytes.NewReader(data))

	resp, err := req.Post(fmt.Sprintf("%s/api/v1/scans", c.checkerUrl))
	if err != nil {
		return nil, fmt.Errorf("failed to start scan for document %s: %s", documentName, err.Error())
	}
	if resp.StatusCode() == http.StatusUnauthorized || resp.StatusCode() == http.StatusForbidden {
		return nil, &exception.CustomError{
			Status:  http.StatusFailedDependency,
			Code:    exception.NoCheckerAccess,
			Message: exception.NoCheckerAccessMsg,
			Params:  map[string]interface{}{"code": resp.StatusCode()},
		}
	}
	if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusAccepted {
		return nil, fmt.Errorf("failed to start scan for document %s: status code %d %v", documentName, resp.StatusCode(), string(resp.Body()))
	}

	var job view.CheckerJob
	if err := json.Unmarshal(resp.Body(), &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (c checkerClientImpl) GetJobStatus(ctx context.Context, jobId string) (*view.CheckerJob, error) {
	req := c.makeRequest(ctx)
	resp, err := req.Get(fmt.Sprintf("%s/api/v1/jobs/%s", c.checkerUrl, url.PathEscape(jobId)))
	if err != nil {
		return nil, fmt.Errorf("failed to get status for job %s: %s", jobId, err.Error())
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("failed to get status for job %s: status code %d %v", jobId, resp.StatusCode(), string(resp.Body()))
	}

	var job view.CheckerJob
	if err := json.Unmarshal(resp.Body(), &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (c checkerClientImpl) GetReport(ctx context.Context, jobId string) (*view.CheckerReport, error) {
	req := c.makeRequest(ctx)
	resp, err := req.Get(fmt.Sprintf("%s/api/v1/jobs/%s/report", c.checkerUrl, url.PathEscape(jobId)))
	if err != nil {
		return nil, fmt.Errorf("failed to get report for job %s: %s", jobId, err.Error())
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("failed to get report for job %s: status code %d %v", jobId, resp.StatusCode(), string(resp.Body()))
	}

	var report view.CheckerReport
	if err := json.Unmarshal(resp.Body(), &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c checkerClientImpl) ApplyFixes(ctx context.Context, documentName string, data []byte, fixReq view.FixRequest) (*view.FixResult, []byte, error) {
	reqBody, err := json.Marshal(fixReq)
	if err != nil {
		return nil, nil, err
	}

	req := c.makeRequest(ctx)
	req.SetFileReader("file", documentName, bytes.NewReader(data))
	req.SetFormData(map[string]string{"request": string(reqBody)})

	resp, err := req.Post(fmt.Sprintf("%s/api/v1/fixes", c.checkerUrl))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to apply fixes for document %s: %s", documentName, err.Error())
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, nil, fmt.Errorf("failed to apply fixes for document %s: status code %d %v", documentName, resp.StatusCode(), string(resp.Body()))
	}

	// multipart response: fix metadata in a header, fixed document in the body
	var result view.FixResult
	resultHeader := resp.Header().Get("X-Fix-Result")
	if resultHeader != "" {
		if err := json.Unmarshal([]byte(resultHeader), &result); err != nil {
			log.Warnf("Failed to decode fix result header for document %s: %v", documentName, err)
		}
	}
	return &result, resp.Body(), nil
}
