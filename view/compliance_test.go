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

package view

import (
	"encoding/json"
	"testing"
)

func TestComplianceSummaryMarshalMergesExtra(t *testing.T) {
	wcag := 92.5
	summary := ComplianceSummary{
		TotalIssues:     3,
		HighSeverity:    1,
		LowSeverity:     2,
		ComplianceScore: 92.5,
		WcagCompliance:  &wcag,
		Extra: map[string]interface{}{
			"scanEngine": "veraPDF",
			// a stale owned field in Extra must not shadow the typed value
			"totalIssues": 99,
		},
	}

	data, err := json.Marshal(summary)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if decoded["totalIssues"] != float64(3) {
		t.Errorf("expected totalIssues 3, got %v", decoded["totalIssues"])
	}
	if decoded["scanEngine"] != "veraPDF" {
		t.Errorf("expected scanEngine to pass through, got %v", decoded["scanEngine"])
	}
	if decoded["wcagCompliance"] != 92.5 {
		t.Errorf("expected wcagCompliance 92.5, got %v", decoded["wcagCompliance"])
	}
	if _, present := decoded["pdfuaCompliance"]; present {
		t.Errorf("expected nil pdfuaCompliance to be omitted")
	}
}

func TestComplianceSnapshotMarshal(t *testing.T) {
	snapshot := ComplianceSnapshot{
		ComplianceScore:    75,
		TotalVeraPDFIssues: 5,
		IsActive:           true,
		Extra:              map[string]interface{}{"lastScanId": "s1"},
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if decoded["complianceScore"] != float64(75) {
		t.Errorf("expected complianceScore 75, got %v", decoded["complianceScore"])
	}
	if decoded["totalVeraPDFIssues"] != float64(5) {
		t.Errorf("expected totalVeraPDFIssues 5, got %v", decoded["totalVeraPDFIssues"])
	}
	if decoded["isActive"] != true {
		t.Errorf("expected isActive true, got %v", decoded["isActive"])
	}
	if decoded["lastScanId"] != "s1" {
		t.Errorf("expected lastScanId to pass through, got %v", decoded["lastScanId"])
	}
}
