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

import "encoding/json"

type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// ComplianceSummary is the normalized accessibility summary shown on the
// dashboard. Extra carries checker status fields that are not interpreted
// here but must survive the round trip to the client unchanged.
type ComplianceSummary struct {
	TotalIssues     int
	HighSeverity    int
	MediumSeverity  int
	LowSeverity     int
	ComplianceScore float64
	WcagCompliance  *float64
	PdfuaCompliance *float64
	Extra           map[string]interface{}
}

func (s ComplianceSummary) AsMap() map[string]interface{} {
	result := make(map[string]interface{}, len(s.Extra)+7)
	for k, v := range s.Extra {
		result[k] = v
	}
	result["totalIssues"] = s.TotalIssues
	result["highSeverity"] = s.HighSeverity
	result["mediumSeverity"] = s.MediumSeverity
	result["lowSeverity"] = s.LowSeverity
	result["complianceScore"] = s.ComplianceScore
	if s.WcagCompliance != nil {
		result["wcagCompliance"] = *s.WcagCompliance
	}
	if s.PdfuaCompliance != nil {
		result["pdfuaCompliance"] = *s.PdfuaCompliance
	}
	return result
}

func (s ComplianceSummary) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.AsMap())
}

// ComplianceSnapshot is the checker status enriched with locally computed
// compliance numbers. Same pass-through rules as ComplianceSummary.
type ComplianceSnapshot struct {
	ComplianceScore    float64
	WcagCompliance     *float64
	PdfuaCompliance    *float64
	TotalVeraPDFIssues int
	IsActive           bool
	Extra              map[string]interface{}
}

func (s ComplianceSnapshot) AsMap() map[string]interface{} {
	result := make(map[string]interface{}, len(s.Extra)+5)
	for k, v := range s.Extra {
		result[k] = v
	}
	result["complianceScore"] = s.ComplianceScore
	if s.WcagCompliance != nil {
		result["wcagCompliance"] = *s.WcagCompliance
	}
	if s.PdfuaCompliance != nil {
		result["pdfuaCompliance"] = *s.PdfuaCompliance
	}
	result["totalVeraPDFIssues"] = s.TotalVeraPDFIssues
	result["isActive"] = s.IsActive
	return result
}

func (s ComplianceSnapshot) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.AsMap())
}

// SummaryView mirrors ComplianceSummary with plain struct tags. It exists
// only as a reflection source for the JSON schema endpoint; the engine
// always produces ComplianceSummary.
type SummaryView struct {
	TotalIssues     int      `json:"totalIssues"`
	HighSeverity    int      `json:"highSeverity"`
	MediumSeverity  int      `json:"mediumSeverity"`
	LowSeverity     int      `json:"lowSeverity"`
	ComplianceScore float64  `json:"complianceScore"`
	WcagCompliance  *float64 `json:"wcagCompliance,omitempty"`
	PdfuaCompliance *float64 `json:"pdfuaCompliance,omitempty"`
}
