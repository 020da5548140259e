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
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Netcracker/qubership-pdf-accessibility-service/view"
)

// ComplianceEngine turns a raw accessibility report plus an optional checker
// status object into a normalized summary. It is stateless and total over its
// input domain: malformed or missing input degrades to zero counts and safe
// defaults, it never returns an error. Safe for concurrent use.
type ComplianceEngine interface {
	ComputeSummary(results interface{}, status map[string]interface{}) view.ComplianceSummary
	ComputeSnapshot(results interface{}, status map[string]interface{}) view.ComplianceSnapshot
	Reconcile(known map[string]interface{}, results interface{}, status map[string]interface{}) view.ComplianceSummary
}

// Report field names. The checker reports either a flat list under "issues"
// or a map of category name to issue list (older checker builds).
const (
	issuesField    = "issues"
	issueIdField   = "issueId"
	severityField  = "severity"
	criterionField = "criterion"
	clauseField    = "clause"

	wcagCategory  = "wcagIssues"
	pdfuaCategory = "pdfuaIssues"
)

// Summary / snapshot field names owned by the engine, everything else in the
// checker status is passed through verbatim.
const (
	totalIssuesField     = "totalIssues"
	highSeverityField    = "highSeverity"
	mediumSeverityField  = "mediumSeverity"
	lowSeverityField     = "lowSeverity"
	complianceScoreField = "complianceScore"
	wcagComplianceField  = "wcagCompliance"
	pdfuaComplianceField = "pdfuaCompliance"
	totalVeraIssuesField = "totalVeraPDFIssues"
	isActiveField        = "isActive"
)

type ComplianceEngineConfig struct {
	HighSeverityNames   []string
	MediumSeverityNames []string
	LowSeverityNames    []string
	// Compliance points subtracted per distinct qualifying issue when the
	// checker did not report a percentage itself.
	PenaltyPerIssue float64
}

func DefaultComplianceEngineConfig() ComplianceEngineConfig {
	return ComplianceEngineConfig{
		HighSeverityNames:   []string{"high", "critical"},
		MediumSeverityNames: []string{"medium"},
		LowSeverityNames:    []string{"low"},
		PenaltyPerIssue:     5,
	}
}

func NewComplianceEngine() ComplianceEngine {
	return NewComplianceEngineWithConfig(DefaultComplianceEngineConfig())
}

func NewComplianceEngineWithConfig(cfg ComplianceEngineConfig) ComplianceEngine {
	severities := make(map[string]view.Severity)
	for _, name := range cfg.LowSeverityNames {
		severities[strings.ToLower(name)] = view.SeverityLow
	}
	for _, name := range cfg.MediumSeverityNames {
		severities[strings.ToLower(name)] = view.SeverityMedium
	}
	for _, name := range cfg.HighSeverityNames {
		severities[strings.ToLower(name)] = view.SeverityHigh
	}
	return &complianceEngineImpl{severities: severities, penalty: cfg.PenaltyPerIssue}
}

type complianceEngineImpl struct {
	severities map[string]view.Severity
	penalty    float64
}

func (e *complianceEngineImpl) ComputeSummary(results interface{}, status map[string]interface{}) view.ComplianceSummary {
	t := e.tally(results)

	wcag := e.complianceValue(status[wcagComplianceField], t.wcag)
	pdfua := e.complianceValue(status[pdfuaComplianceField], t.pdfua)
	score, ok := combinedScore(&wcag, &pdfua)
	if !ok {
		score = 0
	}

	return view.ComplianceSummary{
		TotalIssues:     t.total,
		HighSeverity:    t.high,
		MediumSeverity:  t.medium,
		LowSeverity:     t.low,
		ComplianceScore: score,
		WcagCompliance:  &wcag,
		PdfuaCompliance: &pdfua,
		Extra:           passThroughFields(status, summaryOwnedFields),
	}
}

func (e *complianceEngineImpl) ComputeSnapshot(results interface{}, status map[string]interface{}) view.ComplianceSnapshot {
	t := e.tally(results)

	wcag := e.complianceValue(status[wcagComplianceField], t.wcag)
	pdfua := e.complianceValue(status[pdfuaComplianceField], t.pdfua)
	score, ok := combinedScore(&wcag, &pdfua)
	if !ok {
		score = 0
	}

	totalVera := t.total
	if v, finite := finiteNumber(status[totalVeraIssuesField]); finite {
		totalVera = int(v)
	}
	isActive, _ := status[isActiveField].(bool)

	return view.ComplianceSnapshot{
		ComplianceScore:    score,
		WcagCompliance:     &wcag,
		PdfuaCompliance:    &pdfua,
		TotalVeraPDFIssues: totalVera,
		IsActive:           isActive,
		Extra:              passThroughFields(status, snapshotOwnedFields),
	}
}

// Reconcile overlays a previously known summary (as the dashboard last saw
// it) on top of a freshly computed one. Counts that are not finite numbers
// in the known summary are taken from the fresh computation, per-standard
// percentages fall back the same way. The combined complianceScore is never
// trusted from the caller, it is always the freshly computed value.
func (e *complianceEngineImpl) Reconcile(known map[string]interface{}, results interface{}, status map[string]interface{}) view.ComplianceSummary {
	fallback := e.ComputeSummary(results, status)
	result := fallback

	extra := make(map[string]interface{}, len(fallback.Extra)+len(known))
	for k, v := range fallback.Extra {
		extra[k] = v
	}
	for k, v := range known {
		if _, owned := summaryOwnedFields[k]; !owned {
			extra[k] = v
		}
	}
	result.Extra = extra

	if v, ok := finiteNumber(known[totalIssuesField]); ok {
		result.TotalIssues = int(v)
	}
	if v, ok := finiteNumber(known[highSeverityField]); ok {
		result.HighSeverity = int(v)
	}
	if v, ok := finiteNumber(known[mediumSeverityField]); ok {
		result.MediumSeverity = int(v)
	}
	if v, ok := finiteNumber(known[lowSeverityField]); ok {
		result.LowSeverity = int(v)
	}
	if v, ok := finiteNumber(known[wcagComplianceField]); ok {
		result.WcagCompliance = &v
	}
	if v, ok := finiteNumber(known[pdfuaComplianceField]); ok {
		result.PdfuaCompliance = &v
	}
	// complianceScore stays as computed in fallback

	return result
}

var summaryOwnedFields = map[string]struct{}{
	totalIssuesField:     {},
	highSeverityField:    {},
	mediumSeverityField:  {},
	lowSeverityField:     {},
	complianceScoreField: {},
	wcagComplianceField:  {},
	pdfuaComplianceField: {},
}

var snapshotOwnedFields = map[string]struct{}{
	complianceScoreField: {},
	wcagComplianceField:  {},
	pdfuaComplianceField: {},
	totalVeraIssuesField: {},
	isActiveField:        {},
}

type issueTally struct {
	total  int
	high   int
	medium int
	low    int
	// distinct qualifying counts derived from the flat issue list
	wcag  int
	pdfua int
}

// tally walks the report once. A report with a recognized flat "issues" list
// is counted from that list alone, otherwise every other key holding an issue
// list is treated as a category of the older report form. Identifier dedup is
// applied within a single list, issues without an id always count.
func (e *complianceEngineImpl) tally(results interface{}) issueTally {
	var t issueTally

	resultsMap, ok := results.(map[string]interface{})
	if !ok {
		return t
	}

	if flat, isList := asIssueList(resultsMap[issuesField]); isList {
		e.tallySequence(flat, &t, true)
	} else {
		for name, raw := range resultsMap {
			if name == issuesField {
				continue
			}
			seq, isSeq := asIssueList(raw)
			if !isSeq {
				continue
			}
			e.tallySequence(seq, &t, false)
		}
	}

	// Checker builds were migrated from per-category lists to the flat list,
	// an empty flat count must not hide a still-populated category array.
	if t.wcag == 0 {
		t.wcag = categoryLength(resultsMap, wcagCategory)
	}
	if t.pdfua == 0 {
		t.pdfua = categoryLength(resultsMap, pdfuaCategory)
	}

	// classification never drops an issue
	if shortfall := t.total - (t.high + t.medium + t.low); shortfall > 0 {
		t.low += shortfall
	}

	return t
}

func (e *complianceEngineImpl) tallySequence(seq []interface{}, t *issueTally, countStandards bool) {
	seen := make(map[string]struct{})

	for _, raw := range seq {
		issue, isObject := raw.(map[string]interface{})
		if isObject {
			if id := issueIdentifier(issue); id != "" {
				if _, dup := seen[id]; dup {
					continue
				}
				seen[id] = struct{}{}
			}
		}

		t.total++
		switch e.classifySeverity(issue, isObject) {
		case view.SeverityHigh:
			t.high++
		case view.SeverityMedium:
			t.medium++
		default:
			t.low++
		}

		if isObject && countStandards {
			if hasField(issue, criterionField) {
				t.wcag++
			}
			if hasField(issue, clauseField) {
				t.pdfua++
			}
		}
	}
}

// classifySeverity maps the free-text severity to the three dashboard
// buckets. Anything unknown, including a malformed issue entry, lands in Low
// so that the entry is counted but never over-reported.
func (e *complianceEngineImpl) classifySeverity(issue map[string]interface{}, isObject bool) view.Severity {
	if !isObject {
		return view.SeverityLow
	}
	name, _ := issue[severityField].(string)
	if severity, ok := e.severities[strings.ToLower(name)]; ok {
		return severity
	}
	return view.SeverityLow
}

// complianceValue prefers the percentage reported by the external checker,
// clamped to [0, 100]. Without one it derives the value from the issue count
// with a fixed penalty per issue.
func (e *complianceEngineImpl) complianceValue(external interface{}, issueCount int) float64 {
	if v, ok := finiteNumber(external); ok {
		return clampPercent(v)
	}
	return clampPercent(100 - float64(issueCount)*e.penalty)
}

// combinedScore averages the computable per-standard values, rounded to two
// decimals. Reports false when no component value is computable.
func combinedScore(values ...*float64) (float64, bool) {
	var sum float64
	var count int
	for _, v := range values {
		if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
			continue
		}
		sum += *v
		count++
	}
	if count == 0 {
		return 0, false
	}
	return math.Round(sum/float64(count)*100) / 100, true
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// finiteNumber is the single "present and finite" predicate used at every
// merge point. JSON decoding yields float64, the other branches cover values
// assembled in code.
func finiteNumber(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	case float32:
		return finiteNumber(float64(n))
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return finiteNumber(parsed)
	default:
		return 0, false
	}
}

func asIssueList(v interface{}) ([]interface{}, bool) {
	seq, ok := v.([]interface{})
	return seq, ok
}

func categoryLength(resultsMap map[string]interface{}, category string) int {
	if seq, ok := asIssueList(resultsMap[category]); ok {
		return len(seq)
	}
	return 0
}

// issueIdentifier returns the dedup key for an issue, or "" when the issue
// has no usable identifier and therefore always counts individually.
func issueIdentifier(issue map[string]interface{}) string {
	switch id := issue[issueIdField].(type) {
	case nil:
		return ""
	case string:
		return id
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", id)
	}
}

func hasField(issue map[string]interface{}, field string) bool {
	switch v := issue[field].(type) {
	case nil:
		return false
	case string:
		return v != ""
	default:
		return true
	}
}

func passThroughFields(status map[string]interface{}, owned map[string]struct{}) map[string]interface{} {
	if len(status) == 0 {
		return nil
	}
	extra := make(map[string]interface{})
	for k, v := range status {
		if _, isOwned := owned[k]; isOwned {
			continue
		}
		extra[k] = v
	}
	if len(extra) == 0 {
		return nil
	}
	return extra
}
