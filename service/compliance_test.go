package service

import (
	"encoding/json"
	"reflect"
	"testing"
)

func decodeReport(t *testing.T, raw string) interface{} {
	t.Helper()
	var report interface{}
	if err := json.Unmarshal([]byte(raw), &report); err != nil {
		t.Fatalf("failed to decode report fixture: %v", err)
	}
	return report
}

func wcagIssue(id string, severity string) map[string]interface{} {
	issue := map[string]interface{}{"criterion": "1.1.1"}
	if id != "" {
		issue["issueId"] = id
	}
	if severity != "" {
		issue["severity"] = severity
	}
	return issue
}

func pdfuaIssue(id string, severity string) map[string]interface{} {
	issue := map[string]interface{}{"clause": "7.1"}
	if id != "" {
		issue["issueId"] = id
	}
	if severity != "" {
		issue["severity"] = severity
	}
	return issue
}

func TestComputeSummaryEmptyInput(t *testing.T) {
	engine := NewComplianceEngine()

	summary := engine.ComputeSummary(map[string]interface{}{}, nil)

	if summary.TotalIssues != 0 || summary.HighSeverity != 0 || summary.MediumSeverity != 0 || summary.LowSeverity != 0 {
		t.Errorf("empty input produced non-zero counts: %+v", summary)
	}
	// Zero issues means both per-standard fallbacks resolve to 100, so the
	// combined score is 100 as well. Pinned deliberately.
	if summary.WcagCompliance == nil || *summary.WcagCompliance != 100 {
		t.Errorf("wcagCompliance = %v, want 100", summary.WcagCompliance)
	}
	if summary.PdfuaCompliance == nil || *summary.PdfuaCompliance != 100 {
		t.Errorf("pdfuaCompliance = %v, want 100", summary.PdfuaCompliance)
	}
	if summary.ComplianceScore != 100 {
		t.Errorf("complianceScore = %v, want 100", summary.ComplianceScore)
	}
}

func TestComputeSummaryNonObjectInput(t *testing.T) {
	engine := NewComplianceEngine()

	for _, input := range []interface{}{nil, "not a report", 42.0, []interface{}{"x"}} {
		summary := engine.ComputeSummary(input, nil)
		if summary.TotalIssues != 0 {
			t.Errorf("input %v: totalIssues = %d, want 0", input, summary.TotalIssues)
		}
	}
}

func TestComputeSummarySeverityTally(t *testing.T) {
	engine := NewComplianceEngine()

	report := decodeReport(t, `{"issues": [
		{"severity": "high"},
		{"severity": "CRITICAL"},
		{"severity": "Medium"},
		{"severity": "low"},
		{"severity": "bogus"},
		{}
	]}`)

	summary := engine.ComputeSummary(report, nil)

	if summary.TotalIssues != 6 {
		t.Errorf("totalIssues = %d, want 6", summary.TotalIssues)
	}
	if summary.HighSeverity != 2 {
		t.Errorf("highSeverity = %d, want 2", summary.HighSeverity)
	}
	if summary.MediumSeverity != 1 {
		t.Errorf("mediumSeverity = %d, want 1", summary.MediumSeverity)
	}
	// unknown and absent severities fail safe to low
	if summary.LowSeverity != 3 {
		t.Errorf("lowSeverity = %d, want 3", summary.LowSeverity)
	}
}

func TestSeveritySumInvariant(t *testing.T) {
	engine := NewComplianceEngine()

	reports := []string{
		`{}`,
		`{"issues": []}`,
		`{"issues": [{"severity": "high"}, "malformed", 17, {"severity": "???"}]}`,
		`{"wcagIssues": [{"severity": "medium"}], "pdfuaIssues": [{}, {"severity": "HIGH"}], "otherIssues": ["junk"]}`,
		`{"issues": [{"issueId": "a"}, {"issueId": "a"}, {"issueId": "b", "severity": "critical"}]}`,
	}

	for _, raw := range reports {
		summary := engine.ComputeSummary(decodeReport(t, raw), nil)
		sum := summary.HighSeverity + summary.MediumSeverity + summary.LowSeverity
		if sum != summary.TotalIssues {
			t.Errorf("report %s: high+medium+low = %d, totalIssues = %d", raw, sum, summary.TotalIssues)
		}
		if summary.ComplianceScore < 0 || summary.ComplianceScore > 100 {
			t.Errorf("report %s: complianceScore %v out of range", raw, summary.ComplianceScore)
		}
	}
}

func TestMalformedIssueCountsAsLowButNeverQualifies(t *testing.T) {
	engine := NewComplianceEngine()

	report := map[string]interface{}{
		"issues": []interface{}{"malformed entry", wcagIssue("", "high")},
	}
	summary := engine.ComputeSummary(report, nil)

	if summary.TotalIssues != 2 {
		t.Errorf("totalIssues = %d, want 2", summary.TotalIssues)
	}
	if summary.LowSeverity != 1 {
		t.Errorf("lowSeverity = %d, want 1", summary.LowSeverity)
	}
	// one qualifying wcag issue -> 95
	if *summary.WcagCompliance != 95 {
		t.Errorf("wcagCompliance = %v, want 95", *summary.WcagCompliance)
	}
}

func TestIssueIdDeduplication(t *testing.T) {
	engine := NewComplianceEngine()

	report := map[string]interface{}{
		"issues": []interface{}{
			wcagIssue("dup-1", "high"),
			wcagIssue("dup-1", "high"),
			wcagIssue("", "low"),
			wcagIssue("", "low"),
		},
	}
	summary := engine.ComputeSummary(report, nil)

	// duplicate identifier collapses, id-less issues count individually
	if summary.TotalIssues != 3 {
		t.Errorf("totalIssues = %d, want 3", summary.TotalIssues)
	}
	// three distinct qualifying wcag issues -> 100 - 3*5
	if *summary.WcagCompliance != 85 {
		t.Errorf("wcagCompliance = %v, want 85", *summary.WcagCompliance)
	}
}

func TestFallbackFormula(t *testing.T) {
	engine := NewComplianceEngine()

	report := map[string]interface{}{
		"issues": []interface{}{
			wcagIssue("a", "high"),
			wcagIssue("b", "medium"),
			wcagIssue("c", "low"),
		},
	}
	summary := engine.ComputeSummary(report, nil)

	if *summary.WcagCompliance != 85 {
		t.Errorf("wcagCompliance = %v, want 85", *summary.WcagCompliance)
	}
	// no qualifying pdf/ua issues -> 100, combined (85+100)/2
	if *summary.PdfuaCompliance != 100 {
		t.Errorf("pdfuaCompliance = %v, want 100", *summary.PdfuaCompliance)
	}
	if summary.ComplianceScore != 92.5 {
		t.Errorf("complianceScore = %v, want 92.5", summary.ComplianceScore)
	}
}

func TestFallbackFormulaFloorsAtZero(t *testing.T) {
	engine := NewComplianceEngine()

	issues := make([]interface{}, 0, 25)
	for i := 0; i < 25; i++ {
		issues = append(issues, map[string]interface{}{"criterion": "1.3.1", "severity": "high"})
	}
	summary := engine.ComputeSummary(map[string]interface{}{"issues": issues}, nil)

	if *summary.WcagCompliance != 0 {
		t.Errorf("wcagCompliance = %v, want 0", *summary.WcagCompliance)
	}
}

func TestExternalValueWinsOverFallback(t *testing.T) {
	engine := NewComplianceEngine()

	report := map[string]interface{}{
		"issues": []interface{}{wcagIssue("a", "high"), wcagIssue("b", "high")},
	}
	status := map[string]interface{}{"wcagCompliance": 42.7}

	summary := engine.ComputeSummary(report, status)

	if *summary.WcagCompliance != 42.7 {
		t.Errorf("wcagCompliance = %v, want external 42.7", *summary.WcagCompliance)
	}
	// (42.7 + 100) / 2 rounded to 2 decimals
	if summary.ComplianceScore != 71.35 {
		t.Errorf("complianceScore = %v, want 71.35", summary.ComplianceScore)
	}
}

func TestExternalValueIsClamped(t *testing.T) {
	engine := NewComplianceEngine()

	summary := engine.ComputeSummary(map[string]interface{}{}, map[string]interface{}{
		"wcagCompliance":  150.0,
		"pdfuaCompliance": -20.0,
	})

	if *summary.WcagCompliance != 100 {
		t.Errorf("wcagCompliance = %v, want clamped 100", *summary.WcagCompliance)
	}
	if *summary.PdfuaCompliance != 0 {
		t.Errorf("pdfuaCompliance = %v, want clamped 0", *summary.PdfuaCompliance)
	}
}

func TestNonFiniteExternalValueIgnored(t *testing.T) {
	engine := NewComplianceEngine()

	summary := engine.ComputeSummary(map[string]interface{}{}, map[string]interface{}{
		"wcagCompliance": "93%",
	})

	if *summary.WcagCompliance != 100 {
		t.Errorf("wcagCompliance = %v, want fallback 100", *summary.WcagCompliance)
	}
}

func TestLegacyShape(t *testing.T) {
	engine := NewComplianceEngine()

	report := decodeReport(t, `{
		"wcagIssues": [{"issueId": "w1", "severity": "high"}, {"issueId": "w2", "severity": "medium"}],
		"pdfuaIssues": [{"issueId": "p1", "severity": "low"}],
		"customIssues": [{"severity": "high"}]
	}`)

	summary := engine.ComputeSummary(report, nil)

	if summary.TotalIssues != 4 {
		t.Errorf("totalIssues = %d, want 4", summary.TotalIssues)
	}
	// per-standard counts come from the named category lengths
	if *summary.WcagCompliance != 90 {
		t.Errorf("wcagCompliance = %v, want 90", *summary.WcagCompliance)
	}
	if *summary.PdfuaCompliance != 95 {
		t.Errorf("pdfuaCompliance = %v, want 95", *summary.PdfuaCompliance)
	}
}

func TestLegacyShapeNoCrossCategoryDedup(t *testing.T) {
	engine := NewComplianceEngine()

	report := map[string]interface{}{
		"wcagIssues":  []interface{}{wcagIssue("shared", "high"), wcagIssue("shared", "high")},
		"pdfuaIssues": []interface{}{pdfuaIssue("shared", "low")},
	}
	summary := engine.ComputeSummary(report, nil)

	// dedup applies within a category, not across categories
	if summary.TotalIssues != 2 {
		t.Errorf("totalIssues = %d, want 2", summary.TotalIssues)
	}
}

func TestLegacyCanonicalEquivalence(t *testing.T) {
	engine := NewComplianceEngine()

	legacy := decodeReport(t, `{"wcagIssues": [{"issueId": "a"}, {"issueId": "b"}]}`)
	canonical := decodeReport(t, `{"issues": [{"issueId": "a", "criterion": "1.1.1"}, {"issueId": "b", "criterion": "1.4.3"}]}`)

	legacySummary := engine.ComputeSummary(legacy, nil)
	canonicalSummary := engine.ComputeSummary(canonical, nil)

	if *legacySummary.WcagCompliance != *canonicalSummary.WcagCompliance {
		t.Errorf("legacy wcagCompliance %v != canonical %v",
			*legacySummary.WcagCompliance, *canonicalSummary.WcagCompliance)
	}
	if *canonicalSummary.WcagCompliance != 90 {
		t.Errorf("wcagCompliance = %v, want 90", *canonicalSummary.WcagCompliance)
	}
}

func TestCanonicalShapeFallsBackToCategoryLength(t *testing.T) {
	engine := NewComplianceEngine()

	// flat list present but carries no qualifying issues, the still-populated
	// category array must not be hidden by the migration
	report := decodeReport(t, `{
		"issues": [{"issueId": "x", "severity": "high"}],
		"wcagIssues": [{"issueId": "a"}, {"issueId": "b"}]
	}`)

	summary := engine.ComputeSummary(report, nil)

	if summary.TotalIssues != 1 {
		t.Errorf("totalIssues = %d, want 1 (flat list wins for the tally)", summary.TotalIssues)
	}
	if *summary.WcagCompliance != 90 {
		t.Errorf("wcagCompliance = %v, want 90 from category length", *summary.WcagCompliance)
	}
}

func TestIssuesFieldNotAListFallsBackToCategories(t *testing.T) {
	engine := NewComplianceEngine()

	report := decodeReport(t, `{
		"issues": "corrupted",
		"wcagIssues": [{"issueId": "a", "severity": "high"}]
	}`)

	summary := engine.ComputeSummary(report, nil)

	if summary.TotalIssues != 1 {
		t.Errorf("totalIssues = %d, want 1", summary.TotalIssues)
	}
	if *summary.WcagCompliance != 95 {
		t.Errorf("wcagCompliance = %v, want 95", *summary.WcagCompliance)
	}
}

func TestComputeSummaryIdempotent(t *testing.T) {
	engine := NewComplianceEngine()

	report := decodeReport(t, `{"issues": [
		{"issueId": "a", "severity": "high", "criterion": "1.1.1"},
		{"issueId": "b", "severity": "medium", "clause": "7.2"}
	]}`)
	status := map[string]interface{}{"wcagCompliance": 50.0, "isActive": true}

	first := engine.ComputeSummary(report, status)
	second := engine.ComputeSummary(report, status)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("ComputeSummary is not idempotent: %+v vs %+v", first, second)
	}
}

func TestStatusPassThrough(t *testing.T) {
	engine := NewComplianceEngine()

	status := map[string]interface{}{
		"wcagCompliance": 80.0,
		"isActive":       true,
		"checkerVersion": "1.26.2",
		"profile":        map[string]interface{}{"name": "ua-1"},
	}
	summary := engine.ComputeSummary(map[string]interface{}{}, status)

	if summary.Extra["checkerVersion"] != "1.26.2" {
		t.Errorf("checkerVersion not passed through: %v", summary.Extra)
	}
	if summary.Extra["isActive"] != true {
		t.Errorf("isActive not passed through: %v", summary.Extra)
	}
	if _, ok := summary.Extra["wcagCompliance"]; ok {
		t.Errorf("wcagCompliance must not be duplicated in pass-through fields")
	}
}

func TestComputeSnapshot(t *testing.T) {
	engine := NewComplianceEngine()

	report := decodeReport(t, `{"issues": [{"issueId": "a", "criterion": "1.1.1"}]}`)
	status := map[string]interface{}{
		"totalVeraPDFIssues": 7.0,
		"isActive":           true,
		"checkerVersion":     "1.26.2",
	}

	snapshot := engine.ComputeSnapshot(report, status)

	if snapshot.TotalVeraPDFIssues != 7 {
		t.Errorf("totalVeraPDFIssues = %d, want external 7", snapshot.TotalVeraPDFIssues)
	}
	if !snapshot.IsActive {
		t.Errorf("isActive not taken from status")
	}
	if *snapshot.WcagCompliance != 95 {
		t.Errorf("wcagCompliance = %v, want 95", *snapshot.WcagCompliance)
	}
	if snapshot.Extra["checkerVersion"] != "1.26.2" {
		t.Errorf("checkerVersion not passed through: %v", snapshot.Extra)
	}
}

func TestComputeSnapshotDerivesTotalWithoutStatus(t *testing.T) {
	engine := NewComplianceEngine()

	report := decodeReport(t, `{"issues": [{"issueId": "a"}, {"issueId": "b"}]}`)
	snapshot := engine.ComputeSnapshot(report, nil)

	if snapshot.TotalVeraPDFIssues != 2 {
		t.Errorf("totalVeraPDFIssues = %d, want computed 2", snapshot.TotalVeraPDFIssues)
	}
	if snapshot.IsActive {
		t.Errorf("isActive must default to false")
	}
}

func TestReconcileOverlaysKnownCounts(t *testing.T) {
	engine := NewComplianceEngine()

	report := decodeReport(t, `{"issues": [{"severity": "high"}]}`)
	known := map[string]interface{}{
		"totalIssues":  10.0,
		"highSeverity": 4.0,
		"dashboardTag": "run-17",
	}

	summary := engine.Reconcile(known, report, nil)

	if summary.TotalIssues != 10 {
		t.Errorf("totalIssues = %d, want supplied 10", summary.TotalIssues)
	}
	if summary.HighSeverity != 4 {
		t.Errorf("highSeverity = %d, want supplied 4", summary.HighSeverity)
	}
	// fields the caller never supplied come from the fresh computation
	if summary.MediumSeverity != 0 || summary.LowSeverity != 0 {
		t.Errorf("unsupplied counts not taken from fallback: %+v", summary)
	}
	if summary.Extra["dashboardTag"] != "run-17" {
		t.Errorf("unrecognized caller field not preserved: %v", summary.Extra)
	}
}

func TestReconcileReplacesNonNumericCounts(t *testing.T) {
	engine := NewComplianceEngine()

	report := decodeReport(t, `{"issues": [{"severity": "high"}, {"severity": "low"}]}`)
	known := map[string]interface{}{
		"totalIssues":  "many",
		"highSeverity": nil,
	}

	summary := engine.Reconcile(known, report, nil)

	if summary.TotalIssues != 2 {
		t.Errorf("totalIssues = %d, want fallback 2", summary.TotalIssues)
	}
	if summary.HighSeverity != 1 {
		t.Errorf("highSeverity = %d, want fallback 1", summary.HighSeverity)
	}
}

func TestReconcileAlwaysRecomputesComplianceScore(t *testing.T) {
	engine := NewComplianceEngine()

	report := decodeReport(t, `{"issues": [
		{"issueId": "a", "criterion": "1.1.1"},
		{"issueId": "b", "criterion": "1.4.3"}
	]}`)
	known := map[string]interface{}{"complianceScore": 99.0}

	summary := engine.Reconcile(known, report, nil)

	// 2 wcag issues -> 90, no pdf/ua issues -> 100, combined 95
	if summary.ComplianceScore != 95 {
		t.Errorf("complianceScore = %v, want recomputed 95, caller value must never win", summary.ComplianceScore)
	}
}

func TestReconcileKeepsSuppliedComplianceValues(t *testing.T) {
	engine := NewComplianceEngine()

	known := map[string]interface{}{"wcagCompliance": 63.5}
	summary := engine.Reconcile(known, map[string]interface{}{}, nil)

	if *summary.WcagCompliance != 63.5 {
		t.Errorf("wcagCompliance = %v, want supplied 63.5", *summary.WcagCompliance)
	}
	// absent in the known summary -> fallback value
	if *summary.PdfuaCompliance != 100 {
		t.Errorf("pdfuaCompliance = %v, want fallback 100", *summary.PdfuaCompliance)
	}
}

func TestCustomEngineConfig(t *testing.T) {
	cfg := DefaultComplianceEngineConfig()
	cfg.PenaltyPerIssue = 10
	engine := NewComplianceEngineWithConfig(cfg)

	report := map[string]interface{}{
		"issues": []interface{}{wcagIssue("a", "high"), wcagIssue("b", "high")},
	}
	summary := engine.ComputeSummary(report, nil)

	if *summary.WcagCompliance != 80 {
		t.Errorf("wcagCompliance = %v, want 80 with penalty 10", *summary.WcagCompliance)
	}
}
