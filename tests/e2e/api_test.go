package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tally/internal/dedup"
	"tally/internal/ledger"
	"tally/internal/rules"
)

const (
	ledgerServiceURL = "http://localhost:8083"
)

func TestLedgerServiceHealth(t *testing.T) {
	url := fmt.Sprintf("%s/health", ledgerServiceURL)
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var health map[string]interface{}
	err = json.NewDecoder(resp.Body).Decode(&health)
	require.NoError(t, err)
	assert.NotNil(t, health["status"])
}

func TestScreeningRulesCRUD(t *testing.T) {
	createReq := rules.CreateScreeningRuleRequest{
		Name:       "test_rule",
		Expression: "amount <= 1000.0",
		Priority:   10,
		Enabled:    boolPtr(true),
	}

	ruleID := createScreeningRule(t, createReq)
	defer deleteScreeningRule(t, ruleID)

	rule := getScreeningRule(t, ruleID)
	assert.Equal(t, createReq.Name, rule.Name)
	assert.Equal(t, createReq.Expression, rule.Expression)
	assert.Equal(t, createReq.Priority, rule.Priority)
	assert.Equal(t, *createReq.Enabled, rule.Enabled)

	all := listScreeningRules(t)
	assert.GreaterOrEqual(t, len(all), 1)
	found := false
	for _, r := range all {
		if r.ID == ruleID {
			found = true
			break
		}
	}
	assert.True(t, found, "created rule should be in the list")

	updateReq := rules.UpdateScreeningRuleRequest{
		Name:       stringPtr("updated_rule"),
		Expression: stringPtr("amount <= 500.0"),
		Priority:   intPtr(20),
		Enabled:    boolPtr(false),
	}
	updatedRule := updateScreeningRule(t, ruleID, updateReq)
	assert.Equal(t, *updateReq.Name, updatedRule.Name)
	assert.Equal(t, *updateReq.Expression, updatedRule.Expression)
	assert.Equal(t, *updateReq.Priority, updatedRule.Priority)
	assert.Equal(t, *updateReq.Enabled, updatedRule.Enabled)

	versions := getRuleVersions(t, ruleID)
	assert.GreaterOrEqual(t, len(versions), 1)

	auditLogs := getRuleAuditLogs(t, ruleID)
	assert.GreaterOrEqual(t, len(auditLogs), 0)
}

func TestWeekClose(t *testing.T) {
	marker := closeWeek(t)

	assert.Equal(t, "week_marker", marker.Kind)
	assert.Equal(t, "End of Week", marker.BetDetails)
	assert.Equal(t, "N/A", marker.AccountName)
	assert.NotEmpty(t, marker.Sheet)
	assert.Greater(t, marker.Seq, int64(0))

	sheets := listSheets(t)
	assert.Contains(t, sheets, marker.Sheet)

	summary := getSheetSummary(t, marker.Sheet)
	assert.Equal(t, marker.Sheet, summary.Sheet)
	assert.GreaterOrEqual(t, summary.MarkerCount, 1)
}

func TestConversionRates(t *testing.T) {
	rate := getRate(t, "USD")
	assert.Equal(t, "USD", rate.Base)
	assert.NotEmpty(t, rate.Quote)
	assert.True(t, rate.Rate.IsPositive(), "rate should be positive")

	lower := getRate(t, "eur")
	assert.Equal(t, "EUR", lower.Base, "currency codes should be upcased")
	assert.True(t, lower.Rate.IsPositive())
}

func TestDedupStats(t *testing.T) {
	stats := getDedupStats(t)
	assert.Greater(t, stats.TTLSeconds, 0)
	assert.GreaterOrEqual(t, stats.LiveClaims, 0)
}

func TestAuditLogs(t *testing.T) {
	createReq := rules.CreateScreeningRuleRequest{
		Name:       "audit_test_rule",
		Expression: "amount <= 1000.0",
		Priority:   10,
		Enabled:    boolPtr(true),
	}
	ruleID := createScreeningRule(t, createReq)
	defer deleteScreeningRule(t, ruleID)

	updateReq := rules.UpdateScreeningRuleRequest{
		Name: stringPtr("updated_audit_test_rule"),
	}
	_ = updateScreeningRule(t, ruleID, updateReq)

	time.Sleep(1 * time.Second)

	auditLogs := getRuleAuditLogs(t, ruleID)
	assert.GreaterOrEqual(t, len(auditLogs), 1)

	allLogs := getAllAuditLogs(t)
	assert.GreaterOrEqual(t, len(allLogs), 1)

	filteredLogs := getAllAuditLogsWithFilter(t, "", "screening")
	assert.GreaterOrEqual(t, len(filteredLogs), 1)
}

func TestValidationErrors(t *testing.T) {
	invalidReq := rules.CreateScreeningRuleRequest{
		Name: "",
	}
	resp := createScreeningRuleWithError(t, invalidReq)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	badExpression := rules.CreateScreeningRuleRequest{
		Name:       "bad_expression_rule",
		Expression: "not valid CEL !!!",
		Priority:   10,
	}
	resp = createScreeningRuleWithError(t, badExpression)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func createScreeningRule(t *testing.T, req rules.CreateScreeningRuleRequest) string {
	t.Helper()

	body, err := json.Marshal(req)
	require.NoError(t, err)

	resp, err := http.Post(
		fmt.Sprintf("%s/api/v1/rules/screening", ledgerServiceURL),
		"application/json",
		bytes.NewBuffer(body),
	)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var rule rules.ScreeningRule
	err = json.NewDecoder(resp.Body).Decode(&rule)
	require.NoError(t, err)

	return rule.ID
}

func getScreeningRule(t *testing.T, id string) rules.ScreeningRule {
	t.Helper()

	resp, err := http.Get(fmt.Sprintf("%s/api/v1/rules/screening/%s", ledgerServiceURL, id))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rule rules.ScreeningRule
	err = json.NewDecoder(resp.Body).Decode(&rule)
	require.NoError(t, err)

	return rule
}

func listScreeningRules(t *testing.T) []rules.ScreeningRule {
	t.Helper()

	resp, err := http.Get(fmt.Sprintf("%s/api/v1/rules/screening", ledgerServiceURL))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list []rules.ScreeningRule
	err = json.NewDecoder(resp.Body).Decode(&list)
	require.NoError(t, err)

	return list
}

func updateScreeningRule(t *testing.T, id string, req rules.UpdateScreeningRuleRequest) rules.ScreeningRule {
	t.Helper()

	body, err := json.Marshal(req)
	require.NoError(t, err)

	httpReq, err := http.NewRequest(
		"PUT",
		fmt.Sprintf("%s/api/v1/rules/screening/%s", ledgerServiceURL, id),
		bytes.NewBuffer(body),
	)
	require.NoError(t, err)
	httpReq.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(httpReq)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rule rules.ScreeningRule
	err = json.NewDecoder(resp.Body).Decode(&rule)
	require.NoError(t, err)

	return rule
}

func deleteScreeningRule(t *testing.T, id string) {
	t.Helper()

	httpReq, err := http.NewRequest(
		"DELETE",
		fmt.Sprintf("%s/api/v1/rules/screening/%s", ledgerServiceURL, id),
		nil,
	)
	require.NoError(t, err)

	client := &http.Client{}
	resp, err := client.Do(httpReq)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func getRuleVersions(t *testing.T, id string) []rules.RuleVersion {
	t.Helper()

	resp, err := http.Get(fmt.Sprintf("%s/api/v1/rules/screening/%s/versions", ledgerServiceURL, id))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var versions []rules.RuleVersion
	err = json.NewDecoder(resp.Body).Decode(&versions)
	require.NoError(t, err)

	return versions
}

func getRuleAuditLogs(t *testing.T, id string) []rules.AuditLog {
	t.Helper()

	resp, err := http.Get(fmt.Sprintf("%s/api/v1/rules/screening/%s/audit", ledgerServiceURL, id))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var logs []rules.AuditLog
	err = json.NewDecoder(resp.Body).Decode(&logs)
	require.NoError(t, err)

	return logs
}

func getAllAuditLogs(t *testing.T) []rules.AuditLog {
	t.Helper()
	return getAllAuditLogsWithFilter(t, "", "")
}

func getAllAuditLogsWithFilter(t *testing.T, ruleID, ruleType string) []rules.AuditLog {
	t.Helper()

	url := fmt.Sprintf("%s/api/v1/audit/logs", ledgerServiceURL)
	if ruleID != "" {
		url += fmt.Sprintf("?rule_id=%s", ruleID)
	}
	if ruleType != "" {
		if strings.Contains(url, "?") {
			url += "&"
		} else {
			url += "?"
		}
		url += fmt.Sprintf("rule_type=%s", ruleType)
	}

	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var logs []rules.AuditLog
	err = json.NewDecoder(resp.Body).Decode(&logs)
	require.NoError(t, err)

	return logs
}

func closeWeek(t *testing.T) ledger.Row {
	t.Helper()

	resp, err := http.Post(
		fmt.Sprintf("%s/api/v1/ledger/weeks/close", ledgerServiceURL),
		"application/json",
		nil,
	)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var marker ledger.Row
	err = json.NewDecoder(resp.Body).Decode(&marker)
	require.NoError(t, err)

	return marker
}

func listSheets(t *testing.T) []string {
	t.Helper()

	resp, err := http.Get(fmt.Sprintf("%s/api/v1/ledger/sheets", ledgerServiceURL))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var sheets []string
	err = json.NewDecoder(resp.Body).Decode(&sheets)
	require.NoError(t, err)

	return sheets
}

func getSheetSummary(t *testing.T, sheet string) ledger.SheetSummary {
	t.Helper()

	resp, err := http.Get(fmt.Sprintf("%s/api/v1/ledger/sheets/%s/summary", ledgerServiceURL, sheet))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var summary ledger.SheetSummary
	err = json.NewDecoder(resp.Body).Decode(&summary)
	require.NoError(t, err)

	return summary
}

func getRate(t *testing.T, currency string) ledger.RateResponse {
	t.Helper()

	resp, err := http.Get(fmt.Sprintf("%s/api/v1/rates/%s", ledgerServiceURL, currency))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rate ledger.RateResponse
	err = json.NewDecoder(resp.Body).Decode(&rate)
	require.NoError(t, err)

	return rate
}

func getDedupStats(t *testing.T) dedup.StatsResponse {
	t.Helper()

	resp, err := http.Get(fmt.Sprintf("%s/api/v1/dedup/stats", ledgerServiceURL))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stats dedup.StatsResponse
	err = json.NewDecoder(resp.Body).Decode(&stats)
	require.NoError(t, err)

	return stats
}

func createScreeningRuleWithError(t *testing.T, req rules.CreateScreeningRuleRequest) *http.Response {
	t.Helper()

	body, err := json.Marshal(req)
	require.NoError(t, err)

	resp, err := http.Post(
		fmt.Sprintf("%s/api/v1/rules/screening", ledgerServiceURL),
		"application/json",
		bytes.NewBuffer(body),
	)
	require.NoError(t, err)

	return resp
}

func boolPtr(b bool) *bool {
	return &b
}

func stringPtr(s string) *string {
	return &s
}

func intPtr(i int) *int {
	return &i
}
