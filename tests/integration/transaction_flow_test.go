package integration

import (
	"fmt"
	"net/http"
	"testing"
)

// seededCategoryID fetches the ID of a default category seeded at registration.
func seededCategoryID(t *testing.T, app *testApp, token, group, name string) float64 {
	t.Helper()
	rec := app.request("GET", "/api/v1/categories", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("list categories failed: %d %s", rec.Code, rec.Body.String())
	}
	grouped := parseJSON(t, rec)["categories"].(map[string]interface{})
	for _, c := range grouped[group].([]interface{}) {
		cm := c.(map[string]interface{})
		if cm["name"] == name {
			return cm["id"].(float64)
		}
	}
	t.Fatalf("seeded category %q not found", name)
	return 0
}

func TestTransactionFlow_CreateListAndSummary(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t, "ledger@test.com", "password123")

	foodID := seededCategoryID(t, app, token, "expense", "Food & Dining")
	salaryID := seededCategoryID(t, app, token, "income", "Salary")

	// Record an expense and an income entry.
	rec := app.request("POST", "/api/v1/transactions",
		fmt.Sprintf(`{"categoryId":%.0f,"amount":"42.50","description":"Lunch","transactionDate":"2025-01-15"}`, foodID),
		token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create transaction failed: %d %s", rec.Code, rec.Body.String())
	}
	created := parseJSON(t, rec)["transaction"].(map[string]interface{})
	if created["amount"] != "42.5" {
		t.Errorf("expected amount 42.5, got %v", created["amount"])
	}
	if created["transactionDate"] != "2025-01-15" {
		t.Errorf("expected date 2025-01-15, got %v", created["transactionDate"])
	}
	transactionID := created["id"].(float64)

	rec = app.request("POST", "/api/v1/transactions",
		fmt.Sprintf(`{"categoryId":%.0f,"amount":"3000","description":"January salary","transactionDate":"2025-01-01"}`, salaryID),
		token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create income transaction failed: %d %s", rec.Code, rec.Body.String())
	}

	// Paginated listing, newest transaction date first.
	rec = app.request("GET", "/api/v1/transactions?page=1&limit=10", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("list transactions failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	data := result["data"].([]interface{})
	if len(data) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(data))
	}
	first := data[0].(map[string]interface{})
	if first["description"] != "Lunch" {
		t.Errorf("expected newest transaction first, got %v", first["description"])
	}
	meta := result["pagination"].(map[string]interface{})
	if meta["totalItems"] != float64(2) {
		t.Errorf("expected totalItems 2, got %v", meta["totalItems"])
	}

	// Filter by category type.
	rec = app.request("GET", "/api/v1/transactions?type=income", "", token)
	if data := parseJSON(t, rec)["data"].([]interface{}); len(data) != 1 {
		t.Errorf("expected 1 income transaction, got %d", len(data))
	}

	// Income and expense roll up into the summary.
	rec = app.request("GET", "/api/v1/transactions/stats/summary", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("summary failed: %d %s", rec.Code, rec.Body.String())
	}
	summary := parseJSON(t, rec)["summary"].(map[string]interface{})
	if summary["income"] != "3000" {
		t.Errorf("expected income 3000, got %v", summary["income"])
	}
	if summary["expenses"] != "42.5" {
		t.Errorf("expected expenses 42.5, got %v", summary["expenses"])
	}
	if summary["balance"] != "2957.5" {
		t.Errorf("expected balance 2957.5, got %v", summary["balance"])
	}

	// Update amount, then verify via a fresh read.
	path := fmt.Sprintf("/api/v1/transactions/%.0f", transactionID)
	rec = app.request("PUT", path, `{"amount":"50"}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("update transaction failed: %d %s", rec.Code, rec.Body.String())
	}
	rec = app.request("GET", path, "", token)
	updated := parseJSON(t, rec)["transaction"].(map[string]interface{})
	if updated["amount"] != "50" {
		t.Errorf("expected amount 50 after update, got %v", updated["amount"])
	}
	if updated["description"] != "Lunch" {
		t.Errorf("expected description untouched, got %v", updated["description"])
	}

	// Delete and verify it is gone.
	rec = app.request("DELETE", path, "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete transaction failed: %d %s", rec.Code, rec.Body.String())
	}
	rec = app.request("GET", path, "", token)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestTransactionFlow_CategoryOwnership(t *testing.T) {
	app := setupApp(t)
	tokenA, _ := app.registerUser(t, "owner@test.com", "password123")
	tokenB, _ := app.registerUser(t, "intruder@test.com", "password123")

	foreignID := app.createExpenseCategory(t, tokenA, "Garden")

	rec := app.request("POST", "/api/v1/transactions",
		fmt.Sprintf(`{"categoryId":%.0f,"amount":"10","description":"Seeds","transactionDate":"2025-01-01"}`, foreignID),
		tokenB)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for foreign category, got %d: %s", rec.Code, rec.Body.String())
	}
	errObj := parseJSON(t, rec)["error"].(map[string]interface{})
	if errObj["code"] != "INVALID_CATEGORY" {
		t.Errorf("expected INVALID_CATEGORY, got %v", errObj["code"])
	}
}
