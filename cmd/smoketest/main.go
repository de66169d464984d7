package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
)

const (
	initialStock  = 20
	totalRequests = 50
)

// End-to-end driver for a running shopdesk server. It floods the desk
// with more orders than there is stock and verifies the bookkeeping
// afterwards: every order is accepted and processed, revenue matches
// the sum of processed totals, and the oversold stock clamps at zero.
func main() {
	baseURL := os.Getenv("SHOPDESK_ADDR")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	client := &http.Client{Timeout: 10 * time.Second}

	// Register a dedicated item so seed data cannot interfere.
	itemID := createItem(client, baseURL)
	setStock(client, baseURL, itemID, decimal.NewFromInt(initialStock))

	revenueBefore := getRevenue(client, baseURL)

	var accepted atomic.Int32
	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if placeOrder(client, baseURL, fmt.Sprintf("load-customer-%d", n), itemID) {
				accepted.Add(1)
			}
		}(i)
	}
	wg.Wait()

	// Drain the queue the way the desk operator would, one order at a
	// time, summing what each processed order was worth.
	processedTotal := decimal.Zero
	processedCount := 0
	for {
		total, ok := processNext(client, baseURL)
		if !ok {
			break
		}
		processedTotal = processedTotal.Add(total)
		processedCount++
	}
	elapsed := time.Since(start)

	revenueAfter := getRevenue(client, baseURL)
	stockLeft := getStock(client, baseURL, itemID)

	fmt.Println("========== SMOKE TEST RESULTS ==========")
	fmt.Printf("Orders placed:     %d/%d\n", accepted.Load(), totalRequests)
	fmt.Printf("Orders processed:  %d\n", processedCount)
	fmt.Printf("Revenue delta:     %s\n", revenueAfter.Sub(revenueBefore).String())
	fmt.Printf("Stock remaining:   %s\n", stockLeft.String())
	fmt.Printf("Duration:          %v\n", elapsed)
	fmt.Println("========================================")

	pass := true
	if accepted.Load() != totalRequests {
		pass = false
		fmt.Printf("FAIL: expected %d accepted orders, got %d\n", totalRequests, accepted.Load())
	}
	if !revenueAfter.Sub(revenueBefore).Equal(processedTotal) {
		pass = false
		fmt.Printf("FAIL: revenue delta %s does not match processed total %s\n",
			revenueAfter.Sub(revenueBefore).String(), processedTotal.String())
	}
	if !stockLeft.IsZero() {
		pass = false
		fmt.Printf("FAIL: oversold stock should clamp at 0, got %s\n", stockLeft.String())
	}
	if pass {
		fmt.Println("PASS: queue drained, revenue conserved, stock clamped at zero")
	} else {
		os.Exit(1)
	}
}

func createItem(client *http.Client, baseURL string) string {
	body := map[string]interface{}{
		"kind":           "unit",
		"name":           "Smoke Test Widget",
		"price_per_unit": "2.5",
		"weight":         "0.1",
	}
	var resp struct {
		ID string `json:"id"`
	}
	postJSON(client, baseURL+"/api/items", body, &resp, http.StatusCreated)
	if resp.ID == "" {
		log.Fatal("item registration returned no id")
	}
	return resp.ID
}

func setStock(client *http.Client, baseURL, itemID string, qty decimal.Decimal) {
	payload, _ := json.Marshal(map[string]interface{}{"item_id": itemID, "quantity": qty})
	req, err := http.NewRequest(http.MethodPut, baseURL+"/api/stock", bytes.NewReader(payload))
	if err != nil {
		log.Fatalf("build stock request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		log.Fatalf("set stock: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Fatalf("set stock: unexpected status %d", resp.StatusCode)
	}
}

func placeOrder(client *http.Client, baseURL, customer, itemID string) bool {
	body := map[string]interface{}{
		"customer": customer,
		"lines": []map[string]interface{}{
			{"item_id": itemID, "quantity": "1"},
		},
	}
	payload, _ := json.Marshal(body)
	resp, err := client.Post(baseURL+"/api/orders", "application/json", bytes.NewReader(payload))
	if err != nil {
		log.Printf("place order: %v", err)
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusCreated
}

func processNext(client *http.Client, baseURL string) (decimal.Decimal, bool) {
	resp, err := client.Post(baseURL+"/api/orders/process", "application/json", nil)
	if err != nil {
		log.Fatalf("process order: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return decimal.Zero, false
	}
	if resp.StatusCode != http.StatusOK {
		log.Fatalf("process order: unexpected status %d", resp.StatusCode)
	}

	var order struct {
		TotalPrice decimal.Decimal `json:"total_price"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		log.Fatalf("decode processed order: %v", err)
	}
	return order.TotalPrice, true
}

func getRevenue(client *http.Client, baseURL string) decimal.Decimal {
	var resp struct {
		TotalRevenue decimal.Decimal `json:"total_revenue"`
	}
	getJSON(client, baseURL+"/api/revenue", &resp)
	return resp.TotalRevenue
}

func getStock(client *http.Client, baseURL, itemID string) decimal.Decimal {
	var resp struct {
		Quantity decimal.Decimal `json:"quantity"`
	}
	getJSON(client, baseURL+"/api/stock?item_id="+itemID, &resp)
	return resp.Quantity
}

func postJSON(client *http.Client, url string, body, out interface{}, wantStatus int) {
	payload, _ := json.Marshal(body)
	resp, err := client.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		log.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		log.Fatalf("POST %s: unexpected status %d", url, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		log.Fatalf("POST %s: decode response: %v", url, err)
	}
}

func getJSON(client *http.Client, url string, out interface{}) {
	resp, err := client.Get(url)
	if err != nil {
		log.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Fatalf("GET %s: unexpected status %d", url, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		log.Fatalf("GET %s: decode response: %v", url, err)
	}
}
