// Stockroom Feed Listener Example
//
// This is a minimal example of how to consume the product change feed over
// the streaming endpoint.
//
// Usage:
//   export STOCKROOM_URL="http://localhost:8080"
//   export STOCKROOM_EMAIL="owner@acme.test"
//   export STOCKROOM_PASSWORD="your-password"
//   go run main.go
//
// The listener logs in, subscribes to /api/v1/products/events and prints
// every product mutation until interrupted.

package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"
)

// ProductEvent is the wire form of a change feed event.
type ProductEvent struct {
	Kind      string   `json:"kind"`
	Product   *Product `json:"product,omitempty"`
	ProductID string   `json:"product_id,omitempty"`
}

type Product struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	UnitPrice  int64  `json:"unit_price"`
	CategoryID string `json:"category_id"`
}

func main() {
	baseURL := getenv("STOCKROOM_URL", "http://localhost:8080")
	email := os.Getenv("STOCKROOM_EMAIL")
	password := os.Getenv("STOCKROOM_PASSWORD")
	if email == "" || password == "" {
		log.Fatal("STOCKROOM_EMAIL and STOCKROOM_PASSWORD environment variables are required")
	}

	token, err := login(baseURL, email, password)
	if err != nil {
		log.Fatalf("login failed: %v", err)
	}
	log.Println("Logged in, subscribing to product events")

	if err := listen(baseURL, token); err != nil {
		log.Fatalf("stream ended: %v", err)
	}
}

func login(baseURL, email, password string) (string, error) {
	body, _ := json.Marshal(map[string]string{
		"email":    email,
		"password": password,
	})

	resp, err := http.Post(baseURL+"/api/v1/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var session struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return "", err
	}
	return session.Token, nil
}

func listen(baseURL, token string) error {
	req, err := http.NewRequest(http.MethodGet, baseURL+"/api/v1/products/events", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "text/event-stream")

	// No overall timeout: the stream stays open until interrupted.
	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, ":"):
			// Comment line; the server sends these as heartbeats.
		case strings.HasPrefix(line, "data: "):
			handleEvent(strings.TrimPrefix(line, "data: "))
		}
	}
	return scanner.Err()
}

func handleEvent(data string) {
	var event ProductEvent
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		log.Printf("bad event payload: %v", err)
		return
	}

	ts := time.Now().Format(time.TimeOnly)
	switch {
	case event.Product != nil:
		log.Printf("[%s] %s  %s (%s)  unit_price=%d category=%s",
			ts, event.Kind, event.Product.Name, event.Product.ID,
			event.Product.UnitPrice, event.Product.CategoryID)
	default:
		log.Printf("[%s] %s  %s", ts, event.Kind, event.ProductID)
	}
}

func getenv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
