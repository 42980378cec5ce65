// Command smoke checks that a deployed rankings stack is reachable:
// Redis answers a roundtrip and the data API serves its endpoints.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

func getenv(key, def string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return def
}

func testRedis(ctx context.Context, addr string) error {
	fmt.Println("Redis test")
	client := redis.NewClient(&redis.Options{
		Addr:        addr,
		DialTimeout: 2 * time.Second,
	})
	defer func() { _ = client.Close() }()

	pingErr := client.Ping(ctx).Err()
	if pingErr != nil {
		return fmt.Errorf("redis ping: %w", pingErr)
	}

	setErr := client.Set(ctx, "smoke", "ok", 30*time.Second).Err()
	if setErr != nil {
		return fmt.Errorf("redis set: %w", setErr)
	}

	val, err := client.Get(ctx, "smoke").Result()
	if err != nil {
		return fmt.Errorf("redis get: %w", err)
	}

	fmt.Println("redis GET smoke: ", val)
	return nil
}

func testAPI(baseURL string) error {
	fmt.Println("Data API test")
	base := strings.TrimRight(baseURL, "/")

	for _, path := range []string{
		"/healthz",
		"/readyz",
		"/data/regions?limit=2",
		"/data/provinces-with-regions",
	} {
		resp, err := http.Get(base + path)
		if err != nil {
			return fmt.Errorf("http get %s: %w", path, err)
		}
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		_ = resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("%s status %d: %s", path, resp.StatusCode, string(body))
		}
		fmt.Printf("%s ok (%d bytes)\n", path, len(body))
	}

	// one region deep enough to confirm joins work end to end
	resp, err := http.Get(base + "/data/regions?limit=1")
	if err != nil {
		return fmt.Errorf("http get regions: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var page struct {
		Data []struct {
			ID   int    `json:"id"`
			Name string `json:"name"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return fmt.Errorf("decode regions page: %w", err)
	}
	if len(page.Data) > 0 {
		fmt.Printf("sample region: %d %s\n", page.Data[0].ID, page.Data[0].Name)
	}
	return nil
}

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	redisAddr := getenv("REDIS_ADDR", "localhost:6379")
	apiURL := getenv("API_URL", "http://localhost:8080")

	failed := false
	if err := testRedis(ctx, redisAddr); err != nil {
		fmt.Println("redis check failed:", err)
		failed = true
	}
	if err := testAPI(apiURL); err != nil {
		fmt.Println("api check failed:", err)
		failed = true
	}
	if failed {
		os.Exit(1)
	}
	fmt.Println("all checks passed")
}
