package rdb

import (
	"context"
	"log"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/vlatan/advocacy-site/internal/config"
)

var ( // Package global variables
	testCfg        *config.Config
	testRdb        *Service
	testServer     *miniredis.Miniredis
	baseCtx, noCtx context.Context
)

// Sets up an in-memory Redis server for all tests in this package to use
func TestMain(m *testing.M) {

	// Run all the tests.
	// Needs a separate function to be able to run the defers inside,
	// because they will not work with the os.Exit below.
	exitCode := runTests(m)

	// Exit with the appropriate code
	os.Exit(exitCode)
}

// runTests performs a setup and runs all the tests in this package
func runTests(m *testing.M) int {

	// Main context - globaly available for package's tests
	baseCtx = context.Background()

	// No Context - globaly available for package's tests
	c, cancel := context.WithCancel(baseCtx)
	noCtx = c
	cancel()

	server, err := miniredis.Run()
	if err != nil {
		log.Fatalf("failed to start Redis server; %v", err)
	}
	defer server.Close()
	testServer = server

	port, err := strconv.Atoi(server.Port())
	if err != nil {
		log.Fatalf("invalid Redis port; %v", err)
	}

	// Test config - globaly available for package's tests
	testCfg = &config.Config{RedisHost: server.Host(), RedisPort: port}

	// Redis service - globaly available for package's tests
	testRdb, err = New(testCfg)
	if err != nil {
		log.Fatalf("failed to create Redis client; %v", err)
	}

	defer func() { testRdb.Client.Close() }()

	// Run all the tests in the package
	return m.Run()
}

func TestNew(t *testing.T) {

	// Invalid host
	invalidHostCfg := *testCfg
	invalidHostCfg.RedisHost = "::invalid"

	tests := []struct {
		name    string
		cfg     *config.Config
		wantErr bool
	}{
		{"nil config", nil, true},
		{"invalid host", &invalidHostCfg, true},
		{"valid config", testCfg, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {

			// Create Redis client
			rdb, err := New(tt.cfg)

			// Check for error on creation.
			// Exit early if error.
			if gotErr := err != nil; gotErr {
				if gotErr != tt.wantErr {
					t.Errorf("got error = %v, want error = %t", err, tt.wantErr)
				}
				return
			}

			t.Cleanup(func() { rdb.Client.Close() })

			// Set timeout context for the ping
			pingCtx, cancel := context.WithTimeout(baseCtx, 2*time.Second)
			t.Cleanup(func() { cancel() })

			// Check for error on ping
			err = rdb.Client.Ping(pingCtx).Err()
			if gotErr := err != nil; gotErr != tt.wantErr {
				t.Errorf("got error = %v, want error = %t", err, tt.wantErr)
			}
		})
	}
}

func TestHealth(t *testing.T) {

	tests := []struct {
		name    string
		ctx     context.Context
		wantErr bool
	}{
		{"cancelled context", noCtx, true},
		{"valid result", baseCtx, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := testRdb.Health(tt.ctx)
			if err, gotErr := stats["error"]; gotErr != tt.wantErr {
				t.Errorf("got error = %v, want error = %t", err, tt.wantErr)
			}
		})
	}
}

func TestAllow(t *testing.T) {

	key := "rate:test"
	limit := int64(3)

	for i := range 5 {
		allowed, err := testRdb.Allow(baseCtx, key, limit, time.Minute)
		if err != nil {
			t.Fatalf("unexpected error on hit %d; %v", i+1, err)
		}

		if want := int64(i) < limit; allowed != want {
			t.Errorf("hit %d: got allowed = %t, want %t", i+1, allowed, want)
		}
	}

	if ttl := testServer.TTL(key); ttl <= 0 || ttl > time.Minute {
		t.Errorf("got TTL %s, want a TTL within the window", ttl)
	}

	// The window is over, the counter starts again
	testServer.FastForward(time.Minute)

	allowed, err := testRdb.Allow(baseCtx, key, limit, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error; %v", err)
	}

	if !allowed {
		t.Error("expected the hit to be allowed in a new window")
	}
}

func TestAllowCancelledContext(t *testing.T) {
	if _, err := testRdb.Allow(noCtx, "rate:cancelled", 1, time.Minute); err == nil {
		t.Error("expected an error with a cancelled context")
	}
}
