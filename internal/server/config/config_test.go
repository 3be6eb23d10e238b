package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	c := &Config{}
	c.LoadDefaults()

	if c.EndpointAddrHTTP != ":8080" {
		t.Fatalf("unexpected default address: %q", c.EndpointAddrHTTP)
	}
	if c.DatabaseDSN == "" || c.SecretKey == "" {
		t.Fatal("defaults must populate DSN and secret key")
	}
	if c.PresignExpiry != 15*time.Minute {
		t.Fatalf("unexpected default presign expiry: %v", c.PresignExpiry)
	}
}

func TestLoadConfig_FlagsOverrideDefaults(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()

	os.Args = []string{"server", "-a", ":9999", "-d", "postgres://x", "-x", "30"}

	c := LoadConfig()
	if c.EndpointAddrHTTP != ":9999" {
		t.Fatalf("flag -a not applied: %q", c.EndpointAddrHTTP)
	}
	if c.DatabaseDSN != "postgres://x" {
		t.Fatalf("flag -d not applied: %q", c.DatabaseDSN)
	}
	if c.PresignExpiry != 30*time.Minute {
		t.Fatalf("flag -x not applied: %v", c.PresignExpiry)
	}
	// untouched field keeps its default
	if c.S3Bucket != "snapshots" {
		t.Fatalf("unexpected bucket: %q", c.S3Bucket)
	}
}
