package config

import (
	"os"
	"testing"
)

func TestGetEnv(t *testing.T) {
	os.Setenv("TEST_VAR", "test_value")
	defer os.Unsetenv("TEST_VAR")

	result := getEnv("TEST_VAR", "default_value")
	if result != "test_value" {
		t.Errorf("getEnv() = %s, want %s", result, "test_value")
	}

	result = getEnv("NON_EXISTENT_VAR", "default_value")
	if result != "default_value" {
		t.Errorf("getEnv() = %s, want %s", result, "default_value")
	}

	os.Setenv("EMPTY_VAR", "")
	defer os.Unsetenv("EMPTY_VAR")

	result = getEnv("EMPTY_VAR", "default_value")
	if result != "default_value" {
		t.Errorf("getEnv() = %s, want %s", result, "default_value")
	}
}

func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected int
	}{
		{"Unset", "", 7},
		{"Valid", "12", 12},
		{"Padded", " 3 ", 3},
		{"Invalid", "twelve", 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_INT_VAR", tt.value)
			if result := getEnvInt("TEST_INT_VAR", 7); result != tt.expected {
				t.Errorf("getEnvInt() = %d, want %d", result, tt.expected)
			}
		})
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected bool
	}{
		{"Unset", "", true},
		{"False", "false", false},
		{"Zero", "0", false},
		{"True", "TRUE", true},
		{"Invalid", "maybe", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_BOOL_VAR", tt.value)
			if result := getEnvBool("TEST_BOOL_VAR", true); result != tt.expected {
				t.Errorf("getEnvBool() = %t, want %t", result, tt.expected)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	testVars := map[string]string{
		"API_URL":             "https://test-api.example.com",
		"ACCESS_KEY":          "test-access-key",
		"SECRET_KEY":          "test-secret-key",
		"BUCKET_NAME":         "test-bucket",
		"REGION":              "test-region",
		"SERVER_ADDR":         ":9090",
		"RESOLVE_CONCURRENCY": "4",
		"UPLOAD_PART_SIZE_MB": "16",
		"UPLOAD_CONCURRENCY":  "2",
		"COMPRESSION_LEVEL":   "9",
		"STRICT_TAGGING":      "false",
		"LOG_LEVEL":           "debug",
		"LOG_FORMAT":          "json",
	}

	for key, value := range testVars {
		t.Setenv(key, value)
	}

	config, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if config.ApiURL != testVars["API_URL"] {
		t.Errorf("config.ApiURL = %s, want %s", config.ApiURL, testVars["API_URL"])
	}
	if config.AccessKey != testVars["ACCESS_KEY"] {
		t.Errorf("config.AccessKey = %s, want %s", config.AccessKey, testVars["ACCESS_KEY"])
	}
	if config.SecretKey != testVars["SECRET_KEY"] {
		t.Errorf("config.SecretKey = %s, want %s", config.SecretKey, testVars["SECRET_KEY"])
	}
	if config.BucketName != testVars["BUCKET_NAME"] {
		t.Errorf("config.BucketName = %s, want %s", config.BucketName, testVars["BUCKET_NAME"])
	}
	if config.Region != testVars["REGION"] {
		t.Errorf("config.Region = %s, want %s", config.Region, testVars["REGION"])
	}
	if config.ServerAddr != ":9090" {
		t.Errorf("config.ServerAddr = %s, want %s", config.ServerAddr, ":9090")
	}
	if config.ResolveConcurrency != 4 {
		t.Errorf("config.ResolveConcurrency = %d, want %d", config.ResolveConcurrency, 4)
	}
	if config.UploadPartSizeMB != 16 {
		t.Errorf("config.UploadPartSizeMB = %d, want %d", config.UploadPartSizeMB, 16)
	}
	if config.UploadConcurrency != 2 {
		t.Errorf("config.UploadConcurrency = %d, want %d", config.UploadConcurrency, 2)
	}
	if config.CompressionLevel != 9 {
		t.Errorf("config.CompressionLevel = %d, want %d", config.CompressionLevel, 9)
	}
	if config.StrictTagging {
		t.Errorf("config.StrictTagging = %t, want %t", config.StrictTagging, false)
	}
	if config.LogLevel != "debug" {
		t.Errorf("config.LogLevel = %s, want %s", config.LogLevel, "debug")
	}
	if config.LogFormat != "json" {
		t.Errorf("config.LogFormat = %s, want %s", config.LogFormat, "json")
	}
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"API_URL", "ACCESS_KEY", "SECRET_KEY", "BUCKET_NAME", "REGION", "SERVER_ADDR",
		"RESOLVE_CONCURRENCY", "UPLOAD_PART_SIZE_MB", "UPLOAD_CONCURRENCY", "COMPRESSION_LEVEL",
		"STRICT_TAGGING", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}

	config, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if config.BucketName != "" {
		t.Errorf("config.BucketName = %s, want %s", config.BucketName, "")
	}
	if config.ServerAddr != ":8080" {
		t.Errorf("config.ServerAddr = %s, want %s", config.ServerAddr, ":8080")
	}
	if config.ResolveConcurrency != 0 {
		t.Errorf("config.ResolveConcurrency = %d, want %d", config.ResolveConcurrency, 0)
	}
	if config.UploadPartSizeMB != 5 {
		t.Errorf("config.UploadPartSizeMB = %d, want %d", config.UploadPartSizeMB, 5)
	}
	if config.CompressionLevel != -1 {
		t.Errorf("config.CompressionLevel = %d, want %d", config.CompressionLevel, -1)
	}
	if !config.StrictTagging {
		t.Errorf("config.StrictTagging = %t, want %t", config.StrictTagging, true)
	}
	if config.LogLevel != "info" {
		t.Errorf("config.LogLevel = %s, want %s", config.LogLevel, "info")
	}
}
