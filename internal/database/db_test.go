package database_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"go-cashflow/internal/database"
	"go-cashflow/internal/models"

	"github.com/sirupsen/logrus"
)

func TestConnectLogsThroughLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(&buf)

	db, err := database.Connect("sqlite", "file:connect_logs?mode=memory&cache=shared", "silent", logger)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	sqlDB, _ := db.DB()
	t.Cleanup(func() { _ = sqlDB.Close() })

	if !db.Migrator().HasTable(&models.Tenant{}) {
		t.Fatalf("schema not migrated")
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("want connect and migrate lines, got %q", buf.String())
	}
	for _, line := range lines {
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("log line is not JSON: %q", line)
		}
	}
	if !strings.Contains(lines[0], `"driver":"sqlite"`) {
		t.Fatalf("connect line missing driver: %s", lines[0])
	}
}
