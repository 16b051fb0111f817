package dbtest

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var schema = []string{
	`CREATE TABLE raw_messages (
  id TEXT PRIMARY KEY,
  message_control_id TEXT NOT NULL,
  sending_application TEXT NOT NULL DEFAULT '',
  sending_facility TEXT NOT NULL DEFAULT '',
  source_label TEXT NOT NULL DEFAULT '',
  payload BLOB NOT NULL,
  received_at DATETIME NOT NULL,
  created_at DATETIME,
  CONSTRAINT raw_messages_message_control_id_key UNIQUE (message_control_id)
);`,
	`CREATE TABLE ingest_audits (
  id TEXT PRIMARY KEY,
  message_control_id TEXT NOT NULL,
  raw_message_id TEXT NOT NULL,
  status TEXT NOT NULL,
  error_text TEXT,
  retry_count INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE quarantines (
  id TEXT PRIMARY KEY,
  message_control_id TEXT NOT NULL,
  raw_message_id TEXT,
  reason TEXT NOT NULL,
  detail TEXT,
  quarantined_at DATETIME NOT NULL,
  resolved_at DATETIME,
  resolved_by TEXT,
  resolution_note TEXT
);`,
	`CREATE TABLE test_orders (
  id TEXT PRIMARY KEY,
  order_number TEXT NOT NULL,
  medical_record_id TEXT NOT NULL,
  patient_last_name TEXT NOT NULL,
  patient_first_name TEXT NOT NULL,
  patient_dob DATETIME NOT NULL,
  gender TEXT NOT NULL,
  results_changed_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME,
  deleted_at DATETIME,
  CONSTRAINT test_orders_order_number_key UNIQUE (order_number)
);`,
	`CREATE TABLE test_results (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  test_code TEXT NOT NULL,
  entry_source TEXT NOT NULL,
  analyte_name TEXT NOT NULL,
  value_text TEXT NOT NULL,
  unit TEXT,
  reference_range TEXT,
  abnormal_flag TEXT NOT NULL DEFAULT '',
  measured_at DATETIME,
  source_message_control_id TEXT,
  entered_by TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE flag_rule_sets (
  id TEXT PRIMARY KEY,
  version INTEGER NOT NULL,
  activated_at DATETIME,
  created_at DATETIME,
  CONSTRAINT flag_rule_sets_version_key UNIQUE (version)
);`,
	`CREATE TABLE flag_rules (
  id TEXT PRIMARY KEY,
  rule_set_id TEXT NOT NULL,
  flag_code TEXT NOT NULL,
  severity TEXT NOT NULL,
  condition_type TEXT NOT NULL,
  condition_value TEXT NOT NULL,
  created_at DATETIME
);`,
	`CREATE TABLE flag_applications (
  id TEXT PRIMARY KEY,
  result_id TEXT NOT NULL,
  rule_id TEXT NOT NULL,
  rule_set_version INTEGER NOT NULL,
  flag_code TEXT NOT NULL,
  severity TEXT NOT NULL,
  analyte_name TEXT NOT NULL,
  value_text TEXT NOT NULL,
  created_at DATETIME
);`,
}

// Open returns an isolated in-memory sqlite DB with the ingestion schema
// applied. Each call gets its own database so parallel tests cannot interfere.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	for _, stmt := range schema {
		require.NoError(t, conn.Exec(stmt).Error)
	}

	return conn
}
