package migration

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestEnsureMigrated(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(mock sqlmock.Sqlmock)
		wantErr    string
		wantEvent  string
	}{
		{
			name: "schema exists",
			setupMocks: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT to_regclass").
					WithArgs(sentinelTable).
					WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
			},
			wantEvent: "db_migration_skip",
		},
		{
			name: "fresh database",
			setupMocks: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT to_regclass").
					WithArgs(sentinelTable).
					WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
				for range steps {
					mock.ExpectExec("CREATE").WillReturnResult(sqlmock.NewResult(0, 0))
				}
			},
			wantEvent: "db_migration_success",
		},
		{
			name: "step fails",
			setupMocks: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT to_regclass").
					WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
				mock.ExpectExec("CREATE TABLE IF NOT EXISTS analyzed_documents").
					WillReturnError(errors.New("permission denied"))
			},
			wantErr:   "migration step create_table_analyzed_documents failed: permission denied",
			wantEvent: "db_migration_failed",
		},
		{
			name: "sentinel check fails",
			setupMocks: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT to_regclass").WillReturnError(errors.New("conn refused"))
			},
			wantErr:   "failed to check sentinel table: conn refused",
			wantEvent: "db_migration_failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()
			tt.setupMocks(mock)

			core, logs := observer.New(zap.DebugLevel)
			err = EnsureMigrated(context.Background(), db, zap.New(core), "db.local")

			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())

			found := logs.FilterField(zap.String("event", tt.wantEvent)).All()
			require.NotEmpty(t, found)
			assert.Equal(t, "db.local", found[0].ContextMap()["db_host"])
		})
	}
}
