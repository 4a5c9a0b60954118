package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legaldesk/internal/model"
)

func TestChatPostgres_Append(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewChatPostgres(db)
	now := time.Now().UTC()
	msgs := []model.ChatMessage{
		{ID: "m1", Role: model.RoleUser, Content: "Who pays?", Timestamp: now},
		{ID: "m2", Role: model.RoleAssistant, Content: "The buyer.", Timestamp: now},
	}

	t.Run("commits all messages", func(t *testing.T) {
		mock.ExpectBegin()
		for _, m := range msgs {
			mock.ExpectExec("INSERT INTO chat_messages").
				WithArgs(m.ID, "doc-1", string(m.Role), m.Content, sqlmock.AnyArg(), now).
				WillReturnResult(sqlmock.NewResult(0, 1))
		}
		mock.ExpectCommit()

		err := repo.Append(context.Background(), "doc-1", msgs...)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on failure", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO chat_messages").WillReturnError(errors.New("disk full"))
		mock.ExpectRollback()

		err := repo.Append(context.Background(), "doc-1", msgs...)

		assert.EqualError(t, err, "disk full")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nothing to append", func(t *testing.T) {
		assert.NoError(t, repo.Append(context.Background(), "doc-1"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestChatPostgres_Recent(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewChatPostgres(db)
	first, _ := json.Marshal(model.ChatMessage{ID: "m1", Role: model.RoleUser, Content: "q"})
	second, _ := json.Marshal(model.ChatMessage{ID: "m2", Role: model.RoleAssistant, Content: "a"})

	mock.ExpectQuery("SELECT payload FROM (.+) ORDER BY seq ASC").
		WithArgs("doc-1", 50).
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow(first).AddRow(second))

	got, err := repo.Recent(context.Background(), "doc-1", 50)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "m1", got[0].ID)
	assert.Equal(t, model.RoleAssistant, got[1].Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChatPostgres_TrimAndClear(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewChatPostgres(db)

	mock.ExpectExec("DELETE FROM chat_messages WHERE conversation_id = (.+) AND seq NOT IN").
		WithArgs("doc-1", 20).
		WillReturnResult(sqlmock.NewResult(0, 5))
	mock.ExpectExec("DELETE FROM chat_messages WHERE conversation_id = ?").
		WithArgs("doc-1").
		WillReturnResult(sqlmock.NewResult(0, 20))

	assert.NoError(t, repo.Trim(context.Background(), "doc-1", 20))
	assert.NoError(t, repo.Clear(context.Background(), "doc-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
