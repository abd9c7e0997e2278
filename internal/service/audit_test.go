package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/bookshelf/internal/domain"
)

func TestAuditService_Record(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	u := env.user(t, "reader", "pw", domain.RoleUser)

	env.audit.Record(ctx, nil, "/", "")
	env.audit.Record(ctx, &u.ID, "/3/view", "req-7")

	entries, err := env.audit.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "req-7", entries[0].RequestID)
	assert.Equal(t, u.ID, *entries[0].UserID)

	_, err = uuid.Parse(entries[1].RequestID)
	assert.NoError(t, err, "missing request id is replaced with a uuid")
	assert.Nil(t, entries[1].UserID)
}

func TestAuditService_Record_SwallowsErrors(t *testing.T) {
	env := setupServices(t)
	missing := int64(999)

	assert.NotPanics(t, func() {
		env.audit.Record(context.Background(), &missing, "/", "")
	})

	entries, err := env.audit.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, entries, "a foreign key failure is logged, not stored")
}
