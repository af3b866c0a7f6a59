package notification_test

import (
	"context"
	"testing"

	"github.com/civicfix/civicback/models"
	"github.com/civicfix/civicback/services/apperr"
	"github.com/civicfix/civicback/services/memory"
	"github.com/civicfix/civicback/services/notification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNotifyAndRead(t *testing.T) {
	store := memory.New()
	svc := notification.NewService(store, nil)
	ctx := context.Background()
	owner := &models.Principal{ID: primitive.NewObjectID(), Kind: models.PrincipalUser}

	r := &models.Report{ID: primitive.NewObjectID(), Title: "Overflowing bin", UserID: owner.ID, ResolvedBy: "Asha"}
	require.NoError(t, svc.NotifyReportResolved(ctx, r))

	list, err := svc.List(ctx, owner, "")
	require.NoError(t, err)
	require.Len(t, list, 1)
	n := list[0]
	assert.Equal(t, models.NotificationStatusUnread, n.Status)
	assert.Equal(t, "Report resolved", n.Title)
	assert.Contains(t, n.Message, "Overflowing bin")
	assert.Contains(t, n.Message, "Asha")

	stranger := &models.Principal{ID: primitive.NewObjectID()}
	_, err = svc.MarkRead(ctx, stranger, n.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	read, err := svc.MarkRead(ctx, owner, n.ID)
	require.NoError(t, err)
	assert.Equal(t, models.NotificationStatusRead, read.Status)
	assert.NotNil(t, read.ReadAt)

	unread, err := svc.List(ctx, owner, "UNREAD")
	require.NoError(t, err)
	assert.Empty(t, unread)
}

func TestNotifySkipsAnonymousReports(t *testing.T) {
	store := memory.New()
	svc := notification.NewService(store, nil)

	require.NoError(t, svc.NotifyReportResolved(context.Background(), &models.Report{ID: primitive.NewObjectID()}))
}

func TestListRequiresPrincipal(t *testing.T) {
	svc := notification.NewService(memory.New(), nil)
	ctx := context.Background()

	_, err := svc.List(ctx, nil, "")
	assert.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))

	_, err = svc.List(ctx, &models.Principal{ID: primitive.NewObjectID()}, "ARCHIVED")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}
