package feedback_test

import (
	"context"
	"strings"
	"testing"

	"github.com/civicfix/civicback/services/apperr"
	"github.com/civicfix/civicback/services/feedback"
	"github.com/civicfix/civicback/services/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmit(t *testing.T) {
	store := memory.New()
	svc := feedback.NewService(store, nil)

	require.NoError(t, svc.Submit(context.Background(), feedback.SubmitRequest{Feedback: "  more streetlights please "}))

	saved := store.Feedback()
	require.Len(t, saved, 1)
	assert.Equal(t, "more streetlights please", saved[0].Feedback)
	assert.False(t, saved[0].CreatedAt.IsZero())
}

func TestSubmitValidation(t *testing.T) {
	svc := feedback.NewService(memory.New(), nil)

	err := svc.Submit(context.Background(), feedback.SubmitRequest{Feedback: "   "})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	err = svc.Submit(context.Background(), feedback.SubmitRequest{Feedback: strings.Repeat("x", 5001)})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}
