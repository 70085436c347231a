package lead

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storefront-service/internal/domain/lead"
	xerrors "storefront-service/internal/pkg/errors"
	"storefront-service/internal/repository/memory"
)

func TestSubmitContact(t *testing.T) {
	store := memory.NewStore()
	svc := NewLeadService(store.Set().Leads, nil, zap.NewNop())
	ctx := context.Background()

	_, err := svc.SubmitContact(ctx, lead.ContactRequest{FullName: "Jane", Email: "jane@example.com", Message: "  "})
	require.Error(t, err)
	assert.True(t, xerrors.IsValidation(err))
	assert.Empty(t, store.Leads())

	l, err := svc.SubmitContact(ctx, lead.ContactRequest{FullName: "Jane", Email: "jane@example.com", Message: "Do you ship to Kampala?"})
	require.NoError(t, err)
	assert.NotEmpty(t, l.ID)

	leads := store.Leads()
	require.Len(t, leads, 1)
	assert.Equal(t, "Jane", leads[0].LeadName)
	assert.Equal(t, "Do you ship to Kampala?", leads[0].Notes)
	assert.Equal(t, lead.SourceWebsite, leads[0].Source)
}
