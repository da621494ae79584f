package product_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront/internal/domain/product"
	"github.com/your-org/storefront/internal/infrastructure/database/memory"
	"github.com/your-org/storefront/internal/pkg/apperror"
	"github.com/your-org/storefront/internal/pkg/logger"
	"github.com/your-org/storefront/internal/pkg/money"
)

type recordingRemover struct {
	removed []string
}

func (r *recordingRemover) DeleteFile(path string) error {
	r.removed = append(r.removed, path)
	return nil
}

func setup(t *testing.T) (*product.Service, *recordingRemover) {
	t.Helper()
	images := &recordingRemover{}
	return product.NewService(memory.NewStore().Products(), images, logger.Discard()), images
}

var widget = product.Input{Title: "Widget", Price: 999, Description: "A widget", ImageURL: "/uploads/images/w.png"}

func TestInput_Validate(t *testing.T) {
	tests := []struct {
		name  string
		in    product.Input
		field string
	}{
		{"short title", product.Input{Title: " ab ", Price: 1, Description: "valid"}, "title"},
		{"negative price", product.Input{Title: "abc", Price: -1, Description: "valid"}, "price"},
		{"price above max", product.Input{Title: "abc", Price: money.MaxAmount + 1, Description: "valid"}, "price"},
		{"short description", product.Input{Title: "abc", Price: 1, Description: "four"}, "description"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate()
			require.Error(t, err)
			var appErr *apperror.Error
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.field, appErr.Field)
		})
	}

	assert.NoError(t, widget.Validate())
}

func TestCreate_RequiresImage(t *testing.T) {
	svc, _ := setup(t)

	in := widget
	in.ImageURL = ""
	_, err := svc.Create(context.Background(), "u-1", in)
	assert.True(t, apperror.Is(err, apperror.KindValidation))
	assert.Equal(t, "Attached file is not an image.", apperror.Message(err))
}

func TestUpdate_OwnershipAndImageReplacement(t *testing.T) {
	svc, images := setup(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, "u-1", widget)
	require.NoError(t, err)

	_, err = svc.Update(ctx, "u-2", p.ID, widget)
	assert.ErrorIs(t, err, product.ErrNotOwner)

	edit := widget
	edit.Title = "Better Widget"
	edit.ImageURL = ""
	updated, err := svc.Update(ctx, "u-1", p.ID, edit)
	require.NoError(t, err)
	assert.Equal(t, "Better Widget", updated.Title)
	assert.Equal(t, widget.ImageURL, updated.ImageURL)
	assert.Empty(t, images.removed)

	edit.ImageURL = "/uploads/images/new.png"
	_, err = svc.Update(ctx, "u-1", p.ID, edit)
	require.NoError(t, err)
	assert.Equal(t, []string{widget.ImageURL}, images.removed)
}

func TestDelete_OnlyOwnerAndRemovesImage(t *testing.T) {
	svc, images := setup(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, "u-1", widget)
	require.NoError(t, err)

	err = svc.Delete(ctx, "u-2", p.ID)
	assert.ErrorIs(t, err, product.ErrNotOwner)
	_, err = svc.Get(ctx, p.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "u-1", p.ID))
	_, err = svc.Get(ctx, p.ID)
	assert.ErrorIs(t, err, product.ErrNotFound)
	assert.Equal(t, []string{widget.ImageURL}, images.removed)
}

func TestList_Paginates(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		in := widget
		in.Title = fmt.Sprintf("Widget %d", i)
		owner := "u-1"
		if i%2 == 1 {
			owner = "u-2"
		}
		_, err := svc.Create(ctx, owner, in)
		require.NoError(t, err)
	}

	first, err := svc.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, first.Products, 5)
	assert.True(t, first.Page.HasNextPage)
	assert.Equal(t, 2, first.Page.LastPage)

	second, err := svc.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, second.Products, 2)
	assert.False(t, second.Page.HasNextPage)

	mine, err := svc.ListByOwner(ctx, "u-1", 1)
	require.NoError(t, err)
	assert.Len(t, mine.Products, 4)
	assert.Equal(t, int64(4), mine.Page.TotalItems)
}
