package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghuser/shelfaware/services/inventory/domain"
)

func TestItemTypes_TreeAndCycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	food, err := f.svc.ItemTypes.Create(ctx, nil, ItemTypeInput{Name: str("Food")})
	require.NoError(t, err)
	dairy, err := f.svc.ItemTypes.Create(ctx, nil, ItemTypeInput{Name: str("Dairy"), ParentID: &food.ID})
	require.NoError(t, err)
	cheese, err := f.svc.ItemTypes.Create(ctx, nil, ItemTypeInput{Name: str("Cheese"), ParentID: &dairy.ID})
	require.NoError(t, err)
	_, err = f.svc.ItemTypes.Create(ctx, nil, ItemTypeInput{Name: str("Bakery"), ParentID: &food.ID})
	require.NoError(t, err)

	roots, err := f.svc.ItemTypes.Tree(ctx)
	require.NoError(t, err)
	require.Len(t, roots, 1)
	assert.Equal(t, food.ID, roots[0].Type.ID)
	require.Len(t, roots[0].Children, 2)
	assert.Equal(t, "Bakery", roots[0].Children[0].Type.Name.String())
	assert.Equal(t, cheese.ID, roots[0].Children[1].Children[0].Type.ID)

	_, err = f.svc.ItemTypes.Update(ctx, nil, food.ID, ItemTypeInput{ParentID: &cheese.ID})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "parent_id")

	_, err = f.svc.ItemTypes.Update(ctx, nil, food.ID, ItemTypeInput{ParentID: &food.ID})
	require.ErrorIs(t, err, domain.ErrValidation)

	moved, err := f.svc.ItemTypes.Update(ctx, nil, cheese.ID, ItemTypeInput{ClearParent: true})
	require.NoError(t, err)
	assert.Nil(t, moved.ParentID)
}

func TestItemTypes_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.ItemTypes.Create(ctx, nil, ItemTypeInput{})
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.svc.ItemTypes.Create(ctx, nil, ItemTypeInput{Name: str("Orphan"), ParentID: i64(404)})
	require.ErrorIs(t, err, domain.ErrItemTypeNotFound)

	_, err = f.svc.ItemTypes.Create(ctx, nil, ItemTypeInput{Name: str("Frozen")})
	require.NoError(t, err)
	_, err = f.svc.ItemTypes.Create(ctx, nil, ItemTypeInput{Name: str("Frozen")})
	require.ErrorIs(t, err, domain.ErrItemTypeNameTaken)

	_, err = f.svc.ItemTypes.Update(ctx, nil, 404, ItemTypeInput{Name: str("Nope")})
	require.ErrorIs(t, err, domain.ErrItemTypeNotFound)
}
