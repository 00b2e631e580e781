package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"farmlink/internal/authz"
	apperrors "farmlink/internal/errors"
	"farmlink/internal/model"
)

func newFarmerService(farmers *MockFarmerRepository) FarmerService {
	resolver := authz.NewResolver(farmers, new(MockProductRepository), new(MockInquiryRepository))
	return NewFarmerService(farmers, authz.NewEngine(resolver))
}

func TestFarmerService_Create(t *testing.T) {
	userID := uuid.New()

	t.Run("creates profile and promotes owner", func(t *testing.T) {
		farmers := new(MockFarmerRepository)
		farmers.On("FindByUserID", mock.Anything, userID).Return(nil, gorm.ErrRecordNotFound)
		farmers.On("CreateWithOwnerPromotion", mock.Anything, mock.AnythingOfType("*model.Farmer")).Return(nil)
		svc := newFarmerService(farmers)

		farmer, err := svc.Create(context.Background(), userID, FarmerInput{FarmName: "Green Farm"})
		require.NoError(t, err)
		assert.Equal(t, "Green Farm", farmer.FarmName)
		assert.Equal(t, userID, farmer.UserID)
		farmers.AssertExpectations(t)
	})

	t.Run("second create conflicts and leaves the first untouched", func(t *testing.T) {
		existing := &model.Farmer{ID: uuid.New(), UserID: userID, FarmName: "Green Farm"}
		farmers := new(MockFarmerRepository)
		farmers.On("FindByUserID", mock.Anything, userID).Return(existing, nil)
		svc := newFarmerService(farmers)

		_, err := svc.Create(context.Background(), userID, FarmerInput{FarmName: "Second Farm"})
		assert.ErrorIs(t, err, apperrors.ErrProfileExists)

		assert.Equal(t, "Green Farm", existing.FarmName)
		farmers.AssertNotCalled(t, "CreateWithOwnerPromotion", mock.Anything, mock.Anything)
	})
}

func TestFarmerService_Update(t *testing.T) {
	ownerID := uuid.New()
	farmerID := uuid.New()
	profile := func() *model.Farmer {
		return &model.Farmer{ID: farmerID, UserID: ownerID, FarmName: "Green Farm"}
	}

	t.Run("owner may update", func(t *testing.T) {
		farmers := new(MockFarmerRepository)
		farmers.On("FindByID", mock.Anything, farmerID).Return(profile(), nil)
		farmers.On("Update", mock.Anything, mock.AnythingOfType("*model.Farmer")).Return(nil)
		svc := newFarmerService(farmers)

		updated, err := svc.Update(context.Background(), authz.Caller{ID: ownerID, Role: model.RoleFarmer}, farmerID, FarmerInput{FarmName: "Greener Farm"})
		require.NoError(t, err)
		assert.Equal(t, "Greener Farm", updated.FarmName)
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		farmers := new(MockFarmerRepository)
		farmers.On("FindByID", mock.Anything, farmerID).Return(profile(), nil)
		svc := newFarmerService(farmers)

		_, err := svc.Update(context.Background(), authz.Caller{ID: uuid.New(), Role: model.RoleFarmer}, farmerID, FarmerInput{FarmName: "Stolen Farm"})
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		farmers.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("admin may update any profile", func(t *testing.T) {
		farmers := new(MockFarmerRepository)
		farmers.On("FindByID", mock.Anything, farmerID).Return(profile(), nil)
		farmers.On("Update", mock.Anything, mock.AnythingOfType("*model.Farmer")).Return(nil)
		svc := newFarmerService(farmers)

		_, err := svc.Update(context.Background(), authz.Caller{ID: uuid.New(), Role: model.RoleAdmin}, farmerID, FarmerInput{FarmName: "Moderated"})
		assert.NoError(t, err)
	})

	t.Run("missing profile is not found, not forbidden", func(t *testing.T) {
		farmers := new(MockFarmerRepository)
		farmers.On("FindByID", mock.Anything, farmerID).Return(nil, gorm.ErrRecordNotFound)
		svc := newFarmerService(farmers)

		_, err := svc.Update(context.Background(), authz.Caller{ID: uuid.New(), Role: model.RoleFarmer}, farmerID, FarmerInput{})
		assert.ErrorIs(t, err, apperrors.ErrFarmerNotFound)
	})
}

func TestFarmerService_Delete(t *testing.T) {
	ownerID := uuid.New()
	farmerID := uuid.New()
	profile := &model.Farmer{ID: farmerID, UserID: ownerID}

	t.Run("anonymous is unauthorized", func(t *testing.T) {
		farmers := new(MockFarmerRepository)
		farmers.On("FindByID", mock.Anything, farmerID).Return(profile, nil)
		svc := newFarmerService(farmers)

		err := svc.Delete(context.Background(), authz.Anonymous, farmerID)
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})

	t.Run("owner may delete", func(t *testing.T) {
		farmers := new(MockFarmerRepository)
		farmers.On("FindByID", mock.Anything, farmerID).Return(profile, nil)
		farmers.On("Delete", mock.Anything, farmerID).Return(nil)
		svc := newFarmerService(farmers)

		err := svc.Delete(context.Background(), authz.Caller{ID: ownerID, Role: model.RoleFarmer}, farmerID)
		assert.NoError(t, err)
		farmers.AssertExpectations(t)
	})
}
