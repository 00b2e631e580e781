package authz

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "farmlink/internal/errors"
	"farmlink/internal/model"
)

// MockFarmerSource is a mock implementation of FarmerSource.
type MockFarmerSource struct {
	mock.Mock
}

func (m *MockFarmerSource) FindByID(ctx context.Context, id uuid.UUID) (*model.Farmer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Farmer), args.Error(1)
}

// MockProductSource is a mock implementation of ProductSource.
type MockProductSource struct {
	mock.Mock
}

func (m *MockProductSource) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

// MockInquirySource is a mock implementation of InquirySource.
type MockInquirySource struct {
	mock.Mock
}

func (m *MockInquirySource) FindByID(ctx context.Context, id uuid.UUID) (*model.Inquiry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Inquiry), args.Error(1)
}

func newTestEngine() (*Engine, *MockFarmerSource, *MockProductSource, *MockInquirySource) {
	farmers := new(MockFarmerSource)
	products := new(MockProductSource)
	inquiries := new(MockInquirySource)
	return NewEngine(NewResolver(farmers, products, inquiries)), farmers, products, inquiries
}

func TestResolver_OwnsFarmer(t *testing.T) {
	ownerID := uuid.New()
	farmerID := uuid.New()

	tests := []struct {
		name      string
		userID    uuid.UUID
		setupMock func(*MockFarmerSource)
		wantOwns  bool
		wantErr   bool
	}{
		{
			name:   "owner matches",
			userID: ownerID,
			setupMock: func(m *MockFarmerSource) {
				m.On("FindByID", mock.Anything, farmerID).Return(&model.Farmer{ID: farmerID, UserID: ownerID}, nil)
			},
			wantOwns: true,
		},
		{
			name:   "different user",
			userID: uuid.New(),
			setupMock: func(m *MockFarmerSource) {
				m.On("FindByID", mock.Anything, farmerID).Return(&model.Farmer{ID: farmerID, UserID: ownerID}, nil)
			},
			wantOwns: false,
		},
		{
			name:   "missing resource fails closed",
			userID: ownerID,
			setupMock: func(m *MockFarmerSource) {
				m.On("FindByID", mock.Anything, farmerID).Return(nil, gorm.ErrRecordNotFound)
			},
			wantOwns: false,
		},
		{
			name:   "store failure is an error, not a denial",
			userID: ownerID,
			setupMock: func(m *MockFarmerSource) {
				m.On("FindByID", mock.Anything, farmerID).Return(nil, errors.New("connection refused"))
			},
			wantOwns: false,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			farmers := new(MockFarmerSource)
			tt.setupMock(farmers)
			resolver := NewResolver(farmers, new(MockProductSource), new(MockInquirySource))

			owns, err := resolver.OwnsFarmer(context.Background(), tt.userID, farmerID)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantOwns, owns)
			farmers.AssertExpectations(t)
		})
	}
}

func TestResolver_OwnsProduct_Transitive(t *testing.T) {
	ownerID := uuid.New()
	farmerID := uuid.New()
	productID := uuid.New()

	farmers := new(MockFarmerSource)
	products := new(MockProductSource)
	farmers.On("FindByID", mock.Anything, farmerID).Return(&model.Farmer{ID: farmerID, UserID: ownerID}, nil)
	products.On("FindByID", mock.Anything, productID).Return(&model.Product{ID: productID, FarmerID: farmerID}, nil)

	resolver := NewResolver(farmers, products, new(MockInquirySource))

	owns, err := resolver.OwnsProduct(context.Background(), ownerID, productID)
	assert.NoError(t, err)
	assert.True(t, owns)

	owns, err = resolver.OwnsProduct(context.Background(), uuid.New(), productID)
	assert.NoError(t, err)
	assert.False(t, owns)
}

func TestResolver_OwnsInquiry_MissingFailsClosed(t *testing.T) {
	inquiries := new(MockInquirySource)
	inquiryID := uuid.New()
	inquiries.On("FindByID", mock.Anything, inquiryID).Return(nil, gorm.ErrRecordNotFound)

	resolver := NewResolver(new(MockFarmerSource), new(MockProductSource), inquiries)

	owns, err := resolver.OwnsInquiry(context.Background(), uuid.New(), inquiryID)
	assert.NoError(t, err)
	assert.False(t, owns)
}

func TestEngine_Authorize_Anonymous(t *testing.T) {
	engine, _, _, _ := newTestEngine()

	err := engine.Authorize(context.Background(), Anonymous, ActionUpdateProduct, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestEngine_Authorize_AdminOverride(t *testing.T) {
	// Admin is allowed on every action without any ownership lookup.
	engine, farmers, products, inquiries := newTestEngine()
	admin := Caller{ID: uuid.New(), Role: model.RoleAdmin}

	actions := []Action{
		ActionUpdateFarmer, ActionDeleteFarmer,
		ActionUpdateProduct, ActionDeleteProduct,
		ActionListInquiries, ActionUpdateInquiry, ActionDeleteInquiry,
		ActionViewFarmerStats,
	}
	for _, action := range actions {
		assert.NoError(t, engine.Authorize(context.Background(), admin, action, uuid.New()), string(action))
	}

	farmers.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	products.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	inquiries.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestEngine_Authorize_NonOwnerForbidden(t *testing.T) {
	// A farmer mutating another farmer's product is denied regardless of
	// their own valid role.
	engine, farmers, products, _ := newTestEngine()

	bobUserID := uuid.New()
	bobFarmID := uuid.New()
	bobProductID := uuid.New()
	products.On("FindByID", mock.Anything, bobProductID).Return(&model.Product{ID: bobProductID, FarmerID: bobFarmID}, nil)
	farmers.On("FindByID", mock.Anything, bobFarmID).Return(&model.Farmer{ID: bobFarmID, UserID: bobUserID}, nil)

	alice := Caller{ID: uuid.New(), Role: model.RoleFarmer}

	err := engine.Authorize(context.Background(), alice, ActionUpdateProduct, bobProductID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestEngine_Authorize_OwnerAllowed(t *testing.T) {
	engine, farmers, products, _ := newTestEngine()

	aliceUserID := uuid.New()
	aliceFarmID := uuid.New()
	aliceProductID := uuid.New()
	products.On("FindByID", mock.Anything, aliceProductID).Return(&model.Product{ID: aliceProductID, FarmerID: aliceFarmID}, nil)
	farmers.On("FindByID", mock.Anything, aliceFarmID).Return(&model.Farmer{ID: aliceFarmID, UserID: aliceUserID}, nil)

	alice := Caller{ID: aliceUserID, Role: model.RoleFarmer}

	assert.NoError(t, engine.Authorize(context.Background(), alice, ActionUpdateProduct, aliceProductID))
}

func TestEngine_Authorize_InquiryRequiresFarmerRole(t *testing.T) {
	// A plain user can never manage inquiries, even before ownership is
	// considered.
	engine, _, _, inquiries := newTestEngine()

	plain := Caller{ID: uuid.New(), Role: model.RoleUser}

	err := engine.Authorize(context.Background(), plain, ActionUpdateInquiry, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	inquiries.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestEngine_Authorize_InquiryOwnership(t *testing.T) {
	engine, farmers, _, inquiries := newTestEngine()

	ownerUserID := uuid.New()
	farmID := uuid.New()
	inquiryID := uuid.New()
	inquiries.On("FindByID", mock.Anything, inquiryID).Return(&model.Inquiry{ID: inquiryID, FarmerID: farmID}, nil)
	farmers.On("FindByID", mock.Anything, farmID).Return(&model.Farmer{ID: farmID, UserID: ownerUserID}, nil)

	owner := Caller{ID: ownerUserID, Role: model.RoleFarmer}
	other := Caller{ID: uuid.New(), Role: model.RoleFarmer}

	assert.NoError(t, engine.Authorize(context.Background(), owner, ActionDeleteInquiry, inquiryID))
	assert.ErrorIs(t, engine.Authorize(context.Background(), other, ActionDeleteInquiry, inquiryID), apperrors.ErrForbidden)
}

func TestEngine_Authorize_StoreFailureIsNotForbidden(t *testing.T) {
	// Connection errors during an ownership check must fail the request,
	// not masquerade as a denial.
	engine, farmers, _, _ := newTestEngine()

	farmerID := uuid.New()
	farmers.On("FindByID", mock.Anything, farmerID).Return(nil, errors.New("connection refused"))

	caller := Caller{ID: uuid.New(), Role: model.RoleFarmer}

	err := engine.Authorize(context.Background(), caller, ActionUpdateFarmer, farmerID)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrForbidden)
	assert.NotErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestEngine_RequireRole(t *testing.T) {
	engine, _, _, _ := newTestEngine()

	admin := Caller{ID: uuid.New(), Role: model.RoleAdmin}
	farmer := Caller{ID: uuid.New(), Role: model.RoleFarmer}
	plain := Caller{ID: uuid.New(), Role: model.RoleUser}

	assert.NoError(t, engine.RequireAdmin(admin))
	assert.ErrorIs(t, engine.RequireAdmin(farmer), apperrors.ErrForbidden)
	assert.ErrorIs(t, engine.RequireAdmin(plain), apperrors.ErrForbidden)
	assert.ErrorIs(t, engine.RequireAdmin(Anonymous), apperrors.ErrUnauthorized)

	assert.NoError(t, engine.RequireRole(farmer, model.RoleFarmer, model.RoleAdmin))
	assert.ErrorIs(t, engine.RequireRole(plain, model.RoleFarmer, model.RoleAdmin), apperrors.ErrForbidden)
}
