package service_test

import (
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"

	"kioskpos/internal/domain"
	"kioskpos/internal/port"
	"kioskpos/internal/repository"
	"kioskpos/internal/service"
	"kioskpos/pkg/logger"
)

type lifecycleServiceSuite struct {
	suite.Suite

	pool       *pgxpool.Pool
	svc        *service.LifecycleService
	settlement *service.SettlementService
	members    port.MemberRepository
	products   port.ProductRepository
	container  testcontainers.Container
}

func TestLifecycleServiceSuite(t *testing.T) {
	suite.Run(t, new(lifecycleServiceSuite))
}

func (suite *lifecycleServiceSuite) SetupSuite() {
	ctx := suite.T().Context()

	var (
		connStr string
		err     error
	)

	suite.container, connStr, err = startPostgres(ctx)
	suite.NoError(err)

	suite.pool, err = pgxpool.New(ctx, connStr)
	suite.NoError(err)

	testLogger := logger.New(logger.Config{Output: io.Discard})

	suite.svc = service.NewLifecycleService(suite.pool, testLogger)
	suite.settlement = service.NewSettlementService(suite.pool, testLogger)
	suite.members = repository.NewMember(suite.pool)
	suite.products = repository.NewProduct(suite.pool)
}

func (suite *lifecycleServiceSuite) TearDownSuite() {
	ctx := suite.T().Context()

	if suite.pool != nil {
		suite.pool.Close()
	}
	if suite.container != nil {
		suite.NoError(suite.container.Terminate(ctx))
	}
}

// placeOrder provisions a member with a 20.00 balance and places a 7.50
// order, leaving 12.50 on the balance.
func (suite *lifecycleServiceSuite) placeOrder() (uuid.UUID, domain.Order) {
	ctx := suite.T().Context()

	memberID, err := suite.members.CreateMember(ctx, fakeMember(), usd("20"))
	suite.Require().NoError(err)

	productID, err := suite.products.InsertProduct(ctx, fakeProduct("7.50"))
	suite.Require().NoError(err)

	order, err := suite.settlement.PlaceOrder(ctx, memberID, []domain.OrderLine{
		{ProductID: productID, Quantity: 1},
	})
	suite.Require().NoError(err)

	return memberID, order
}

func (suite *lifecycleServiceSuite) assertBalance(memberID uuid.UUID, want string) {
	t := suite.T()
	t.Helper()

	balance, err := suite.members.GetBalance(t.Context(), memberID)
	require.NoError(t, err)
	assert.True(t, balance.Amount.Amount.Equal(decimal.RequireFromString(want)),
		"balance is %s, want %s", balance.Amount.Amount, want)
}

func (suite *lifecycleServiceSuite) TestCompleteOrder() {
	t := suite.T()
	ctx := t.Context()

	memberID, order := suite.placeOrder()

	completed, err := suite.svc.CompleteOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCompleted, completed.Status)

	// completion moves no money, the debit happened at placement
	suite.assertBalance(memberID, "12.50")

	// terminal state is final
	_, err = suite.svc.CompleteOrder(ctx, order.ID)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = suite.svc.CancelOrder(ctx, order.ID)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)

	suite.assertBalance(memberID, "12.50")
}

func (suite *lifecycleServiceSuite) TestCompleteOrderNotFound() {
	t := suite.T()

	_, err := suite.svc.CompleteOrder(t.Context(), uuid.New())
	require.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func (suite *lifecycleServiceSuite) TestCancelOrder() {
	t := suite.T()
	ctx := t.Context()

	memberID, order := suite.placeOrder()

	cancelled, err := suite.svc.CancelOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCancelled, cancelled.Status)

	// the full total came back
	suite.assertBalance(memberID, "20")

	// a second cancel must not refund again
	_, err = suite.svc.CancelOrder(ctx, order.ID)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)

	suite.assertBalance(memberID, "20")
}

func (suite *lifecycleServiceSuite) TestCancelOrderNotFound() {
	t := suite.T()

	_, err := suite.svc.CancelOrder(t.Context(), uuid.New())
	require.ErrorIs(t, err, domain.ErrOrderNotFound)
}
