package service_test

import (
	"errors"
	"io"
	"regexp"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"golang.org/x/text/currency"

	"kioskpos/internal/domain"
	"kioskpos/internal/port"
	"kioskpos/internal/repository"
	"kioskpos/internal/service"
	"kioskpos/pkg/logger"
)

var orderNumberPattern = regexp.MustCompile(`^ORD-\d+-[0-9A-Z]{4}$`)

type settlementServiceSuite struct {
	suite.Suite

	pool      *pgxpool.Pool
	svc       *service.SettlementService
	members   port.MemberRepository
	products  port.ProductRepository
	orders    port.OrderRepository
	container testcontainers.Container
}

func TestSettlementServiceSuite(t *testing.T) {
	suite.Run(t, new(settlementServiceSuite))
}

func (suite *settlementServiceSuite) SetupSuite() {
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

	suite.svc = service.NewSettlementService(suite.pool, testLogger)
	suite.members = repository.NewMember(suite.pool)
	suite.products = repository.NewProduct(suite.pool)
	suite.orders = repository.NewOrder(suite.pool)
}

func (suite *settlementServiceSuite) TearDownSuite() {
	ctx := suite.T().Context()

	if suite.pool != nil {
		suite.pool.Close()
	}
	if suite.container != nil {
		suite.NoError(suite.container.Terminate(ctx))
	}
}

func (suite *settlementServiceSuite) newMember(balance string) uuid.UUID {
	memberID, err := suite.members.CreateMember(suite.T().Context(), fakeMember(), usd(balance))
	suite.Require().NoError(err)
	return memberID
}

func (suite *settlementServiceSuite) newProduct(product domain.Product) uuid.UUID {
	productID, err := suite.products.InsertProduct(suite.T().Context(), product)
	suite.Require().NoError(err)
	return productID
}

func (suite *settlementServiceSuite) assertBalance(memberID uuid.UUID, want string) {
	t := suite.T()
	t.Helper()

	balance, err := suite.members.GetBalance(t.Context(), memberID)
	require.NoError(t, err)
	assert.True(t, balance.Amount.Amount.Equal(decimal.RequireFromString(want)),
		"balance is %s, want %s", balance.Amount.Amount, want)
}

func (suite *settlementServiceSuite) TestPlaceOrder() {
	t := suite.T()
	ctx := t.Context()

	memberID := suite.newMember("50")

	coffeeID := suite.newProduct(fakeProduct("4.50"))
	cakeID := suite.newProduct(fakeProduct("6.25"))

	order, err := suite.svc.PlaceOrder(ctx, memberID, []domain.OrderLine{
		{ProductID: coffeeID, Quantity: 2},
		{ProductID: cakeID, Quantity: 1},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.Regexp(t, orderNumberPattern, order.Number)

	// 2 * 4.50 + 6.25
	assert.True(t, order.Total.Amount.Equal(decimal.RequireFromString("15.25")),
		"total is %s", order.Total.Amount)

	require.Len(t, order.Items, 2)
	for _, item := range order.Items {
		assert.NotEmpty(t, item.ProductName)
	}

	// one entry per purchased unit
	require.Len(t, order.ProductIDs, 3)
	counts := lo.CountValues(order.ProductIDs)
	assert.Equal(t, 2, counts[coffeeID])
	assert.Equal(t, 1, counts[cakeID])

	suite.assertBalance(memberID, "34.75")
}

func (suite *settlementServiceSuite) TestPlaceOrderValidationOrder() {
	memberID := suite.newMember("5")

	availableID := suite.newProduct(fakeProduct("3.00"))

	unavailable := fakeProduct("3.00")
	unavailable.Available = false
	unavailableID := suite.newProduct(unavailable)

	inactive := fakeMember()
	inactive.Active = false
	inactiveID, err := suite.members.CreateMember(suite.T().Context(), inactive, usd("100"))
	suite.Require().NoError(err)

	tests := []struct {
		name      string
		memberID  uuid.UUID
		lines     []domain.OrderLine
		wantError error
	}{
		{
			name:      "unknown member: invalid member",
			memberID:  uuid.New(),
			lines:     []domain.OrderLine{{ProductID: availableID, Quantity: 1}},
			wantError: domain.ErrInvalidMember,
		},
		{
			name:      "inactive member: invalid member",
			memberID:  inactiveID,
			lines:     []domain.OrderLine{{ProductID: availableID, Quantity: 1}},
			wantError: domain.ErrInvalidMember,
		},
		{
			name:      "unknown product: unavailable",
			memberID:  memberID,
			lines:     []domain.OrderLine{{ProductID: uuid.New(), Quantity: 1}},
			wantError: domain.ErrProductUnavailable,
		},
		{
			name:      "hidden product: unavailable",
			memberID:  memberID,
			lines:     []domain.OrderLine{{ProductID: unavailableID, Quantity: 1}},
			wantError: domain.ErrProductUnavailable,
		},
		{
			name:      "total exceeds balance: insufficient",
			memberID:  memberID,
			lines:     []domain.OrderLine{{ProductID: availableID, Quantity: 2}},
			wantError: domain.ErrInsufficientBalance,
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()

			_, err := suite.svc.PlaceOrder(ctx, tt.memberID, tt.lines)
			require.ErrorIs(t, err, tt.wantError)
		})
	}

	// no failed attempt left an order behind or touched the balance
	orders, err := suite.orders.SearchOrders(suite.T().Context(), domain.OrderFilter{
		MemberIDs: []uuid.UUID{memberID},
	})
	suite.Require().NoError(err)
	suite.Empty(orders)

	suite.assertBalance(memberID, "5")
	suite.assertBalance(inactiveID, "100")
}

func (suite *settlementServiceSuite) TestPlaceOrderRejectsBadRequest() {
	t := suite.T()
	ctx := t.Context()

	memberID := suite.newMember("10")
	productID := suite.newProduct(fakeProduct("1.00"))

	_, err := suite.svc.PlaceOrder(ctx, uuid.Nil, []domain.OrderLine{{ProductID: productID, Quantity: 1}})
	require.EqualError(t, err, "memberID is empty")

	_, err = suite.svc.PlaceOrder(ctx, memberID, nil)
	require.EqualError(t, err, "no lines in order")

	_, err = suite.svc.PlaceOrder(ctx, memberID, []domain.OrderLine{{ProductID: productID, Quantity: 0}})
	require.EqualError(t, err, "line[0]: quantity must be positive, got 0")
}

func (suite *settlementServiceSuite) TestPlaceOrderCurrencyMismatch() {
	t := suite.T()
	ctx := t.Context()

	memberID := suite.newMember("100")

	euroProduct := fakeProduct("5.00")
	euroProduct.Price.Currency = currency.EUR
	euroID := suite.newProduct(euroProduct)

	_, err := suite.svc.PlaceOrder(ctx, memberID, []domain.OrderLine{{ProductID: euroID, Quantity: 1}})
	require.ErrorIs(t, err, domain.ErrCurrencyMismatch)

	suite.assertBalance(memberID, "100")
}

func (suite *settlementServiceSuite) TestPlaceOrderConcurrentDebits() {
	t := suite.T()
	ctx := t.Context()

	// the balance covers exactly one order, so of N simultaneous attempts
	// only one may pass the locked balance check
	memberID := suite.newMember("10")
	productID := suite.newProduct(fakeProduct("7.50"))

	const attempts = 8

	errs := make(chan error, attempts)

	var wg sync.WaitGroup
	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_, err := suite.svc.PlaceOrder(ctx, memberID, []domain.OrderLine{
				{ProductID: productID, Quantity: 1},
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var succeeded, insufficient int
	for err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, domain.ErrInsufficientBalance):
			insufficient++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, attempts-1, insufficient)

	suite.assertBalance(memberID, "2.50")

	orders, err := suite.orders.SearchOrders(ctx, domain.OrderFilter{
		MemberIDs: []uuid.UUID{memberID},
	})
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func (suite *settlementServiceSuite) TestOrderSnapshotSurvivesCatalogEdits() {
	t := suite.T()
	ctx := t.Context()

	memberID := suite.newMember("20")

	product := fakeProduct("4.00")
	productID := suite.newProduct(product)

	order, err := suite.svc.PlaceOrder(ctx, memberID, []domain.OrderLine{
		{ProductID: productID, Quantity: 1},
	})
	require.NoError(t, err)

	_, err = suite.products.UpdateProduct(ctx, productID, domain.ProductPatch{
		Name:  lo.ToPtr("Renamed"),
		Price: lo.ToPtr(usd("9.99")),
	})
	require.NoError(t, err)

	err = suite.products.DeleteProduct(ctx, productID)
	require.NoError(t, err)

	stored, err := suite.orders.GetOrder(ctx, order.ID)
	require.NoError(t, err)

	require.Len(t, stored.Items, 1)
	assert.Equal(t, product.Name, stored.Items[0].ProductName)
	assert.True(t, stored.Items[0].UnitPrice.Amount.Equal(decimal.RequireFromString("4.00")))
	assert.True(t, stored.Total.Amount.Equal(decimal.RequireFromString("4.00")))
}
