package service_test

import (
	"context"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/text/currency"

	"kioskpos/internal/domain"
)

func startPostgres(ctx context.Context) (testcontainers.Container, string, error) {
	container, err := tcpostgres.Run(ctx, "postgres:17-alpine",
		tcpostgres.WithInitScripts("../repository/schema.sql"),
		tcpostgres.WithDatabase("kioskpos"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		return nil, "", fmt.Errorf("tcpostgres.Run: %w", err)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", fmt.Errorf("container.ConnectionString: %w", err)
	}

	return container, connStr, nil
}

func fakeMember() domain.Member {
	return domain.Member{
		Name:       gofakeit.Name(),
		Email:      gofakeit.Email(),
		CardNumber: gofakeit.CreditCardNumber(nil),
		Active:     true,
	}
}

func fakeProduct(price string) domain.Product {
	return domain.Product{
		Name:      gofakeit.ProductName(),
		Price:     usd(price),
		Category:  gofakeit.ProductCategory(),
		Available: true,
	}
}

func usd(amount string) domain.Money {
	return domain.Money{
		Amount:   decimal.RequireFromString(amount),
		Currency: currency.USD,
	}
}
