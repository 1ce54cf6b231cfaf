//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"go.uber.org/zap"

	"github.com/antscrawling/SupplyChainManagement/internal/domain"
)

type PostgresSuite struct {
	suite.Suite
	container *tcpostgres.PostgresContainer
	store     *Store
}

func TestPostgresSuite(t *testing.T) {
	suite.Run(t, new(PostgresSuite))
}

func (s *PostgresSuite) SetupSuite() {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("onboarding"),
		tcpostgres.WithUsername("onboarding"),
		tcpostgres.WithPassword("onboarding"),
		tcpostgres.BasicWaitStrategies(),
	)
	require.NoError(s.T(), err)
	s.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(s.T(), err)

	store, err := Connect(ctx, dsn, zap.NewNop())
	require.NoError(s.T(), err)
	require.NoError(s.T(), store.EnsureSchema(ctx))
	s.store = store
}

func (s *PostgresSuite) TearDownSuite() {
	if s.store != nil {
		s.store.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(context.Background())
	}
}

func (s *PostgresSuite) SetupTest() {
	ctx := context.Background()
	_, err := s.store.pool.Exec(ctx, `TRUNCATE documents, order_items, orders, customers`)
	require.NoError(s.T(), err)
}

func (s *PostgresSuite) newCustomer(name string) *domain.Customer {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return domain.NewCustomer(&domain.CustomerProfile{
		CompanyName:      name,
		CustomerType:     domain.CustomerTypeManufacturer,
		TaxID:            "TX-100",
		RegistrationDate: now,
		ContactEmail:     "ops@example.com",
		ContactPhone:     "+15550001111",
		Address:          "1 Supply Way",
	}, now)
}

func (s *PostgresSuite) TestCustomerRoundTrip() {
	ctx := context.Background()

	c := s.newCustomer("Acme Supplies")
	require.NoError(s.T(), s.store.CreateCustomer(ctx, c))

	got, err := s.store.GetCustomer(ctx, "acme supplies")
	s.Require().NoError(err)
	s.Equal(c.ID, got.ID)
	s.Equal("Acme Supplies", got.CompanyName)
	s.Equal(domain.OnboardingPending, got.OnboardingStatus)
	s.NotNil(got.Documents)
	s.Empty(got.Documents)
}

func (s *PostgresSuite) TestDuplicateNameRejected() {
	ctx := context.Background()

	require.NoError(s.T(), s.store.CreateCustomer(ctx, s.newCustomer("Acme Supplies")))

	err := s.store.CreateCustomer(ctx, s.newCustomer("ACME SUPPLIES"))
	var conflict *domain.ErrConflict
	s.Require().ErrorAs(err, &conflict)
	s.Equal([]string{"ACME SUPPLIES"}, conflict.Names)
}

func (s *PostgresSuite) TestBatchIsAtomic() {
	ctx := context.Background()

	require.NoError(s.T(), s.store.CreateCustomer(ctx, s.newCustomer("Acme Supplies")))

	batch := []*domain.Customer{s.newCustomer("Globex"), s.newCustomer("Acme Supplies")}
	err := s.store.CreateCustomers(ctx, batch)
	var conflict *domain.ErrConflict
	s.Require().ErrorAs(err, &conflict)

	_, err = s.store.GetCustomer(ctx, "Globex")
	var notFound *domain.ErrNotFound
	s.Require().ErrorAs(err, &notFound)
}

func (s *PostgresSuite) TestExistingNames() {
	ctx := context.Background()

	require.NoError(s.T(), s.store.CreateCustomer(ctx, s.newCustomer("Acme Supplies")))
	require.NoError(s.T(), s.store.CreateCustomer(ctx, s.newCustomer("Initech")))

	existing, err := s.store.ExistingNames(ctx, []string{"Globex", "ACME Supplies", "initech"})
	s.Require().NoError(err)
	s.Equal([]string{"ACME Supplies", "initech"}, existing)
}

func (s *PostgresSuite) TestStatusUpdate() {
	ctx := context.Background()

	require.NoError(s.T(), s.store.CreateCustomer(ctx, s.newCustomer("Acme Supplies")))
	s.Require().NoError(s.store.UpdateCustomerStatus(ctx, "Acme Supplies", domain.OnboardingCompleted))

	got, err := s.store.GetCustomer(ctx, "Acme Supplies")
	s.Require().NoError(err)
	s.Equal(domain.OnboardingCompleted, got.OnboardingStatus)

	err = s.store.UpdateCustomerStatus(ctx, "Nobody", domain.OnboardingRejected)
	var notFound *domain.ErrNotFound
	s.Require().ErrorAs(err, &notFound)
}

func (s *PostgresSuite) TestOrderTotalsStayExact() {
	ctx := context.Background()

	c := s.newCustomer("Acme Supplies")
	require.NoError(s.T(), s.store.CreateCustomer(ctx, c))

	now := time.Now().UTC().Truncate(time.Microsecond)
	order := domain.NewOrder(&domain.OrderCreate{
		CustomerID: c.ID,
		Items: []domain.OrderItem{
			{ProductName: "Widget", Quantity: 10, UnitPrice: decimal.RequireFromString("120.25")},
			{ProductName: "Gadget", Quantity: 5, UnitPrice: decimal.RequireFromString("249.60")},
		},
	}, now)
	s.Require().NoError(s.store.CreateOrder(ctx, order))

	got, err := s.store.GetOrder(ctx, order.ID)
	s.Require().NoError(err)
	s.True(got.TotalAmount.Equal(decimal.RequireFromString("2450.50")),
		"got total %s", got.TotalAmount)
	s.Len(got.Items, 2)

	orders, err := s.store.ListCustomerOrders(ctx, c.ID)
	s.Require().NoError(err)
	s.Len(orders, 1)
}

func (s *PostgresSuite) TestDocumentLifecycle() {
	ctx := context.Background()

	c := s.newCustomer("Acme Supplies")
	require.NoError(s.T(), s.store.CreateCustomer(ctx, c))

	doc := domain.NewDocument(c.ID, domain.DocumentTaxCertificate,
		"uploads/Acme Supplies/tax_certificate_2024.pdf", time.Now().UTC().Truncate(time.Microsecond))
	s.Require().NoError(s.store.AddDocument(ctx, "Acme Supplies", doc))

	docs, err := s.store.ListDocuments(ctx, "Acme Supplies")
	s.Require().NoError(err)
	s.Len(docs, 1)
	s.Equal(domain.DocumentPending, docs[0].Status)

	s.Require().NoError(s.store.UpdateDocumentStatus(ctx, "Acme Supplies",
		domain.DocumentTaxCertificate, domain.DocumentVerified))

	got, err := s.store.GetCustomer(ctx, "Acme Supplies")
	s.Require().NoError(err)
	s.Len(got.Documents, 1)
	s.Equal(domain.DocumentVerified, got.Documents[0].Status)

	err = s.store.UpdateDocumentStatus(ctx, "Acme Supplies",
		domain.DocumentBankStatement, domain.DocumentVerified)
	var notFound *domain.ErrNotFound
	s.Require().ErrorAs(err, &notFound)
}
