package svc

import (
	"log"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx driver
	"github.com/zeromicro/go-zero/core/stores/sqlx"

	"networth-api/internal/config"
	"networth-api/internal/model"
	"networth-api/pkg/portfolio"
	pricingpkg "networth-api/pkg/pricing"
	_ "networth-api/pkg/pricing/coinbase"
	_ "networth-api/pkg/pricing/static"
	providerpkg "networth-api/pkg/provider"
	_ "networth-api/pkg/provider/coinbase"
	_ "networth-api/pkg/provider/coldstorage"
	plaidpkg "networth-api/pkg/provider/plaid"
)

type ServiceContext struct {
	Config config.Config

	Portfolio *portfolio.Service

	Providers []providerpkg.Provider
	Pricing   pricingpkg.Provider
	Plaid     *plaidpkg.Provider

	DBConn         sqlx.SqlConn
	LinkItemsModel model.LinkItemsModel
	LinkStore      providerpkg.LinkStore
}

func NewServiceContext(c config.Config) *ServiceContext {
	svc := &ServiceContext{Config: c}

	// Plaid needs somewhere to keep access tokens; without a DSN the source
	// simply has no linked items.
	if c.Postgres.DSN != "" {
		conn := sqlx.NewSqlConn("pgx", c.Postgres.DSN)
		svc.DBConn = conn
		svc.LinkItemsModel = model.NewLinkItemsModel(conn)
		svc.LinkStore = model.NewLinkStore(svc.LinkItemsModel)
	}

	if c.Pricing.Value == nil {
		log.Fatal("pricing config is required")
	}
	pricer, err := c.Pricing.Value.BuildDefault()
	if err != nil {
		log.Fatalf("failed to build pricing provider: %v", err)
	}
	svc.Pricing = pricer

	if c.Providers.Value == nil {
		log.Fatal("providers config is required")
	}
	providers, err := c.Providers.Value.BuildProviders(providerpkg.Deps{LinkStore: svc.LinkStore})
	if err != nil {
		log.Fatalf("failed to build source providers: %v", err)
	}
	svc.Providers = providers

	for _, p := range providers {
		if plaidProvider, ok := p.(*plaidpkg.Provider); ok {
			svc.Plaid = plaidProvider
			break
		}
	}

	resolver := portfolio.NewResolver(pricer, c.Valuation.Currency, c.Valuation.CashEquivalents)
	svc.Portfolio = portfolio.NewService(providers, resolver, c.Valuation.IgnoredAssets)

	return svc
}
