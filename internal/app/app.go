package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/twmb/franz-go/pkg/sr"
	"github.com/zafago/storefront/config"
	"github.com/zafago/storefront/internal/adapter/httphandler"
	"github.com/zafago/storefront/internal/adapter/kafka"
	"github.com/zafago/storefront/internal/adapter/rediscart"
	"github.com/zafago/storefront/internal/adapter/storage"
	"github.com/zafago/storefront/internal/core/catalog"
	"github.com/zafago/storefront/internal/core/domain"
	"github.com/zafago/storefront/internal/core/pricing"
	"github.com/zafago/storefront/internal/core/service"
	"github.com/zafago/storefront/pkg/schema"
)

type serdes struct {
	orderEvent schema.Serde
}

type outbound struct {
	cartStore      rediscart.CartStore
	sqlDB          storage.SQLDB
	products       storage.ProductsRepository
	orders         storage.OrdersRepository
	ordersProducer kafka.OrdersProducer
	salesProcessor kafka.SalesProcessor
	salesView      kafka.SalesView
}

type App struct {
	ctx        context.Context
	cfg        config.Config
	serdes     serdes
	outbound   outbound
	service    service.Service
	httpServer httphandler.HTTPServer
}

func New(ctx context.Context, cfg config.Config) *App {
	app := &App{ctx: ctx, cfg: cfg}

	app.initLogger()
	app.initSerdes()
	app.initOutboundAdapters()
	app.initCoreService()
	app.initInboundAdapters()

	return app
}

func (app *App) initLogger() {
	opts := &slog.HandlerOptions{Level: app.cfg.LogLevel}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, opts))
	slog.SetDefault(logger)
}

func (app *App) initSerdes() {
	const op = "App.initSerdes"
	urls := app.cfg.Broker.SchemaRegistryURLs
	ctx := app.ctx

	srClient, err := sr.NewClient(sr.URLs(urls...))
	if err != nil {
		app.fallDown(op, err)
	}

	schemaCreater := schema.NewSchemaCreater(srClient)

	orderEventSS := app.cfg.Broker.Topics.OrderEvents + "-value"
	orderEventSerde, err := schema.NewSerdeOrderEventV1(
		ctx,
		schema.SubjectOpt(orderEventSS),
		schema.SchemaIdentifierOpt(schemaCreater),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	app.serdes.orderEvent = orderEventSerde
}

func (app *App) initOutboundAdapters() {
	const op = "App.initOutboundAdapters"

	ctx := app.ctx
	seedBrokers := app.cfg.Broker.SeedBrokers
	orderEventsTopic := app.cfg.Broker.Topics.OrderEvents
	salesGroup := app.cfg.Broker.Consumers.SalesCounterGroup

	cartStore, err := rediscart.New(
		ctx, app.cfg.Redis.Addr, app.cfg.Redis.CartKeyPrefix,
	)
	if err != nil {
		app.fallDown(op, err)
	}

	sqlDB, err := storage.NewSQLDB(ctx, app.cfg.SQLDB)
	if err != nil {
		app.fallDown(op, err)
	}

	ordersProducer, err := kafka.NewOrdersProducer(
		kafka.ProducerClientOpt(ctx, seedBrokers, orderEventsTopic),
		kafka.ProducerEncoderOpt(app.serdes.orderEvent),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	salesProcessor, err := kafka.NewSalesProcessor(
		seedBrokers, orderEventsTopic, salesGroup, app.serdes.orderEvent,
	)
	if err != nil {
		app.fallDown(op, err)
	}

	salesView, err := kafka.NewSalesView(seedBrokers, salesGroup)
	if err != nil {
		app.fallDown(op, err)
	}

	app.outbound.cartStore = cartStore
	app.outbound.sqlDB = sqlDB
	app.outbound.products = storage.NewProductsRepository(sqlDB)
	app.outbound.orders = storage.NewOrdersRepository(sqlDB)
	app.outbound.ordersProducer = ordersProducer
	app.outbound.salesProcessor = salesProcessor
	app.outbound.salesView = salesView
}

func (app *App) initCoreService() {
	pricingEngine := pricing.New(app.pricingParams())

	coupons := domain.CouponTable(app.cfg.Coupons)
	if len(coupons) == 0 {
		coupons = domain.DefaultCoupons
	}

	app.service = service.New(
		pricingEngine,
		catalog.New(),
		coupons,
		app.outbound.cartStore,
		app.outbound.products,
		app.outbound.orders,
		app.outbound.ordersProducer,
		app.outbound.salesView,
		app.outbound.products,
	)
}

// Zero config values fall back to the engine defaults.
func (app *App) pricingParams() (shippingFee, taxRate float64) {
	shippingFee = app.cfg.Pricing.ShippingFee
	if shippingFee == 0 {
		shippingFee = pricing.DefaultShippingFee
	}
	taxRate = app.cfg.Pricing.TaxRate
	if taxRate == 0 {
		taxRate = pricing.DefaultTaxRate
	}
	return
}

func (app *App) initInboundAdapters() {
	addr := app.cfg.HTTPServerAddr
	mux := http.NewServeMux()
	httphandler.RegisterProducts(mux, app.service, app.service)
	httphandler.RegisterCart(mux, app.service)
	httphandler.RegisterOrders(mux, app.service)

	handler := httphandler.AllowJSON(mux)
	app.httpServer = httphandler.NewHTTPServer(addr, handler)
}

func (app *App) Run(stopFn context.CancelFunc) {
	go app.httpServer.Run(stopFn)
	go app.outbound.salesProcessor.Run(app.ctx)
	go app.outbound.salesView.Run(app.ctx)

	slog.Info("application is running")
}

func (app *App) Close(ctx context.Context) {
	slog.Info("application is closing...")

	app.httpServer.Close(ctx)
	app.outbound.salesProcessor.Close()
	app.outbound.ordersProducer.Close()
	app.outbound.cartStore.Close()
	app.outbound.sqlDB.Close()

	slog.Info("application is closed")
}

func (app *App) fallDown(op string, err error) {
	panic(fmt.Errorf("%s: %w", op, err))
}
