package e2e

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/MichalMitros/cms-sync/cmd/cmssync/config"
	"github.com/MichalMitros/cms-sync/e2e/helpers"
	"github.com/MichalMitros/cms-sync/internal/cms"
	"github.com/MichalMitros/cms-sync/internal/fallback"
	"github.com/MichalMitros/cms-sync/internal/handler"
	"github.com/MichalMitros/cms-sync/internal/platform/models"
	"github.com/MichalMitros/cms-sync/internal/platform/rabbitmq"
	"github.com/MichalMitros/cms-sync/internal/platform/storage"
	pgmodels "github.com/MichalMitros/cms-sync/internal/platform/storage/gen/postgres/public/model"
	"github.com/MichalMitros/cms-sync/internal/platform/storage/storagetesting"
	"github.com/MichalMitros/cms-sync/internal/syncer"
	"github.com/MichalMitros/cms-sync/pkg/v1/commander"
	_ "github.com/lib/pq"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const exchange = "cms-sync-e2e"

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	os.Exit(m.Run())
}

func TestE2E(t *testing.T) {
	suite.Run(t, new(E2ETestSuite))
}

type E2ETestSuite struct {
	suite.Suite
	cfg        *config.Config
	connection *amqp.Connection
	channel    *amqp.Channel
	db         *sql.DB
}

func (s *E2ETestSuite) SetupSuite() {
	if os.Getenv("DATABASE_URL") == "" || os.Getenv("RABBITMQ_URL") == "" {
		s.T().Skip("please provide DATABASE_URL and RABBITMQ_URL environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		s.Require().FailNow("can't load config", err)
	}
	s.cfg = &cfg

	if s.connection, err = amqp.Dial(cfg.RabbitMQ.URL); err != nil {
		s.Require().FailNow("can't open RabbitMQ connection", err)
	}

	if s.channel, err = s.connection.Channel(); err != nil {
		s.Require().FailNow("can't open RabbitMQ channel", err)
	}

	s.db = storagetesting.Open(s.T())
	storagetesting.CleanupData(s.T(), s.db)
}

func (s *E2ETestSuite) TearDownSuite() {
	storagetesting.CleanupData(s.T(), s.db)
	if err := s.db.Close(); err != nil {
		s.FailNow("can't close Postgres connection", err)
	}

	if err := s.channel.Close(); err != nil {
		s.FailNow("can't close RabbitMQ channel", err)
	}

	if err := s.connection.Close(); err != nil {
		s.FailNow("can't close RabbitMQ connection", err)
	}
}

func (s *E2ETestSuite) TestSyncAndFallback() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Prepare RMQ client, it declares test exchange
	rmq, err := rabbitmq.NewRabbitMQ(s.connection, exchange)
	if err != nil {
		s.Require().FailNow("can't create RabbitMQ client", err)
	}

	// Prepare test RMQ queues
	suffix := rand.Int63n(100000)
	commandsQueue := fmt.Sprintf("cms-sync-e2e-commands-%d", suffix)
	commandsKey := fmt.Sprintf("cms-sync.cmd.e2e.%d", suffix)
	resultsQueue := fmt.Sprintf("cms-sync-e2e-results-%d", suffix)
	resultsKey := fmt.Sprintf("cms-sync.results.e2e.%d", suffix)
	helpers.DeclareRMQQueue(s.T(), s.channel, commandsQueue, exchange, commandsKey)
	helpers.DeclareRMQQueue(s.T(), s.channel, resultsQueue, exchange, resultsKey)
	results := helpers.ConsumeResults(s.T(), s.channel, resultsQueue)

	// Prepare test data
	products := helpers.GenerateTestData(s.T(), 45)
	firstCatalog := products[:25] // first 25 products
	// last 35 products with first 15 of them updated, so first 10 products should be removed
	secondCatalog := append(helpers.Touch(products[10:25]), products[25:]...)

	// Mock CMS server
	cmsSrv, setCatalog := helpers.PrepareMockedCMSServer(s.T(), [][]models.Product{firstCatalog, secondCatalog})
	setCatalog(0)

	// Prepare test logger
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

	// Prepare CMS client, fallback service and syncer
	client, err := cms.NewClient(cms.Config{
		Provider:      cms.ProviderCustom,
		URL:           cmsSrv.URL,
		APIKey:        helpers.APIKey(),
		Timeout:       5 * time.Second,
		RetryAttempts: 0,
	}, cms.WithHTTPClient(cmsSrv.Client()))
	s.Require().NoError(err, "should create CMS client")

	store := storage.NewPostgres(s.db)
	fallbackService := fallback.NewService(client, store, store)
	syn := syncer.NewSyncer(
		client,
		store,
		syncer.WithBatchSize(s.cfg.Sync.BatchSize),
		syncer.WithStatusRecorder(fallbackService),
		syncer.WithRunStore(store),
	)

	// Prepare and run handler
	han := handler.NewHandler(rmq, rmq, syn, resultsKey, &logger)
	handlerErr := han.Start(ctx, commandsQueue)
	s.Require().NoError(handlerErr, "handler shouldn't return any error")

	publisher := commander.NewSyncCommander(commander.NewRabbitMQSender(rmq, commandsKey))

	// Send sync command
	if err := publisher.SendSyncCommand(ctx, commander.SyncCommand{}); err != nil {
		s.Require().FailNow("can't publish sync command", err)
	}

	// Wait for sync to be finished
	firstRun := helpers.WaitForSyncResult(s.T(), results)

	s.True(firstRun.Success, "first run should succeed")
	s.Equal(len(firstCatalog), firstRun.ProductsAdded, "should return correct number of added products")
	s.Zero(firstRun.ProductsUpdated, "should return correct number of updated products")
	s.Zero(firstRun.ProductsRemoved, "should return correct number of removed products")
	s.Empty(firstRun.Errors, "should return no errors")
	assertSlugs(s.T(), firstCatalog, storagetesting.GetProducts(s.T(), s.db))

	// Second iteration
	setCatalog(1)

	if err := publisher.SendSyncCommand(ctx, commander.SyncCommand{}); err != nil {
		s.Require().FailNow("can't publish sync command", err)
	}

	secondRun := helpers.WaitForSyncResult(s.T(), results)

	s.True(secondRun.Success, "second run should succeed")
	s.Equal(20, secondRun.ProductsAdded, "should return correct number of added products")
	s.Equal(15, secondRun.ProductsUpdated, "should return correct number of updated products")
	s.Equal(10, secondRun.ProductsRemoved, "should return correct number of removed products")
	assertSlugs(s.T(), secondCatalog, storagetesting.GetProducts(s.T(), s.db))

	updated, err := store.ProductBySlug(ctx, secondCatalog[0].Slug)
	s.Require().NoError(err, "should get updated product")
	s.Equal(secondCatalog[0].Description, updated.Description, "should store updated description")

	// Sync status and history are recorded
	status := fallbackService.SyncStatus(ctx)
	s.True(status.Healthy, "should be healthy after successful syncs")
	s.Zero(status.ErrorCount, "should have no errors")
	s.Require().NotNil(status.LastSuccessfulSync, "should record last successful sync")
	s.Less(status.DaysSinceLastSync, 1.0, "should have recent sync")

	runs, err := store.ListSyncRuns(ctx, 10)
	s.Require().NoError(err, "should list sync runs")
	s.Require().Len(runs, 2, "should store both runs")
	s.Equal(secondRun.ID, runs[0].ID, "should list newest run first")

	// CMS goes down, products are served from local store
	cmsSrv.Close()

	served := fallbackService.Products(ctx, models.ProductFilters{})
	s.Equal(fallback.SourceLocal, served.Source, "should fall back to local store")
	s.True(served.IsStale, "should mark local products as stale")
	s.Contains(served.Error, "CMS unavailable", "should report CMS error")
	s.Len(served.Products, len(secondCatalog), "should serve all synced products")

	// Cancel context to stop consumer
	cancel()
	<-rmq.Done()

	// Check logs
	logs := strings.Split(buf.String(), "\n")
	logs = lo.Filter(logs, func(log string, _ int) bool { return strings.TrimSpace(log) != "" })
	assertLogsMessages(s.T(), []string{"sync command received", "sync command received"}, logs)
}

// assertLogsMessages is helper function which unmarshals log json and asserts message.
func assertLogsMessages(t *testing.T, expected []string, actual []string) {
	t.Helper()

	require.Len(t, actual, len(expected), "incorrect number of logs")

	for ix, exp := range expected {
		var log struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal([]byte(actual[ix]), &log); err != nil {
			require.FailNow(t, "can't unmarshal json log", err)
		}

		assert.Equalf(t, exp, log.Message, "log at index %d is incorrect", ix)
	}
}

// assertSlugs is helper function comparing stored products with expected catalog.
func assertSlugs(t *testing.T, expected []models.Product, actual []pgmodels.Product) {
	t.Helper()

	require.Len(t, actual, len(expected), "incorrect number of products")

	expectedSlugs := lo.Map(expected, func(p models.Product, _ int) string { return p.Slug })
	actualSlugs := lo.Map(actual, func(p pgmodels.Product, _ int) string { return p.Slug })

	assert.ElementsMatch(t, expectedSlugs, actualSlugs, "should store catalog products")
}
