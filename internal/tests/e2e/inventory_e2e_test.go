// Package e2e provides end-to-end tests for the inventory REST API.
// The suite starts a real NATS server with testcontainers-go, wires the application the way
// cmd/inventory does and checks both the HTTP responses and the events stored in JetStream.
package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/abgdnv/inventory/internal/app"
	"github.com/abgdnv/inventory/internal/config"
	"github.com/abgdnv/inventory/internal/service"
	"github.com/abgdnv/inventory/pkg/config/configloader"
	"github.com/abgdnv/inventory/pkg/messaging"
	"github.com/abgdnv/inventory/pkg/messaging/events"
	natsgo "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/nats"
)

// skipE2ETests is the environment variable that can be set to skip E2E tests.
const skipE2ETests = "INVENTORY_SKIP_E2E_TESTS"

// itemsURL is the base URL of the inventory API.
const itemsURL = "/api/v1/items"

// InventoryE2ESuite is a test suite for end-to-end tests of the inventory.
type InventoryE2ESuite struct {
	suite.Suite
	natsContainer  *nats.NATSContainer
	server         *httptest.Server
	httpClient     *http.Client
	closePublisher func()
	nc             *natsgo.Conn
	js             jetstream.JetStream
	appCfg         *config.Config
	ctx            context.Context
}

func (s *InventoryE2ESuite) SetupSuite() {
	s.ctx = context.Background()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))

	var err error
	s.natsContainer, err = nats.Run(s.ctx, "nats:2.11.6-alpine")
	s.Require().NoError(err, "Failed to run NATS container")
	natsURL, err := s.natsContainer.ConnectionString(s.ctx)
	s.Require().NoError(err)

	s.appCfg, err = configloader.Load[*config.Config]("inventory_e2e", config.Defaults())
	s.Require().NoError(err)
	s.appCfg.Nats.Enabled = true
	s.appCfg.Nats.Url = natsURL

	publisher, closeFn, err := app.NewPublisher(s.ctx, s.appCfg, logger)
	s.Require().NoError(err, "Failed to create publisher")
	s.closePublisher = closeFn

	deps := app.SetupDependencies(publisher, logger, s.appCfg)
	s.server = httptest.NewServer(app.SetupHttpHandler(deps))
	s.httpClient = s.server.Client()

	s.nc, err = natsgo.Connect(natsURL)
	s.Require().NoError(err)
	s.js, err = jetstream.New(s.nc)
	s.Require().NoError(err)
}

func (s *InventoryE2ESuite) TearDownSuite() {
	if s.server != nil {
		s.server.Close()
	}
	if s.closePublisher != nil {
		s.closePublisher()
	}
	if s.nc != nil {
		s.nc.Close()
	}
	if err := testcontainers.TerminateContainer(s.natsContainer); err != nil {
		s.T().Logf("failed to terminate NATS container: %v", err)
	}
}

func TestInventoryE2E(t *testing.T) {
	if os.Getenv(skipE2ETests) == "1" {
		t.Skip("Skipping E2E tests based on " + skipE2ETests + " env var")
	}
	suite.Run(t, new(InventoryE2ESuite))
}

// do sends a request with an optional JSON body and returns the status code and body.
func (s *InventoryE2ESuite) do(method, path string, body any) (int, []byte) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(s.ctx, method, s.server.URL+path, reader)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.httpClient.Do(req)
	s.Require().NoError(err)
	defer func() { _ = resp.Body.Close() }()
	respBody, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	return resp.StatusCode, respBody
}

func (s *InventoryE2ESuite) decodeItem(body []byte) service.ItemDto {
	var item service.ItemDto
	s.Require().NoError(json.Unmarshal(body, &item))
	return item
}

func (s *InventoryE2ESuite) TestItemLifecycle() {
	// add
	code, body := s.do(http.MethodPost, itemsURL, map[string]any{"name": "Pen", "quantity": 10, "price": "2.50"})
	s.Require().Equal(http.StatusCreated, code, string(body))

	// repeat add keeps the original price
	code, body = s.do(http.MethodPost, itemsURL, map[string]any{"name": "Pen", "quantity": 5, "price": "9.99"})
	s.Require().Equal(http.StatusCreated, code, string(body))
	item := s.decodeItem(body)
	s.Equal(15, item.Quantity)
	s.True(decimal.RequireFromString("2.50").Equal(item.Price))
	s.Equal("Pen: 15 units @ ₹2.50", item.Display)

	// non-numeric change leaves the quantity unchanged
	code, _ = s.do(http.MethodPatch, itemsURL+"/Pen/quantity", map[string]string{"change": "abc"})
	s.Equal(http.StatusBadRequest, code)

	code, body = s.do(http.MethodPatch, itemsURL+"/Pen/quantity", map[string]string{"change": "-20"})
	s.Require().Equal(http.StatusOK, code, string(body))
	s.Equal(-5, s.decodeItem(body).Quantity)

	// list
	code, body = s.do(http.MethodGet, itemsURL, nil)
	s.Require().Equal(http.StatusOK, code)
	var list []service.ItemDto
	s.Require().NoError(json.Unmarshal(body, &list))
	s.Require().Len(list, 1)
	s.Equal("Pen", list[0].Name)

	// remove twice
	code, _ = s.do(http.MethodDelete, itemsURL+"/Pen", nil)
	s.Equal(http.StatusNoContent, code)
	code, _ = s.do(http.MethodDelete, itemsURL+"/Pen", nil)
	s.Equal(http.StatusNotFound, code)
	code, _ = s.do(http.MethodGet, itemsURL+"/Pen", nil)
	s.Equal(http.StatusNotFound, code)

	// every successful change was published in order
	s.Equal([]string{
		messaging.InventoryItemAddedSubject,
		messaging.InventoryItemUpdatedSubject,
		messaging.InventoryItemUpdatedSubject,
		messaging.InventoryItemRemovedSubject,
	}, s.publishedSubjects(4))
}

// publishedSubjects reads up to n events from the inventory stream.
func (s *InventoryE2ESuite) publishedSubjects(n int) []string {
	stream, err := s.js.Stream(s.ctx, s.appCfg.Nats.Stream)
	require.NoError(s.T(), err)
	consumer, err := stream.OrderedConsumer(s.ctx, jetstream.OrderedConsumerConfig{
		FilterSubjects: []string{messaging.InventorySubjects},
	})
	require.NoError(s.T(), err)

	batch, err := consumer.Fetch(n, jetstream.FetchMaxWait(5*time.Second))
	require.NoError(s.T(), err)
	var subjects []string
	for msg := range batch.Messages() {
		var payload events.ItemEvent
		require.NoError(s.T(), json.Unmarshal(msg.Data(), &payload))
		require.Equal(s.T(), "Pen", payload.Name)
		subjects = append(subjects, msg.Subject())
	}
	return subjects
}
