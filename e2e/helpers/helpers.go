package helpers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MichalMitros/cms-sync/internal/platform/models"
	"github.com/MichalMitros/cms-sync/internal/platform/models/modelstesting"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"
)

const (
	contentType = "Content-Type"
	apiKey      = "e2e-api-key"
)

// APIKey returns api key accepted by mocked CMS server.
func APIKey() string {
	return apiKey
}

// PrepareMockedCMSServer is helper function for mocking custom CMS API.
// Returns function for setting catalog to return, catalog number is from 0 to len(catalogs) exclusive.
func PrepareMockedCMSServer(t *testing.T, catalogs [][]models.Product) (*httptest.Server, func(int)) {
	t.Helper()

	bodies := make([][]byte, len(catalogs))
	for ix := range catalogs {
		body, err := json.Marshal(map[string][]models.Product{"products": catalogs[ix]})
		if err != nil {
			require.FailNow(t, "can't encode catalog", err)
		}
		bodies[ix] = body
	}

	var catalogToReturnIx atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(wrt http.ResponseWriter, req *http.Request) {
		if req.Header.Get("Authorization") != "Bearer "+apiKey {
			wrt.WriteHeader(http.StatusUnauthorized)
			return
		}
		wrt.Header().Add(contentType, "application/json")
		wrt.WriteHeader(http.StatusOK)
		_, _ = wrt.Write(bodies[catalogToReturnIx.Load()])
	}))

	t.Cleanup(func() {
		srv.Close()
	})

	return srv, func(i int) { catalogToReturnIx.Store(int32(i)) }
}

// DeclareRMQQueue is helper function for declaring RMQ queue and binding and cleaning them after test is finished.
func DeclareRMQQueue(t *testing.T, channel *amqp.Channel, queueName, exchange, routingKey string) {
	t.Helper()

	_, err := channel.QueueDeclare(queueName, true, false, false, false, nil)
	if err != nil {
		require.FailNow(t, "can't declare queue", queueName, err)
	}

	err = channel.QueueBind(queueName, routingKey, exchange, false, nil)
	if err != nil {
		require.FailNow(t, "can't bind queue", queueName, routingKey, err)
	}

	t.Cleanup(func() {
		_, err := channel.QueueDelete(queueName, false, false, false)
		if err != nil {
			require.FailNow(t, "can't delete queue", queueName, err)
		}
	})
}

// ConsumeResults is helper function returning deliveries of sync results published to queue.
func ConsumeResults(t *testing.T, channel *amqp.Channel, queueName string) <-chan amqp.Delivery {
	t.Helper()

	deliveries, err := channel.Consume(queueName, "", true, false, false, false, nil)
	if err != nil {
		require.FailNow(t, "can't consume results", queueName, err)
	}

	return deliveries
}

// WaitForSyncResult is blocking helper function, returns next published sync result.
func WaitForSyncResult(t *testing.T, deliveries <-chan amqp.Delivery) models.SyncResult {
	t.Helper()

	select {
	case delivery := <-deliveries:
		var result models.SyncResult
		if err := json.Unmarshal(delivery.Body, &result); err != nil {
			require.FailNow(t, "can't decode sync result", err)
		}
		return result
	case <-time.After(30 * time.Second):
		require.FailNow(t, "sync result not published")
		return models.SyncResult{}
	}
}

// GenerateTestData generates n products with unique slugs.
func GenerateTestData(t *testing.T, n int) []models.Product {
	t.Helper()

	results := make([]models.Product, n)

	for ix := 0; ix < n; ix++ {
		results[ix] = modelstesting.FakeProduct()
	}

	return results
}

// Touch returns copies of products updated after their previous version.
func Touch(products []models.Product) []models.Product {
	results := make([]models.Product, len(products))

	for ix := range products {
		results[ix] = products[ix]
		results[ix].Description = products[ix].Description + " (updated)"
		results[ix].UpdatedAt = products[ix].UpdatedAt.Add(time.Hour)
	}

	return results
}
