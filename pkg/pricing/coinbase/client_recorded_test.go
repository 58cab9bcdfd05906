package coinbase

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/dnaeon/go-vcr/recorder"
	"github.com/stretchr/testify/assert"
)

// This test uses go-vcr to record/replay a real public ticker call.
// It skips by default if the cassette is absent and RECORD_CASSETTES != 1.
func TestClient_GetSpotPrice_Recorded(t *testing.T) {
	cassette := filepath.Join("testdata", "cassettes", "coinbase_ticker.yaml")
	if _, err := os.Stat(cassette); os.IsNotExist(err) {
		if os.Getenv("RECORD_CASSETTES") != "1" {
			t.Skipf("cassette missing; set RECORD_CASSETTES=1 to record: %s", cassette)
		}
		err := os.MkdirAll(filepath.Dir(cassette), 0o755)
		assert.NoError(t, err, "mkdir cassettes dir should succeed")
	}

	r, err := recorder.New(cassette)
	assert.NoError(t, err, "recorder.New should not error")
	assert.NotNil(t, r, "recorder should not be nil")
	defer func() { _ = r.Stop() }()

	client := NewClient(WithHTTPClient(&http.Client{Transport: r}))
	price, err := client.GetSpotPrice(context.Background(), "BTC-USD")
	assert.NoError(t, err, "GetSpotPrice should not error")
	assert.True(t, price.IsPositive(), "price should be positive")
}
