package callback

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rkondaveeti/IngestAPI/internal/customHttpClient"
	"github.com/rkondaveeti/IngestAPI/pkg/logger_i"
)

// Notifier delivers the final document record to an upload-time callback
// URL. Delivery is best-effort: the pipeline logs the outcome and moves
// on regardless.
type Notifier interface {
	Deliver(ctx context.Context, url string, payload any) error
}

type httpNotifier struct {
	client *http.Client
	logger *logger_i.Logger
}

func NewNotifier() Notifier {
	return &httpNotifier{
		client: customHttpClient.PooledClient(),
		logger: logger_i.NewLogger("CallbackNotifier"),
	}
}

func (n *httpNotifier) Deliver(ctx context.Context, url string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding callback payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building callback request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("callback delivery to %s failed: %w", url, err)
	}
	defer resp.Body.Close()

	n.logger.WithTrace(ctx).Debug("callback delivered", "url", url, "status", resp.StatusCode)
	if resp.StatusCode >= 400 {
		return fmt.Errorf("callback target %s answered %d", url, resp.StatusCode)
	}
	return nil
}
