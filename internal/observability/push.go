package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Push sends the gathered metrics to a Prometheus Pushgateway. Batch runs end
// before a scraper would see them, so the final state is pushed instead.
func Push(url, job string, g prometheus.Gatherer) error {
	if err := push.New(url, job).Gatherer(g).Push(); err != nil {
		return fmt.Errorf("push metrics: %w", err)
	}
	return nil
}
