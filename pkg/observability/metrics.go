package observability

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// Metrics publishes operational counters to CloudWatch. Emission is
// best-effort: a metrics failure never fails the operation being measured.
type Metrics struct {
	namespace string
	client    *cloudwatch.Client
}

// NewMetrics creates a metrics publisher under the given namespace
func NewMetrics(namespace string, client *cloudwatch.Client) *Metrics {
	return &Metrics{
		namespace: namespace,
		client:    client,
	}
}

// Count records a count metric with optional dimensions
func (m *Metrics) Count(ctx context.Context, name string, value float64, dimensions map[string]string) {
	m.put(ctx, name, value, types.StandardUnitCount, dimensions)
}

// Duration records a latency metric in milliseconds
func (m *Metrics) Duration(ctx context.Context, name string, d time.Duration, dimensions map[string]string) {
	m.put(ctx, name, float64(d.Milliseconds()), types.StandardUnitMilliseconds, dimensions)
}

func (m *Metrics) put(ctx context.Context, name string, value float64, unit types.StandardUnit, dimensions map[string]string) {
	if m.client == nil {
		return
	}

	dims := make([]types.Dimension, 0, len(dimensions))
	for k, v := range dimensions {
		dims = append(dims, types.Dimension{
			Name:  aws.String(k),
			Value: aws.String(v),
		})
	}

	datum := types.MetricDatum{
		MetricName: aws.String(name),
		Value:      aws.Float64(value),
		Unit:       unit,
		Timestamp:  aws.Time(time.Now()),
		Dimensions: dims,
	}

	// Ignore the error: metrics must not affect the request path.
	m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(m.namespace),
		MetricData: []types.MetricDatum{datum},
	})
}
