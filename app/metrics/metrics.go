package metrics

import (
	"context"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

const namespace = "NewsIngest"

// API is the slice of the CloudWatch client the emitter needs.
type API interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

var _ API = (*cloudwatch.Client)(nil)

// Emitter publishes fire-and-forget run counters tagged with the deployment
// environment. Emission failures are logged and swallowed, never surfaced.
type Emitter struct {
	client      API
	environment string
}

func NewEmitter(client API, environment string) *Emitter {
	return &Emitter{client: client, environment: environment}
}

func (e *Emitter) Count(ctx context.Context, name string, value float64) {
	_, err := e.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(namespace),
		MetricData: []types.MetricDatum{
			{
				MetricName: aws.String(name),
				Dimensions: []types.Dimension{
					{Name: aws.String("Environment"), Value: aws.String(e.environment)},
				},
				Timestamp: aws.Time(time.Now().UTC()),
				Value:     aws.Float64(value),
				Unit:      types.StandardUnitCount,
			},
		},
	})
	if err != nil {
		slog.Warn("Failed to publish metric", "metric", name, "error", err)
	}
}
