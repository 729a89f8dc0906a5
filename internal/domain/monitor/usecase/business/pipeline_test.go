package business

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	channelentities "github.com/stavropolsky/tg-track/internal/domain/channel/entities"
	"github.com/stavropolsky/tg-track/internal/domain/monitor/entities"
	"github.com/stavropolsky/tg-track/internal/infrastructure/metrics"
)

type pipelineFixture struct {
	registry  *mockRegistry
	dest      *mockDestination
	sender    *mockSender
	publisher *mockPublisher
	metrics   *metrics.Metrics
	pipeline  *Pipeline
}

func newPipelineFixture() *pipelineFixture {
	f := &pipelineFixture{
		registry:  newMockRegistry(),
		dest:      newMockDestination(),
		sender:    &mockSender{},
		publisher: &mockPublisher{},
		metrics:   metrics.NewMetrics(prometheus.NewRegistry()),
	}
	f.pipeline = f.build()
	return f
}

func (f *pipelineFixture) build() *Pipeline {
	logger := zerolog.Nop()
	return NewPipeline(
		NewFilter(f.registry, logger),
		NewEngine(f.registry, f.dest, f.sender, logger),
		f.dest,
		f.publisher,
		f.metrics,
		logger,
	)
}

func TestPipeline_ForwardsAndPublishes(t *testing.T) {
	f := newPipelineFixture()

	decision := f.pipeline.Process(context.Background(), publicEvent("alpha here"))

	assert.True(t, decision.Forwarded())
	require.Len(t, f.sender.texts, 1)
	require.Len(t, f.publisher.published, 1)
	assert.Equal(t, "alpha", f.publisher.published[0].Keyword)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.MessagesForwarded.WithLabelValues("send")))
}

func TestPipeline_Drops(t *testing.T) {
	f := newPipelineFixture()

	decision := f.pipeline.Process(context.Background(), publicEvent("nothing"))

	assert.False(t, decision.Forwarded())
	assert.Equal(t, entities.DropNoMatch, decision.Reason)
	assert.Empty(t, f.sender.texts)
	assert.Empty(t, f.publisher.published)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.AdmissionDropped.WithLabelValues("no_match")))
}

func TestPipeline_IgnoresDestinationChannel(t *testing.T) {
	f := newPipelineFixture()
	// even if the destination somehow ended up tracked
	f.registry.channels[destinationID] = "public"

	event := publicEvent("alpha")
	event.SourceChatID = destinationID

	decision := f.pipeline.Process(context.Background(), event)

	assert.Equal(t, entities.DropDestination, decision.Reason)
	assert.Empty(t, f.sender.texts)
}

func TestPipeline_RelayFailureIsContained(t *testing.T) {
	f := newPipelineFixture()
	f.sender.err = errors.New("forbidden")

	var decision entities.Decision
	assert.NotPanics(t, func() {
		decision = f.pipeline.Process(context.Background(), publicEvent("alpha"))
	})

	assert.True(t, decision.Forwarded())
	assert.Empty(t, f.publisher.published)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.RelayFailures.WithLabelValues("delivery")))
}

func TestPipeline_DestinationFailureRetriedNextMessage(t *testing.T) {
	f := newPipelineFixture()
	f.dest.err = errors.New("resolution failed")
	f.dest.info = nil

	f.pipeline.Process(context.Background(), publicEvent("alpha"))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.RelayFailures.WithLabelValues("destination")))

	f.dest.err = nil
	f.dest.info = &channelentities.ChannelInfo{ChatID: destinationID}
	f.pipeline.Process(context.Background(), publicEvent("alpha"))

	assert.Equal(t, 2, f.dest.calls)
	assert.Len(t, f.sender.texts, 1)
}

func TestPipeline_PublishFailureIgnored(t *testing.T) {
	f := newPipelineFixture()
	f.publisher.err = errors.New("broker down")

	decision := f.pipeline.Process(context.Background(), publicEvent("alpha"))

	assert.True(t, decision.Forwarded())
	assert.Len(t, f.sender.texts, 1)
}

func TestPipeline_StalledPublishIsBounded(t *testing.T) {
	f := newPipelineFixture()
	f.publisher.block = true
	f.pipeline.publishTimeout = 20 * time.Millisecond

	start := time.Now()
	decision := f.pipeline.Process(context.Background(), publicEvent("alpha"))

	assert.True(t, decision.Forwarded())
	assert.Len(t, f.publisher.published, 1)
	assert.Less(t, time.Since(start), time.Second)
}

type panickingSender struct{}

func (panickingSender) CopyMessage(context.Context, entities.CopyRequest) error { panic("boom") }
func (panickingSender) SendText(context.Context, int64, string) error         { panic("boom") }

func TestPipeline_RecoversPanic(t *testing.T) {
	f := newPipelineFixture()
	logger := zerolog.Nop()
	pipeline := NewPipeline(
		NewFilter(f.registry, logger),
		NewEngine(f.registry, f.dest, panickingSender{}, logger),
		f.dest, f.publisher, f.metrics, logger,
	)

	var decision entities.Decision
	require.NotPanics(t, func() {
		decision = pipeline.Process(context.Background(), publicEvent("alpha"))
	})

	assert.False(t, decision.Forwarded())
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.RelayFailures.WithLabelValues("panic")))
}

func TestPipeline_SequentialOrder(t *testing.T) {
	f := newPipelineFixture()

	for _, text := range []string{"alpha one", "skip", "beta two"} {
		f.pipeline.Process(context.Background(), publicEvent(text))
	}

	require.Len(t, f.sender.texts, 2)
	assert.Contains(t, f.sender.texts[0].text, "alpha one")
	assert.Contains(t, f.sender.texts[1].text, "beta two")
}
