package services

import (
	"context"
	"io"
	"sync"

	"github.com/stretchr/testify/mock"

	"farsreport/internal/dataprocessing"
	"farsreport/pkg/contracts/events"
)

type mockSummarizer struct {
	mock.Mock
}

func (m *mockSummarizer) SummarizeWithResults(ctx context.Context, years []any) (*dataprocessing.Summary, error) {
	args := m.Called(ctx, years)
	summary, _ := args.Get(0).(*dataprocessing.Summary)
	return summary, args.Error(1)
}

type mockMapper struct {
	mock.Mock
}

func (m *mockMapper) MapState(ctx context.Context, w io.Writer, state int, year any) (dataprocessing.MapResult, error) {
	args := m.Called(ctx, w, state, year)
	return args.Get(0).(dataprocessing.MapResult), args.Error(1)
}

type mockYearLister struct {
	mock.Mock
}

func (m *mockYearLister) AvailableYears() ([]int, error) {
	args := m.Called()
	years, _ := args.Get(0).([]int)
	return years, args.Error(1)
}

type recordingPublisher struct {
	mu       sync.Mutex
	messages []events.Message
}

func (p *recordingPublisher) Publish(_ context.Context, msg events.Message) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, msg)
}

func (p *recordingPublisher) Messages() []events.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.Message(nil), p.messages...)
}
