package simulation_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/kingdom-api/internal/errors"
	"github.com/KirkDiggler/kingdom-api/internal/orchestrators/kingdom"
	kingdommock "github.com/KirkDiggler/kingdom-api/internal/orchestrators/kingdom/mock"
	clockmock "github.com/KirkDiggler/kingdom-api/internal/pkg/clock/mock"
	"github.com/KirkDiggler/kingdom-api/internal/simulation"
)

type RunnerTestSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	mockService *kingdommock.MockService
	ctx         context.Context
}

func TestRunnerSuite(t *testing.T) {
	suite.Run(t, new(RunnerTestSuite))
}

func (s *RunnerTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockService = kingdommock.NewMockService(s.ctrl)
	s.ctx = context.Background()
}

func (s *RunnerTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *RunnerTestSuite) TestNewRunnerValidates() {
	_, err := simulation.NewRunner(&simulation.Config{})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))

	_, err = simulation.NewRunner(&simulation.Config{Service: s.mockService, Interval: -time.Second})
	s.Error(err)
}

func (s *RunnerTestSuite) TestStep() {
	runner, err := simulation.NewRunner(&simulation.Config{Service: s.mockService})
	s.Require().NoError(err)

	s.mockService.EXPECT().
		TickAll(s.ctx, &kingdom.TickAllInput{Ticks: 3}).
		Return(&kingdom.TickAllOutput{Processed: 2}, nil)

	out, err := runner.Step(s.ctx, 3)
	s.Require().NoError(err)
	s.Equal(2, out.Processed)
	s.Equal(uint64(3), runner.Ticks())
	s.Equal(uint64(1), runner.Passes())
}

func (s *RunnerTestSuite) TestStepError() {
	runner, err := simulation.NewRunner(&simulation.Config{Service: s.mockService})
	s.Require().NoError(err)

	s.mockService.EXPECT().
		TickAll(s.ctx, &kingdom.TickAllInput{Ticks: 1}).
		Return(nil, errors.Internal("redis down"))

	_, err = runner.Step(s.ctx, 0)
	s.True(errors.IsInternal(err))
	s.Equal(uint64(0), runner.Ticks())
}

func (s *RunnerTestSuite) TestRunUntilCancelled() {
	runner, err := simulation.NewRunner(&simulation.Config{
		Service:  s.mockService,
		Interval: 5 * time.Millisecond,
	})
	s.Require().NoError(err)

	ctx, cancel := context.WithCancel(s.ctx)
	defer cancel()

	var calls atomic.Int32
	s.mockService.EXPECT().
		TickAll(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *kingdom.TickAllInput) (*kingdom.TickAllOutput, error) {
			s.GreaterOrEqual(input.Ticks, 1)
			calls.Add(1)
			return &kingdom.TickAllOutput{}, nil
		}).
		AnyTimes()

	done := make(chan error, 1)
	go func() { done <- runner.Run(ctx) }()

	s.Eventually(func() bool { return calls.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		s.NoError(err)
	case <-time.After(2 * time.Second):
		s.Fail("runner did not stop")
	}
	s.GreaterOrEqual(runner.Ticks(), uint64(3))
}

func (s *RunnerTestSuite) TestRunCatchesUpMissedIntervals() {
	mockClock := clockmock.NewMockClock(s.ctrl)
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	var nowCalls atomic.Int32
	mockClock.EXPECT().Now().DoAndReturn(func() time.Time {
		if nowCalls.Add(1) == 1 {
			return start
		}
		// every later reading lands three intervals after start
		return start.Add(15 * time.Millisecond)
	}).AnyTimes()

	runner, err := simulation.NewRunner(&simulation.Config{
		Service:  s.mockService,
		Interval: 5 * time.Millisecond,
		Clock:    mockClock,
	})
	s.Require().NoError(err)

	ctx, cancel := context.WithCancel(s.ctx)
	defer cancel()

	passed := make(chan int, 1)
	s.mockService.EXPECT().
		TickAll(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *kingdom.TickAllInput) (*kingdom.TickAllOutput, error) {
			passed <- input.Ticks
			return &kingdom.TickAllOutput{}, nil
		}).
		Times(1)

	done := make(chan error, 1)
	go func() { done <- runner.Run(ctx) }()

	select {
	case n := <-passed:
		s.Equal(3, n)
	case <-time.After(2 * time.Second):
		s.Fail("no tick pass")
	}
	cancel()
	s.NoError(<-done)
	s.Equal(uint64(3), runner.Ticks())
}

func (s *RunnerTestSuite) TestRunRetriesIntervalsAfterFailedPass() {
	mockClock := clockmock.NewMockClock(s.ctrl)
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	var nowCalls atomic.Int32
	mockClock.EXPECT().Now().DoAndReturn(func() time.Time {
		if nowCalls.Add(1) == 1 {
			return start
		}
		return start.Add(10 * time.Millisecond)
	}).AnyTimes()

	runner, err := simulation.NewRunner(&simulation.Config{
		Service:  s.mockService,
		Interval: 5 * time.Millisecond,
		Clock:    mockClock,
	})
	s.Require().NoError(err)

	ctx, cancel := context.WithCancel(s.ctx)
	defer cancel()

	applied := make(chan int, 1)
	gomock.InOrder(
		s.mockService.EXPECT().
			TickAll(gomock.Any(), &kingdom.TickAllInput{Ticks: 2}).
			Return(nil, errors.Internal("redis down")),
		s.mockService.EXPECT().
			TickAll(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, input *kingdom.TickAllInput) (*kingdom.TickAllOutput, error) {
				applied <- input.Ticks
				return &kingdom.TickAllOutput{}, nil
			}),
	)

	done := make(chan error, 1)
	go func() { done <- runner.Run(ctx) }()

	select {
	case n := <-applied:
		s.Equal(2, n)
	case <-time.After(2 * time.Second):
		s.Fail("failed intervals were not retried")
	}
	cancel()
	s.NoError(<-done)
	s.Equal(uint64(2), runner.Ticks())
}
