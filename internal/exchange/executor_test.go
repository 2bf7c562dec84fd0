package exchange

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/aurora-lab/aurora-trading/pkg/errors"

	"github.com/aurora-lab/aurora-trading/internal/types"
)

// scriptedOrderService returns canned responses per PlaceOrder attempt.
type scriptedOrderService struct {
	attempts []func() (types.OrderResult, error)
	calls    int

	statusResult types.OrderResult
	statusErr    error
	statusCalls  int
}

func (s *scriptedOrderService) PlaceOrder(_ context.Context, _ types.ExecuteOrder) (types.OrderResult, error) {
	step := s.attempts[s.calls]
	s.calls++

	return step()
}

func (s *scriptedOrderService) GetOrderStatus(_ context.Context, _ string, _ string) (types.OrderResult, error) {
	s.statusCalls++

	return s.statusResult, s.statusErr
}

type ExecutorTestSuite struct {
	suite.Suite
}

func TestExecutorSuite(t *testing.T) {
	suite.Run(t, new(ExecutorTestSuite))
}

func fastConfig() ExecutorConfig {
	return ExecutorConfig{
		MaxAttempts:    3,
		AttemptTimeout: time.Second,
		BackoffMin:     time.Millisecond,
		BackoffMax:     2 * time.Millisecond,
	}
}

func filledResult(clientOrderID string) types.OrderResult {
	return types.OrderResult{
		OrderID:       "1",
		ClientOrderID: clientOrderID,
		Symbol:        "BTCUSDT",
		Status:        types.OrderStatusFilled,
		ExecutedQty:   0.001,
		AvgPrice:      50000,
	}
}

func (suite *ExecutorTestSuite) TestSucceedsFirstAttempt() {
	order := marketBuyOrder()
	service := &scriptedOrderService{attempts: []func() (types.OrderResult, error){
		func() (types.OrderResult, error) { return filledResult(order.ID), nil },
	}}

	result, err := NewExecutor(service, fastConfig(), nil).Execute(context.Background(), order)
	suite.Require().NoError(err)
	suite.Equal(types.OrderStatusFilled, result.Status)
	suite.Equal(1, service.calls)
}

func (suite *ExecutorTestSuite) TestRetriesTransientFailure() {
	order := marketBuyOrder()
	fail := func() (types.OrderResult, error) {
		return types.OrderResult{}, errors.New(errors.ErrCodeOrderFailed, "exchange busy")
	}
	service := &scriptedOrderService{attempts: []func() (types.OrderResult, error){
		fail,
		fail,
		func() (types.OrderResult, error) { return filledResult(order.ID), nil },
	}}

	result, err := NewExecutor(service, fastConfig(), nil).Execute(context.Background(), order)
	suite.Require().NoError(err)
	suite.Equal(types.OrderStatusFilled, result.Status)
	suite.Equal(3, service.calls)
}

func (suite *ExecutorTestSuite) TestRetriesExhausted() {
	fail := func() (types.OrderResult, error) {
		return types.OrderResult{}, errors.New(errors.ErrCodeOrderFailed, "exchange busy")
	}
	service := &scriptedOrderService{attempts: []func() (types.OrderResult, error){fail, fail, fail}}

	_, err := NewExecutor(service, fastConfig(), nil).Execute(context.Background(), marketBuyOrder())
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeRetriesExhausted))
	suite.Equal(3, service.calls)
}

func (suite *ExecutorTestSuite) TestAmbiguousResultReconciledNotResubmitted() {
	order := marketBuyOrder()
	service := &scriptedOrderService{
		attempts: []func() (types.OrderResult, error){
			func() (types.OrderResult, error) {
				return types.OrderResult{ClientOrderID: order.ID, Status: types.OrderStatusUnknown},
					errors.New(errors.ErrCodeOrderAmbiguous, "outcome unknown")
			},
		},
		statusResult: filledResult(order.ID),
	}

	result, err := NewExecutor(service, fastConfig(), nil).Execute(context.Background(), order)
	suite.Require().NoError(err)
	suite.Equal(types.OrderStatusFilled, result.Status)

	// The fill was recovered by lookup; the order was not submitted twice
	suite.Equal(1, service.calls)
	suite.Equal(1, service.statusCalls)
}

func (suite *ExecutorTestSuite) TestAmbiguousOrderNotFoundIsRetried() {
	order := marketBuyOrder()
	service := &scriptedOrderService{
		attempts: []func() (types.OrderResult, error){
			func() (types.OrderResult, error) {
				return types.OrderResult{}, errors.New(errors.ErrCodeOrderAmbiguous, "outcome unknown")
			},
			func() (types.OrderResult, error) { return filledResult(order.ID), nil },
		},
		statusErr: errors.Newf(errors.ErrCodeDataNotFound, "order not found: %s", order.ID),
	}

	result, err := NewExecutor(service, fastConfig(), nil).Execute(context.Background(), order)
	suite.Require().NoError(err)
	suite.Equal(types.OrderStatusFilled, result.Status)
	suite.Equal(2, service.calls)
}

func (suite *ExecutorTestSuite) TestUnreconcilableStaysUnknown() {
	order := marketBuyOrder()
	service := &scriptedOrderService{
		attempts: []func() (types.OrderResult, error){
			func() (types.OrderResult, error) {
				return types.OrderResult{}, errors.New(errors.ErrCodeOrderAmbiguous, "outcome unknown")
			},
		},
		statusErr: errors.New(errors.ErrCodeOrderFailed, "status endpoint down"),
	}

	result, err := NewExecutor(service, fastConfig(), nil).Execute(context.Background(), order)
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeOrderAmbiguous))
	suite.Equal(types.OrderStatusUnknown, result.Status)
	suite.Equal(order.ID, result.ClientOrderID)
	suite.Equal(1, service.calls)
}

func (suite *ExecutorTestSuite) TestInvalidOrderNeverSubmitted() {
	order := marketBuyOrder()
	order.ID = "not-a-uuid"
	service := &scriptedOrderService{}

	_, err := NewExecutor(service, fastConfig(), nil).Execute(context.Background(), order)
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidExecuteOrder))
	suite.Zero(service.calls)
}

func (suite *ExecutorTestSuite) TestOrderIDsAreUnique() {
	first := marketBuyOrder()
	second := marketBuyOrder()
	suite.NotEqual(first.ID, second.ID)
	suite.NoError(uuid.Validate(first.ID))
}
