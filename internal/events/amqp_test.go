package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"product-api/internal/model"

	"github.com/rs/zerolog"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockChannel is a mock implementation of channel.
type MockChannel struct {
	mock.Mock
}

func (m *MockChannel) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	return m.Called(name, kind, durable, autoDelete, internal, noWait, args).Error(0)
}

func (m *MockChannel) Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	return m.Called(exchange, key, mandatory, immediate, msg).Error(0)
}

func (m *MockChannel) Close() error {
	return m.Called().Error(0)
}

func TestNewAMQPPublisher_DeclaresExchange(t *testing.T) {
	ch := new(MockChannel)
	ch.On("ExchangeDeclare", "products", "topic", true, false, false, false, amqp.Table(nil)).Return(nil)

	p, err := newAMQPPublisher(ch, "products", zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "products", p.exchange)
	ch.AssertExpectations(t)
}

func TestNewAMQPPublisher_DeclareFailureClosesChannel(t *testing.T) {
	ch := new(MockChannel)
	ch.On("ExchangeDeclare", "products", "topic", true, false, false, false, amqp.Table(nil)).
		Return(errors.New("access refused"))
	ch.On("Close").Return(nil)

	p, err := newAMQPPublisher(ch, "products", zerolog.Nop())
	require.Error(t, err)
	assert.Nil(t, p)
	assert.Contains(t, err.Error(), "access refused")
	ch.AssertExpectations(t)
}

func TestAMQPPublisher_Publish(t *testing.T) {
	product := &model.Product{
		ID:        "6f1c2c1e-8d1a-4c53-9b55-0e0f8a7a4d11",
		Name:      "Laptop",
		Price:     1200,
		Category:  "electronics",
		InStock:   true,
		CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	event := NewEvent(ProductCreated, product.ID, product)

	ch := new(MockChannel)
	ch.On("Publish", "products", "product.created", false, false, mock.MatchedBy(func(msg amqp.Publishing) bool {
		var decoded Event
		if err := json.Unmarshal(msg.Body, &decoded); err != nil {
			return false
		}
		return msg.ContentType == "application/json" &&
			msg.DeliveryMode == amqp.Persistent &&
			msg.Type == "product.created" &&
			decoded.ProductID == product.ID &&
			decoded.Product != nil &&
			decoded.Product.Name == "Laptop"
	})).Return(nil)

	p := &AMQPPublisher{channel: ch, exchange: "products", logger: zerolog.Nop()}
	require.NoError(t, p.Publish(context.Background(), event))
	ch.AssertExpectations(t)
}

func TestAMQPPublisher_PublishErrors(t *testing.T) {
	t.Run("Channel failure is wrapped", func(t *testing.T) {
		ch := new(MockChannel)
		ch.On("Publish", "products", "product.deleted", false, false, mock.Anything).
			Return(amqp.ErrClosed)

		p := &AMQPPublisher{channel: ch, exchange: "products", logger: zerolog.Nop()}
		err := p.Publish(context.Background(), NewEvent(ProductDeleted, "abc", nil))
		require.Error(t, err)
		assert.ErrorIs(t, err, amqp.ErrClosed)
	})

	t.Run("Cancelled context skips publishing", func(t *testing.T) {
		ch := new(MockChannel)
		p := &AMQPPublisher{channel: ch, exchange: "products", logger: zerolog.Nop()}

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := p.Publish(ctx, NewEvent(ProductUpdated, "abc", nil))
		assert.ErrorIs(t, err, context.Canceled)
		ch.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAMQPPublisher_Close(t *testing.T) {
	ch := new(MockChannel)
	ch.On("Close").Return(errors.New("already closed"))

	p := &AMQPPublisher{channel: ch, exchange: "products", logger: zerolog.Nop()}
	err := p.Close()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to close channel")
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), NewEvent(ProductCreated, "abc", nil)))
	assert.NoError(t, p.Close())
}

func TestEventJSON(t *testing.T) {
	event := Event{
		Type:       ProductDeleted,
		ProductID:  "abc",
		OccurredAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	body, err := json.Marshal(event)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"product.deleted","productId":"abc","occurredAt":"2024-01-02T03:04:05Z"}`, string(body))
}
