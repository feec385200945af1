package notifier

import (
	"encoding/json"

	"github.com/azizrestaurant/restaurant-platform/internal/models"
	"github.com/azizrestaurant/restaurant-platform/pkg/kafka"
	"github.com/azizrestaurant/restaurant-platform/pkg/logger"
)

// Dispatcher triggers customer notifications for lifecycle events. Every
// dispatch is best-effort and detached: the calling operation returns
// without waiting, and failures are only logged.
type Dispatcher interface {
	DispatchOrderConfirmation(order *models.Order, customer *models.Customer)
	DispatchOrderStatusUpdate(order *models.Order, newStatus string, customer *models.Customer)
	DispatchReservationConfirmation(reservation *models.Reservation, customer *models.Customer)
}

// KafkaDispatcher publishes notification events to the notifications topic,
// keyed by recipient so one customer's emails stay ordered.
type KafkaDispatcher struct {
	producer *kafka.Producer
	topic    string
	logger   logger.Logger
}

// NewKafkaDispatcher creates a dispatcher publishing to the given topic
func NewKafkaDispatcher(producer *kafka.Producer, topic string, logger logger.Logger) *KafkaDispatcher {
	return &KafkaDispatcher{
		producer: producer,
		topic:    topic,
		logger:   logger,
	}
}

// DispatchOrderConfirmation publishes an order confirmation event
func (d *KafkaDispatcher) DispatchOrderConfirmation(order *models.Order, customer *models.Customer) {
	d.publish(Event{
		Type:       EventOrderConfirmation,
		Recipient:  newRecipient(customer),
		Order:      newOrderPayload(order),
		OccurredAt: models.GetCurrentTime(),
	})
}

// DispatchOrderStatusUpdate publishes a status update event
func (d *KafkaDispatcher) DispatchOrderStatusUpdate(order *models.Order, newStatus string, customer *models.Customer) {
	d.publish(Event{
		Type:       EventOrderStatusUpdate,
		Recipient:  newRecipient(customer),
		Order:      newOrderPayload(order),
		NewStatus:  newStatus,
		OccurredAt: models.GetCurrentTime(),
	})
}

// DispatchReservationConfirmation publishes a reservation confirmation event
func (d *KafkaDispatcher) DispatchReservationConfirmation(reservation *models.Reservation, customer *models.Customer) {
	d.publish(Event{
		Type:        EventReservationConfirmation,
		Recipient:   newRecipient(customer),
		Reservation: newReservationPayload(reservation),
		OccurredAt:  models.GetCurrentTime(),
	})
}

func (d *KafkaDispatcher) publish(event Event) {
	go func() {
		payload, err := json.Marshal(event)
		if err != nil {
			d.logger.Error("Failed to marshal notification event", "error", err, "type", event.Type)
			return
		}

		if err := d.producer.SendMessage(d.topic, event.Recipient.Email, payload); err != nil {
			d.logger.Error("Failed to publish notification event",
				"error", err, "type", event.Type, "recipient", event.Recipient.Email)
		}
	}()
}

// NopDispatcher drops all notifications; used when the pipeline is disabled
type NopDispatcher struct {
	Logger logger.Logger
}

// DispatchOrderConfirmation logs and drops the event
func (d *NopDispatcher) DispatchOrderConfirmation(order *models.Order, customer *models.Customer) {
	d.Logger.Debug("Notification pipeline disabled, dropping order confirmation", "trackingID", order.TrackingID)
}

// DispatchOrderStatusUpdate logs and drops the event
func (d *NopDispatcher) DispatchOrderStatusUpdate(order *models.Order, newStatus string, customer *models.Customer) {
	d.Logger.Debug("Notification pipeline disabled, dropping status update", "trackingID", order.TrackingID)
}

// DispatchReservationConfirmation logs and drops the event
func (d *NopDispatcher) DispatchReservationConfirmation(reservation *models.Reservation, customer *models.Customer) {
	d.Logger.Debug("Notification pipeline disabled, dropping reservation confirmation", "reservationID", reservation.ID)
}
