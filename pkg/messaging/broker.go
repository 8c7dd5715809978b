package messaging

import "context"

// Broker publishes and consumes application events. The booking workflow
// publishes appointment lifecycle events through it; consumers are external
// (notification pipelines, analytics) and out of scope here.
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Close() error
}

// Channels for appointment lifecycle events.
const (
	ChannelAppointmentBooked    = "appointment.booked"
	ChannelAppointmentCancelled = "appointment.cancelled"
	ChannelAppointmentCompleted = "appointment.completed"
)
