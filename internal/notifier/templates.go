package notifier

import (
	"fmt"
	"html/template"
	"strings"
)

// statusMessages maps an order status to the sentence shown in the status
// update email. Unknown statuses fall back to a generic line.
var statusMessages = map[string]string{
	"RECEIVED":         "We have received your order and will start preparing it shortly.",
	"PREPARING":        "Our kitchen is now preparing your order.",
	"READY":            "Your order is ready.",
	"OUT_FOR_DELIVERY": "Your order is out for delivery and on its way to you.",
	"READY_FOR_PICKUP": "Your order is ready for pickup.",
	"COMPLETED":        "Your order is complete. Thank you for choosing Aziz Restaurant!",
	"CANCELLED":        "Your order has been cancelled. Contact us if this was unexpected.",
}

var orderConfirmationTmpl = template.Must(template.New("orderConfirmation").Parse(`
<h2>Thank you for your order, {{.FirstName}}!</h2>
<p>Your order has been received and is being processed.</p>
<p><strong>Tracking code:</strong> {{.TrackingID}}</p>
<p><strong>Order type:</strong> {{.OrderType}}</p>
<p><strong>Total:</strong> ${{printf "%.2f" .TotalAmount}}</p>
{{if .DeliveryAddress}}<p><strong>Delivering to:</strong> {{.DeliveryAddress.Street}}, {{.DeliveryAddress.City}}, {{.DeliveryAddress.State}} {{.DeliveryAddress.ZipCode}}</p>{{end}}
{{if .SpecialInstructions}}<p><strong>Instructions:</strong> {{.SpecialInstructions}}</p>{{end}}
<p>You can follow your order at any time using your tracking code.</p>
`))

var orderStatusUpdateTmpl = template.Must(template.New("orderStatusUpdate").Parse(`
<h2>Order update</h2>
<p>Hi {{.FirstName}},</p>
<p>{{.Message}}</p>
<p><strong>Tracking code:</strong> {{.TrackingID}}</p>
<p><strong>Current status:</strong> {{.Status}}</p>
`))

var reservationConfirmationTmpl = template.Must(template.New("reservationConfirmation").Parse(`
<h2>Your reservation is confirmed, {{.FirstName}}!</h2>
<p><strong>Confirmation code:</strong> {{.ConfirmationCode}}</p>
<p><strong>Date:</strong> {{.Date}}</p>
<p><strong>Time:</strong> {{.Time}}</p>
<p><strong>Party size:</strong> {{.PartySize}}</p>
{{if .SpecialRequests}}<p><strong>Special requests:</strong> {{.SpecialRequests}}</p>{{end}}
<p>We look forward to seeing you at Aziz Restaurant.</p>
`))

// renderEmail turns an event into a subject and HTML body
func renderEmail(event *Event) (subject, body string, err error) {
	var buf strings.Builder

	switch event.Type {
	case EventOrderConfirmation:
		if event.Order == nil {
			return "", "", fmt.Errorf("order confirmation event without order payload")
		}
		subject = fmt.Sprintf("Order Confirmation - %s", event.Order.TrackingID)
		err = orderConfirmationTmpl.Execute(&buf, struct {
			FirstName string
			*OrderPayload
		}{event.Recipient.FirstName, event.Order})

	case EventOrderStatusUpdate:
		if event.Order == nil {
			return "", "", fmt.Errorf("status update event without order payload")
		}
		status := event.NewStatus
		if status == "" {
			status = event.Order.Status
		}
		message, ok := statusMessages[status]
		if !ok {
			message = fmt.Sprintf("Your order status is now %s.", status)
		}
		subject = fmt.Sprintf("Order Update - %s", event.Order.TrackingID)
		err = orderStatusUpdateTmpl.Execute(&buf, struct {
			FirstName  string
			Message    string
			TrackingID string
			Status     string
		}{event.Recipient.FirstName, message, event.Order.TrackingID, status})

	case EventReservationConfirmation:
		if event.Reservation == nil {
			return "", "", fmt.Errorf("reservation confirmation event without reservation payload")
		}
		subject = fmt.Sprintf("Reservation Confirmed - %s", event.Reservation.ConfirmationCode)
		err = reservationConfirmationTmpl.Execute(&buf, struct {
			FirstName string
			*ReservationPayload
		}{event.Recipient.FirstName, event.Reservation})

	default:
		return "", "", fmt.Errorf("unknown notification event type %q", event.Type)
	}

	if err != nil {
		return "", "", fmt.Errorf("render %s: %w", event.Type, err)
	}
	return subject, buf.String(), nil
}
