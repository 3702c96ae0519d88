package order

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

type CheckoutReq struct {
	ShippingName    string `json:"shipping_name"`
	ShippingAddress string `json:"shipping_address"`
	ShippingCity    string `json:"shipping_city"`
	ShippingPhone   string `json:"shipping_phone"`
}

func (r CheckoutReq) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ShippingName, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.ShippingAddress, validation.Required, validation.Length(1, 500)),
		validation.Field(&r.ShippingCity, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.ShippingPhone, validation.Required, validation.Length(6, 20)),
	)
}

type UpdateTrackingReq struct {
	Status       string `json:"status"`
	Carrier      string `json:"carrier"`
	TrackingCode string `json:"tracking_code"`
}

func (r UpdateTrackingReq) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status, validation.Required, validation.In(
			StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled,
		)),
		validation.Field(&r.Carrier, validation.Length(0, 100)),
		validation.Field(&r.TrackingCode, validation.Length(0, 100)),
	)
}

type OrderListResp struct {
	Orders []Order `json:"orders"`
	Total  int64   `json:"total"`
}

// ConfirmationPayload is the queue task body for the order
// confirmation email.
type ConfirmationPayload struct {
	OrderID uuid.UUID `json:"order_id"`
	UserID  uuid.UUID `json:"user_id"`
	Email   string    `json:"email"`
	Total   string    `json:"total"`
}
