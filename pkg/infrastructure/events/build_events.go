package events

const (
	OrderIngestedEvent = "order.ingested"
	OrderRejectedEvent = "order.rejected"

	TargetBuiltEvent        = "target.built"
	ComponentConsumedEvent  = "component.consumed"
	ShortageIdentifiedEvent = "shortage.identified"
)

// AllEventTypes lists every event a build run records
var AllEventTypes = []string{
	OrderIngestedEvent,
	OrderRejectedEvent,
	TargetBuiltEvent,
	ComponentConsumedEvent,
	ShortageIdentifiedEvent,
}

// Stream prefixes keep order and target ids from colliding
const (
	OrderStreamPrefix  = "order:"
	TargetStreamPrefix = "target:"
)

type OrderIngested struct {
	OrderID string `json:"order_id"`
	Lines   int    `json:"lines"`
	Fees    string `json:"fees"`
}

type OrderRejected struct {
	OrderID string `json:"order_id"`
	Reason  string `json:"reason"`
}

type TargetBuilt struct {
	TargetID  string `json:"target_id"`
	Buildable int64  `json:"buildable"`
	TotalCost string `json:"total_cost"`
	Limiting  string `json:"limiting,omitempty"`
}

type ComponentConsumed struct {
	TargetID string `json:"target_id"`
	Key      string `json:"key"`
	Quantity int64  `json:"quantity"`
	Cost     string `json:"cost"`
}

// ShortageIdentified names the component that capped a target and how many
// more units of it one additional build would need.
type ShortageIdentified struct {
	TargetID  string `json:"target_id"`
	Key       string `json:"key"`
	Available int64  `json:"available"`
	Required  int64  `json:"required"`
}

func NewOrderIngestedEvent(data OrderIngested) Event {
	return NewEvent(OrderIngestedEvent, OrderStreamPrefix+data.OrderID, data)
}

func NewOrderRejectedEvent(data OrderRejected) Event {
	return NewEvent(OrderRejectedEvent, OrderStreamPrefix+data.OrderID, data)
}

func NewTargetBuiltEvent(data TargetBuilt) Event {
	return NewEvent(TargetBuiltEvent, TargetStreamPrefix+data.TargetID, data)
}

func NewComponentConsumedEvent(data ComponentConsumed) Event {
	return NewEvent(ComponentConsumedEvent, TargetStreamPrefix+data.TargetID, data)
}

func NewShortageIdentifiedEvent(data ShortageIdentified) Event {
	return NewEvent(ShortageIdentifiedEvent, TargetStreamPrefix+data.TargetID, data)
}
