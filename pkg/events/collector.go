package events

// EventCollector accumulates domain events raised while an operation runs so
// they can be published in a single batch afterwards.
type EventCollector struct {
	events []DomainEvent
}

// Record appends one or more domain events to the collector.
func (c *EventCollector) Record(evts ...DomainEvent) {
	c.events = append(c.events, evts...)
}

// Events returns the collected events without clearing them.
func (c *EventCollector) Events() []DomainEvent {
	return c.events
}

// ClearEvents returns the collected events and resets the collector.
func (c *EventCollector) ClearEvents() []DomainEvent {
	collected := c.events
	c.events = nil
	return collected
}
