package constant

const (
	QueueStreamName = "rifa_pix_queue_stream"
)

const (
	AllWildcard    = "events.>"
	NotifyWildcard = "events.notify.>"

	SubjectNotifyOrderCreated = "events.notify.order_created"
	SubjectNotifyOrderPaid    = "events.notify.order_paid"
	SubjectNotifyConversion   = "events.notify.conversion"
)
