package kafka

// DeadLetterRecord wraps a message that could not be ingested.
type DeadLetterRecord struct {
	Error     string `json:"error"`
	Topic     string `json:"topic"`
	Partition int    `json:"partition"`
	Offset    int64  `json:"offset"`
	Payload   string `json:"payload"`
}
