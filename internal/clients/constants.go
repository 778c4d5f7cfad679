package clients

const (
	USER_AGENT = "sentiscope-client/1.0 (+https://github.com/spacesedan/sentiscope)"

	// maxErrorBody bounds how much of a failed response is read looking for a message.
	maxErrorBody = 64 << 10

	DependencyPrediction = "prediction"
	DependencyAggregator = "aggregator"
	DependencyReddit     = "reddit"
)
