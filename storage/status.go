package storage

// Status tracks the lifecycle of generated document artifacts.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusError     Status = "error"
)

// Document is the stored record of one uploaded document and its
// generated exploration artifacts.
type Document struct {
	ID            string
	Name          string
	Summary       string
	WordCloudPath string

	// SummaryStatus and WordCloudStatus share fate: the explore page
	// shows them together, so a failure in either marks both.
	SummaryStatus   Status
	WordCloudStatus Status

	// QnAStatus is independent of the explore artifacts.
	QnAStatus Status
}

// QnAPair is one generated question with its answer, tied to the
// passage it was generated from.
type QnAPair struct {
	SplitID  int
	Question string
	Answer   string
}
