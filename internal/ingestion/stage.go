package ingestion

// Stage is a step of the ingestion state machine. Failed is reachable from any
// stage before Completed.
type Stage int

const (
	StageValidating Stage = iota
	StageExtracting
	StageChunking
	StageEmbedding
	StagePersistingBlob
	StagePersistingRecord
	StagePersistingChunks
	StageCompleted
	StageFailed
)

var stageNames = [...]string{
	StageValidating:       "validating",
	StageExtracting:       "extracting",
	StageChunking:         "chunking",
	StageEmbedding:        "embedding",
	StagePersistingBlob:   "persisting_blob",
	StagePersistingRecord: "persisting_record",
	StagePersistingChunks: "persisting_chunks",
	StageCompleted:        "completed",
	StageFailed:           "failed",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "unknown"
	}
	return stageNames[s]
}

// Terminal reports whether no further transition can follow s.
func (s Stage) Terminal() bool {
	return s == StageCompleted || s == StageFailed
}
