package chunks

const (
	SearchQuery = searchQuery
	ScanQuery   = scanQuery
)

var EfSearch = efSearch
