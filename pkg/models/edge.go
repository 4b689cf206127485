package models

// EdgeKind identifies the connection type of a SystemEdge. Each kind has
// a fixed transport latency in the latency composer.
type EdgeKind string

const (
	EdgeKindHTTP         EdgeKind = "http"
	EdgeKindDBQuery      EdgeKind = "db_query"
	EdgeKindCacheLookup  EdgeKind = "cache_lookup"
	EdgeKindQueuePublish EdgeKind = "queue_publish"
	EdgeKindQueueConsume EdgeKind = "queue_consume"
	EdgeKindCDNFetch     EdgeKind = "cdn_fetch"
	EdgeKindStorageRead  EdgeKind = "storage_read"
)

// SystemEdge is a directed connection between two nodes, referenced by
// identifier. Database edges may carry a declared query.
type SystemEdge struct {
	ID   string   `json:"id"`
	From string   `json:"from"`
	To   string   `json:"to"`
	Kind EdgeKind `json:"kind"`

	// Weight biases traffic splitting across a node's outbound edges.
	// Zero means even split with its siblings.
	Weight float64 `json:"weight,omitempty"`

	Query *QuerySpec `json:"query,omitempty"`
}

// QueryKind distinguishes reads from writes for cost estimation.
type QueryKind string

const (
	QueryKindRead  QueryKind = "read"
	QueryKindWrite QueryKind = "write"
)

// QuerySpec is a declared query shape against a database table.
type QuerySpec struct {
	Kind          QueryKind `json:"kind"`
	Table         string    `json:"table"`
	FilterColumns []string  `json:"filter_columns,omitempty"`
	JoinTable     string    `json:"join_table,omitempty"`
	JoinColumn    string    `json:"join_column,omitempty"`
	Limit         int       `json:"limit,omitempty"`
}

// Graph is the in-memory architecture sketch: the sole input the engine
// shares with the editor and loader. Nodes and edges reference each
// other by identifier only.
type Graph struct {
	Nodes []SystemNode `json:"nodes"`
	Edges []SystemEdge `json:"edges"`
}
