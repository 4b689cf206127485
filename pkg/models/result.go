package models

// NodeMetrics is the per-node output of one simulation run.
type NodeMetrics struct {
	NodeID        string   `json:"node_id"`
	Kind          NodeKind `json:"kind"`
	IncomingRPS   float64  `json:"incoming_rps"`
	EffectiveRPS  float64  `json:"effective_rps"`
	Instances     int      `json:"instances"`
	Utilization   float64  `json:"utilization"`
	MeanLatencyMs float64  `json:"mean_latency_ms"`
	P99LatencyMs  float64  `json:"p99_latency_ms"`
	Saturated     bool     `json:"saturated"`
}

// EdgeMetrics is the per-edge output of one simulation run. Latency is
// the edge's transport latency plus the destination node's mean latency.
type EdgeMetrics struct {
	EdgeID             string   `json:"edge_id"`
	From               string   `json:"from"`
	To                 string   `json:"to"`
	Kind               EdgeKind `json:"kind"`
	RPS                float64  `json:"rps"`
	TransportLatencyMs float64  `json:"transport_latency_ms"`
	TotalLatencyMs     float64  `json:"total_latency_ms"`
}

// EntryPointMetrics summarizes a traffic source: the rate injected there
// and the expected latency of a full request path from it.
type EntryPointMetrics struct {
	NodeID            string  `json:"node_id"`
	RateRPS           float64 `json:"rate_rps"`
	PathMeanLatencyMs float64 `json:"path_mean_latency_ms"`
	PathP99LatencyMs  float64 `json:"path_p99_latency_ms"`
}

// CacheEffectiveness classifies a cache pattern's hit rate.
type CacheEffectiveness string

const (
	CacheHot         CacheEffectiveness = "hot"
	CacheWarm        CacheEffectiveness = "warm"
	CacheCold        CacheEffectiveness = "cold"
	CacheIneffective CacheEffectiveness = "ineffective"
)

// CacheAnalysis is the per-key-pattern output of the cache analyzer.
type CacheAnalysis struct {
	NodeID              string             `json:"node_id,omitempty"`
	Key                 string             `json:"key"`
	TTLSeconds          float64            `json:"ttl_seconds"`
	Cardinality         float64            `json:"cardinality"`
	RequestRPS          float64            `json:"request_rps"`
	HitRate             float64            `json:"hit_rate"`
	EffectiveBackingRPS float64            `json:"effective_backing_rps"`
	Effectiveness       CacheEffectiveness `json:"effectiveness"`
	Suggestions         []string           `json:"suggestions,omitempty"`
}

// ScanType classifies how a query is expected to read a table.
type ScanType string

const (
	ScanTypeIndex   ScanType = "index"
	ScanTypePartial ScanType = "partial"
	ScanTypeFull    ScanType = "full"
)

// QueryAnalysis is the per-query output of the query cost analyzer.
// Cost is comparative, not wall-clock.
type QueryAnalysis struct {
	Query         QuerySpec `json:"query"`
	ScanType      ScanType  `json:"scan_type"`
	EstimatedCost float64   `json:"estimated_cost"`
	Warnings      []string  `json:"warnings,omitempty"`
}

// TableQueryReport aggregates analyses for one table, worst cost first.
type TableQueryReport struct {
	NodeID  string          `json:"node_id"`
	Table   string          `json:"table"`
	Queries []QueryAnalysis `json:"queries"`
}

// BottleneckType classifies why an element limits performance.
type BottleneckType string

const (
	BottleneckCPU       BottleneckType = "cpu_bound"
	BottleneckLatency   BottleneckType = "latency_bound"
	BottleneckCacheMiss BottleneckType = "cache_miss_bound"
	BottleneckQueryCost BottleneckType = "query_cost_bound"
)

// TargetType says whether a bottleneck points at a node or an edge.
type TargetType string

const (
	TargetNode TargetType = "node"
	TargetEdge TargetType = "edge"
)

// BottleneckInfo identifies one ranked bottleneck.
type BottleneckInfo struct {
	TargetID   string         `json:"target_id"`
	TargetType TargetType     `json:"target_type"`
	Type       BottleneckType `json:"type"`
	Severity   float64        `json:"severity"`
	Detail     string         `json:"detail,omitempty"`
}

// NodeTickMetrics is one node's state within a timeline snapshot.
type NodeTickMetrics struct {
	NodeID        string  `json:"node_id"`
	RPS           float64 `json:"rps"`
	Utilization   float64 `json:"utilization"`
	MeanLatencyMs float64 `json:"mean_latency_ms"`
}

// TimelineSnapshot captures all node states at one simulated tick.
// Nodes are ordered by declaration order in the input graph.
type TimelineSnapshot struct {
	Tick       int               `json:"tick"`
	LoadFactor float64           `json:"load_factor"`
	Nodes      []NodeTickMetrics `json:"nodes"`
}

// WarningCode tags a non-fatal condition absorbed during a run.
type WarningCode string

const (
	WarnTraversalCycle    WarningCode = "traversal_cycle"
	WarnDegenerateCache   WarningCode = "degenerate_cache"
	WarnDisconnectedEntry WarningCode = "disconnected_entry"
)

// Warning records a degenerate-but-valid input condition.
type Warning struct {
	Code     WarningCode `json:"code"`
	TargetID string      `json:"target_id,omitempty"`
	Message  string      `json:"message"`
}

// SimulationResult is the complete output of one run. It is owned by
// the caller and holds no references into engine state.
type SimulationResult struct {
	Nodes        []NodeMetrics       `json:"nodes"`
	Edges        []EdgeMetrics       `json:"edges"`
	EntryPoints  []EntryPointMetrics `json:"entry_points"`
	Caches       []CacheAnalysis     `json:"caches,omitempty"`
	QueryReports []TableQueryReport  `json:"query_reports,omitempty"`
	Bottlenecks  []BottleneckInfo    `json:"bottlenecks,omitempty"`
	Timeline     []TimelineSnapshot  `json:"timeline"`
	Warnings     []Warning           `json:"warnings,omitempty"`
}

// RunStatus represents the status of a simulation run in the run store.
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
	RunStatusCanceled  RunStatus = "canceled"
)
