package models

// NodeKind identifies the component type of a SystemNode.
// The set is closed: the behavior registry and the loader both reject
// kinds outside of it.
type NodeKind string

const (
	NodeKindUser         NodeKind = "user"
	NodeKindLoadBalancer NodeKind = "load_balancer"
	NodeKindCDN          NodeKind = "cdn"
	NodeKindAPIServer    NodeKind = "api_server"
	NodeKindDatabase     NodeKind = "database"
	NodeKindObjectStore  NodeKind = "object_store"
	NodeKindCache        NodeKind = "cache"
	NodeKindMessageQueue NodeKind = "message_queue"
	NodeKindAnnotation   NodeKind = "annotation"
)

// Position is the node's canvas position. Layout only; the simulation
// never reads it.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// SystemNode is one component in the architecture graph. Kind is the
// discriminant; at most one kind-specific payload is set, matching Kind.
// The engine treats nodes as read-only input.
type SystemNode struct {
	ID       string   `json:"id"`
	Kind     NodeKind `json:"kind"`
	Label    string   `json:"label,omitempty"`
	Position Position `json:"position"`

	Resources *NodeResources `json:"resources,omitempty"`
	Scaling   *ScalingPolicy `json:"scaling,omitempty"`

	Cache      *CacheConfig      `json:"cache,omitempty"`
	Database   *DatabaseConfig   `json:"database,omitempty"`
	Annotation *AnnotationConfig `json:"annotation,omitempty"`
}

// NodeResources describes per-instance capacity. Zero fields fall back
// to the behavior model defaults for the node's kind.
type NodeResources struct {
	CPUCores          int     `json:"cpu_cores,omitempty"`
	CoreThroughputRPS float64 `json:"core_throughput_rps,omitempty"`
	MemoryMB          float64 `json:"memory_mb,omitempty"`
	WorkingSetMB      float64 `json:"working_set_mb,omitempty"`
	NetworkMbps       float64 `json:"network_mbps,omitempty"`
}

// ScalingPolicy bounds the instance count derived for a node.
type ScalingPolicy struct {
	MinInstances      int     `json:"min_instances"`
	MaxInstances      int     `json:"max_instances"`
	TargetUtilization float64 `json:"target_utilization"`
}

// CacheConfig configures a cache node. Patterns describe individual key
// families; when empty, TTLSeconds and Cardinality describe the whole
// keyspace as a single pattern.
type CacheConfig struct {
	TTLSeconds  float64           `json:"ttl_seconds"`
	Cardinality float64           `json:"cardinality"`
	Patterns    []CacheKeyPattern `json:"patterns,omitempty"`
}

// CacheKeyPattern is one key family in a cache, e.g. "user:{id}".
type CacheKeyPattern struct {
	Key         string  `json:"key"`
	TTLSeconds  float64 `json:"ttl_seconds"`
	Cardinality float64 `json:"cardinality"`
}

// DatabaseConfig declares the tables a database node holds.
type DatabaseConfig struct {
	Engine string        `json:"engine,omitempty"`
	Tables []TableSchema `json:"tables,omitempty"`
}

// TableSchema declares a table's shape for query cost analysis.
type TableSchema struct {
	Name    string       `json:"name"`
	Rows    int64        `json:"rows,omitempty"`
	Columns []string     `json:"columns,omitempty"`
	Indexes []TableIndex `json:"indexes,omitempty"`
}

// TableIndex is a declared index. Columns are ordered; a filter matches
// the index when it covers a prefix of them.
type TableIndex struct {
	Name    string   `json:"name,omitempty"`
	Columns []string `json:"columns"`
}

// AnnotationConfig holds free-form canvas notes. Annotations carry no
// traffic and are excluded from simulation.
type AnnotationConfig struct {
	Text string `json:"text"`
}
