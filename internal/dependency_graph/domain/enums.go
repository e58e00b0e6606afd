package domain

import "strings"

type NodeKind string

const (
	NodeDatabase     NodeKind = "database"
	NodeAPI          NodeKind = "api"
	NodeService      NodeKind = "service"
	NodeCache        NodeKind = "cache"
	NodeQueue        NodeKind = "queue"
	NodeEventStream  NodeKind = "event-stream"
	NodeStorage      NodeKind = "storage"
	NodeLoadBalancer NodeKind = "load-balancer"
	NodeCustom       NodeKind = "custom"
)

// DefaultKind is used when a notation omits the kind.
const DefaultKind = NodeService

// AttrOriginalType is the reserved attribute key that keeps the text of an
// unrecognized kind after it was coerced to NodeCustom.
const AttrOriginalType = "original_type"

var knownKinds = map[string]NodeKind{
	"database":      NodeDatabase,
	"api":           NodeAPI,
	"service":       NodeService,
	"cache":         NodeCache,
	"queue":         NodeQueue,
	"event-stream":  NodeEventStream,
	"event_stream":  NodeEventStream,
	"kafka":         NodeEventStream,
	"storage":       NodeStorage,
	"load-balancer": NodeLoadBalancer,
	"load_balancer": NodeLoadBalancer,
	"loadbalancer":  NodeLoadBalancer,
	"custom":        NodeCustom,
}

// AllKinds lists the canonical kinds in declaration order.
func AllKinds() []NodeKind {
	return []NodeKind{
		NodeDatabase, NodeAPI, NodeService, NodeCache, NodeQueue,
		NodeEventStream, NodeStorage, NodeLoadBalancer, NodeCustom,
	}
}

// ParseNodeKind maps free text onto a NodeKind. Matching is case-insensitive
// and ignores surrounding spaces. When the text is not a known kind the result
// is NodeCustom with known=false, and the caller is expected to keep the
// original text (see AttrOriginalType).
func ParseNodeKind(s string) (kind NodeKind, known bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return DefaultKind, true
	}
	if k, ok := knownKinds[key]; ok {
		return k, true
	}
	return NodeCustom, false
}

func (k NodeKind) String() string { return string(k) }

// Valid reports whether k is one of the canonical kinds.
func (k NodeKind) Valid() bool {
	for _, c := range AllKinds() {
		if c == k {
			return true
		}
	}
	return false
}

type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)
