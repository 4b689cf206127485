// Package cache estimates cache behavior for the simulation: hit rate
// from TTL, key cardinality and request rate; effective load on the
// backing store; and advisory suggestions for the editor to display.
package cache

import (
	"fmt"

	"github.com/sdcanvas/simulation-core/pkg/models"
	"github.com/sdcanvas/simulation-core/pkg/utils"
)

// Effectiveness thresholds. Fixed; not configurable.
const (
	hotThreshold  = 0.95
	warmThreshold = 0.50
	coldThreshold = 0.10
)

// EstimateHitRate models one mandatory miss per key per TTL window:
// every other request to that key within the window hits. The average
// time before the same key repeats is cardinality/rps; when that
// exceeds the TTL the entry always expires before reuse and the hit
// rate is zero. Degenerate inputs (any value <= 0) also return zero.
func EstimateHitRate(ttlSeconds, cardinality, rps float64) float64 {
	if ttlSeconds <= 0 || cardinality <= 0 || rps <= 0 {
		return 0
	}

	avgTimeBetweenRequests := cardinality / rps
	if avgTimeBetweenRequests >= ttlSeconds {
		return 0
	}

	requestsPerKeyPerTTL := ttlSeconds / avgTimeBetweenRequests
	hitRate := (requestsPerKeyPerTTL - 1) / requestsPerKeyPerTTL
	return utils.ClampFloat64(hitRate, 0, 1)
}

// AnalyzeKey produces the full analysis for one key pattern at the
// given request rate, including the load that falls through to
// whatever the cache protects.
func AnalyzeKey(key string, ttlSeconds, cardinality, rps float64) models.CacheAnalysis {
	hitRate := EstimateHitRate(ttlSeconds, cardinality, rps)
	analysis := models.CacheAnalysis{
		Key:                 key,
		TTLSeconds:          ttlSeconds,
		Cardinality:         cardinality,
		RequestRPS:          rps,
		HitRate:             hitRate,
		EffectiveBackingRPS: rps * (1 - hitRate),
		Effectiveness:       Effectiveness(hitRate),
	}
	analysis.Suggestions = Suggestions(analysis)
	return analysis
}

// ThroughLatency is the weighted latency of a cache-through path: every
// request pays the cache latency, and misses additionally pay the
// backing store.
func ThroughLatency(hitRate, cacheLatencyMs, backingLatencyMs float64) float64 {
	hitRate = utils.ClampFloat64(hitRate, 0, 1)
	return hitRate*cacheLatencyMs + (1-hitRate)*(cacheLatencyMs+backingLatencyMs)
}

// Effectiveness classifies a hit rate into hot/warm/cold/ineffective.
func Effectiveness(hitRate float64) models.CacheEffectiveness {
	switch {
	case hitRate >= hotThreshold:
		return models.CacheHot
	case hitRate >= warmThreshold:
		return models.CacheWarm
	case hitRate >= coldThreshold:
		return models.CacheCold
	default:
		return models.CacheIneffective
	}
}

// Suggestions produces advisory text for one analysis. Purely
// informational: nothing here feeds back into the simulation.
func Suggestions(a models.CacheAnalysis) []string {
	var out []string

	if a.TTLSeconds <= 0 || a.Cardinality <= 0 || a.RequestRPS <= 0 {
		out = append(out, "cache has no measurable traffic or configuration; set ttl, cardinality and drive traffic through it")
		return out
	}

	avgTimeBetween := a.Cardinality / a.RequestRPS
	if avgTimeBetween >= a.TTLSeconds {
		out = append(out, fmt.Sprintf(
			"keys repeat every %.1fs on average but expire after %.1fs; raise the TTL or reduce key cardinality",
			avgTimeBetween, a.TTLSeconds))
	}

	switch a.Effectiveness {
	case models.CacheIneffective:
		out = append(out, fmt.Sprintf(
			"hit rate %.1f%% makes this cache ineffective; %.0f rps fall through to the backing store",
			a.HitRate*100, a.EffectiveBackingRPS))
	case models.CacheCold:
		out = append(out, fmt.Sprintf(
			"hit rate %.1f%% is low for key %q; consider a longer TTL (current %.0fs) or coarser keys",
			a.HitRate*100, a.Key, a.TTLSeconds))
	case models.CacheWarm:
		out = append(out, fmt.Sprintf(
			"hit rate %.1f%%: backing store sees %.0f of %.0f rps",
			a.HitRate*100, a.EffectiveBackingRPS, a.RequestRPS))
	case models.CacheHot:
		out = append(out, fmt.Sprintf(
			"hit rate %.1f%%: cache is absorbing nearly all of %.0f rps",
			a.HitRate*100, a.RequestRPS))
	}

	return out
}

// NodeHitRate aggregates a cache node's hit rate across its key
// patterns, splitting the node's traffic evenly among them. A config
// without patterns is treated as a single pattern over the whole
// keyspace.
func NodeHitRate(cfg *models.CacheConfig, rps float64) float64 {
	if cfg == nil || rps <= 0 {
		return 0
	}
	patterns := cfg.Patterns
	if len(patterns) == 0 {
		return EstimateHitRate(cfg.TTLSeconds, cfg.Cardinality, rps)
	}

	perPatternRPS := rps / float64(len(patterns))
	var weighted float64
	for _, p := range patterns {
		ttl := p.TTLSeconds
		if ttl <= 0 {
			ttl = cfg.TTLSeconds
		}
		weighted += EstimateHitRate(ttl, p.Cardinality, perPatternRPS)
	}
	return weighted / float64(len(patterns))
}

// AnalyzeNode produces per-pattern analyses for a cache node at the
// given incoming rate, tagging each with the node identifier.
func AnalyzeNode(node *models.SystemNode, rps float64) []models.CacheAnalysis {
	if node.Cache == nil {
		return nil
	}
	cfg := node.Cache

	patterns := cfg.Patterns
	if len(patterns) == 0 {
		patterns = []models.CacheKeyPattern{{
			Key:         "*",
			TTLSeconds:  cfg.TTLSeconds,
			Cardinality: cfg.Cardinality,
		}}
	}

	perPatternRPS := rps / float64(len(patterns))
	out := make([]models.CacheAnalysis, 0, len(patterns))
	for _, p := range patterns {
		ttl := p.TTLSeconds
		if ttl <= 0 {
			ttl = cfg.TTLSeconds
		}
		a := AnalyzeKey(p.Key, ttl, p.Cardinality, perPatternRPS)
		a.NodeID = node.ID
		out = append(out, a)
	}
	return out
}
