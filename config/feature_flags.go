package config

import (
	"hash/fnv"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// FeatureFlags manages feature toggles and A/B testing.
// Supports gradual rollout, user targeting, and time-based experiments.
//
// Philosophy alignment: features should support "Train Together, Grow Together"
// - Social discovery prioritized
// - Recommendations tuned for relevance, not volume
type FeatureFlags struct {
	mu sync.RWMutex

	// Core features
	features map[string]*Feature

	// Override rules (for testing/debugging)
	userOverrides map[string]map[string]bool // userID -> feature -> enabled
}

// Feature represents a single feature flag.
type Feature struct {
	Name        string
	Description string
	Enabled     bool

	// Rollout percentage (0-100)
	// Users are assigned based on hash of their ID
	RolloutPercent int

	// Time-based activation
	EnabledFrom  *time.Time
	EnabledUntil *time.Time

	// A/B test variant (for experiments)
	Variants []string
}

// FeatureContext provides context for feature flag evaluation.
type FeatureContext struct {
	UserID  string // User UUID
	IsAdmin bool   // Is admin user
}

// Predefined feature flag names.
const (
	// === Recommendation Features ===
	FeatureRecommendationCache     = "recommendation.cache"           // Redis result caching
	FeatureRecommendationBreakdown = "recommendation.score_breakdown" // Per-term score breakdown in responses

	// === Social Features (core to project philosophy) ===
	FeatureSocialWorkoutBuddies       = "social.workout_buddies"       // Workout buddy matching
	FeatureSocialPotentialConnections = "social.potential_connections" // Same level + goal discovery
	FeatureSocialConnections          = "social.connections"           // User connections

	// === Experimental Features ===
	FeatureExperimentalAnalytics = "experimental.analytics" // Advanced analytics
)

// LoadFeatureFlags loads feature flags from environment variables.
func LoadFeatureFlags() *FeatureFlags {
	ff := &FeatureFlags{
		features:      make(map[string]*Feature),
		userOverrides: make(map[string]map[string]bool),
	}

	ff.initializeDefaults()
	ff.loadFromEnvironment()

	return ff
}

// initializeDefaults sets up all features with default values.
func (ff *FeatureFlags) initializeDefaults() {
	ff.features[FeatureRecommendationCache] = &Feature{
		Name:           FeatureRecommendationCache,
		Description:    "Cache recommendation results in Redis",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureRecommendationBreakdown] = &Feature{
		Name:           FeatureRecommendationBreakdown,
		Description:    "Include score breakdown in recommendation responses",
		Enabled:        false, // Debugging aid, off in production
		RolloutPercent: 0,
	}

	// Social features - CORE to project, enabled by default
	ff.features[FeatureSocialWorkoutBuddies] = &Feature{
		Name:           FeatureSocialWorkoutBuddies,
		Description:    "Workout buddy matching system",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureSocialPotentialConnections] = &Feature{
		Name:           FeatureSocialPotentialConnections,
		Description:    "Discovery of users with the same level and goal",
		Enabled:        true,
		RolloutPercent: 50, // Gradual rollout
	}

	ff.features[FeatureSocialConnections] = &Feature{
		Name:           FeatureSocialConnections,
		Description:    "Track user connections",
		Enabled:        true,
		RolloutPercent: 100,
	}

	// Experimental features - disabled by default
	ff.features[FeatureExperimentalAnalytics] = &Feature{
		Name:           FeatureExperimentalAnalytics,
		Description:    "Advanced analytics dashboard",
		Enabled:        false,
		RolloutPercent: 0,
	}
}

// loadFromEnvironment loads feature flag overrides from env vars.
// Format: FEATURE_<NAME>=true|false|<percent>
// Example: FEATURE_SOCIAL_WORKOUT_BUDDIES=true
// Example: FEATURE_SOCIAL_POTENTIAL_CONNECTIONS=50 (50% rollout)
func (ff *FeatureFlags) loadFromEnvironment() {
	for name, feature := range ff.features {
		envKey := featureNameToEnvKey(name)
		if val := os.Getenv(envKey); val != "" {
			// Try parsing as boolean
			if b, err := strconv.ParseBool(val); err == nil {
				feature.Enabled = b
				if b {
					feature.RolloutPercent = 100
				} else {
					feature.RolloutPercent = 0
				}
				continue
			}

			// Try parsing as percentage
			if p, err := strconv.Atoi(val); err == nil && p >= 0 && p <= 100 {
				feature.Enabled = p > 0
				feature.RolloutPercent = p
			}
		}
	}
}

// featureNameToEnvKey converts feature name to environment variable key.
// "social.workout_buddies" -> "FEATURE_SOCIAL_WORKOUT_BUDDIES"
func featureNameToEnvKey(name string) string {
	key := strings.ToUpper(name)
	key = strings.ReplaceAll(key, ".", "_")
	return "FEATURE_" + key
}

// IsEnabled checks if a feature is enabled for the given context.
func (ff *FeatureFlags) IsEnabled(featureName string, ctx *FeatureContext) bool {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	// Check user overrides first
	if ctx != nil && ctx.UserID != "" {
		if userOverrides, ok := ff.userOverrides[ctx.UserID]; ok {
			if enabled, ok := userOverrides[featureName]; ok {
				return enabled
			}
		}
	}

	feature, ok := ff.features[featureName]
	if !ok {
		return false
	}

	// Admin users get all features
	if ctx != nil && ctx.IsAdmin {
		return true
	}

	if !feature.Enabled {
		return false
	}

	// Check time-based activation
	now := time.Now()
	if feature.EnabledFrom != nil && now.Before(*feature.EnabledFrom) {
		return false
	}
	if feature.EnabledUntil != nil && now.After(*feature.EnabledUntil) {
		return false
	}

	// Check rollout percentage
	if feature.RolloutPercent < 100 && ctx != nil && ctx.UserID != "" {
		return ff.isInRollout(ctx.UserID, featureName, feature.RolloutPercent)
	}

	return feature.RolloutPercent > 0
}

// isInRollout determines if a user is in the rollout percentage.
// Uses consistent hashing so users stay in their bucket.
func (ff *FeatureFlags) isInRollout(userID, featureName string, percent int) bool {
	h := fnv.New32a()
	h.Write([]byte(featureName))
	h.Write([]byte(userID))
	hash := h.Sum32()

	// Map to 0-99 range
	bucket := int(hash % 100)

	return bucket < percent
}

// GetVariant returns the A/B test variant for a user.
// Returns empty string if no variants defined or feature disabled.
func (ff *FeatureFlags) GetVariant(featureName string, ctx *FeatureContext) string {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	feature, ok := ff.features[featureName]
	if !ok || !ff.IsEnabled(featureName, ctx) {
		return ""
	}

	if len(feature.Variants) == 0 {
		return ""
	}

	// Use consistent hashing to assign variant
	h := fnv.New32a()
	h.Write([]byte(featureName + "_variant"))
	h.Write([]byte(ctx.UserID))
	hash := h.Sum32()

	variantIndex := int(hash % uint32(len(feature.Variants)))
	return feature.Variants[variantIndex]
}

// SetUserOverride sets a feature override for a specific user.
// Useful for testing and debugging.
func (ff *FeatureFlags) SetUserOverride(userID, featureName string, enabled bool) {
	ff.mu.Lock()
	defer ff.mu.Unlock()

	if _, ok := ff.userOverrides[userID]; !ok {
		ff.userOverrides[userID] = make(map[string]bool)
	}
	ff.userOverrides[userID][featureName] = enabled
}

// ClearUserOverrides removes all overrides for a user.
func (ff *FeatureFlags) ClearUserOverrides(userID string) {
	ff.mu.Lock()
	defer ff.mu.Unlock()
	delete(ff.userOverrides, userID)
}

// SetRolloutPercent updates the rollout percentage for a feature.
// Thread-safe for live updates.
func (ff *FeatureFlags) SetRolloutPercent(featureName string, percent int) error {
	ff.mu.Lock()
	defer ff.mu.Unlock()

	feature, ok := ff.features[featureName]
	if !ok {
		return ErrFeatureNotFound
	}

	if percent < 0 || percent > 100 {
		return ErrInvalidRolloutPercent
	}

	feature.RolloutPercent = percent
	feature.Enabled = percent > 0

	return nil
}

// EnableFeature enables a feature at 100% rollout.
func (ff *FeatureFlags) EnableFeature(featureName string) error {
	return ff.SetRolloutPercent(featureName, 100)
}

// DisableFeature disables a feature completely.
func (ff *FeatureFlags) DisableFeature(featureName string) error {
	return ff.SetRolloutPercent(featureName, 0)
}

// GetAllFeatures returns a copy of all feature configurations.
func (ff *FeatureFlags) GetAllFeatures() map[string]*Feature {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	result := make(map[string]*Feature, len(ff.features))
	for k, v := range ff.features {
		featureCopy := *v
		result[k] = &featureCopy
	}
	return result
}

// --- Convenience methods for common checks ---

// SocialFeaturesEnabled checks if core social features are enabled.
func (ff *FeatureFlags) SocialFeaturesEnabled(ctx *FeatureContext) bool {
	return ff.IsEnabled(FeatureSocialWorkoutBuddies, ctx) ||
		ff.IsEnabled(FeatureSocialPotentialConnections, ctx) ||
		ff.IsEnabled(FeatureSocialConnections, ctx)
}

// --- Errors ---

var (
	ErrFeatureNotFound       = &FeatureFlagError{Message: "feature not found"}
	ErrInvalidRolloutPercent = &FeatureFlagError{Message: "rollout percent must be 0-100"}
)

// FeatureFlagError represents a feature flag error.
type FeatureFlagError struct {
	Message string
}

func (e *FeatureFlagError) Error() string {
	return e.Message
}
