package domain

import (
	"sort"
	"time"
)

// EntitlementType enumerates subscription kinds.
type EntitlementType string

const (
	EntitlementFreeTrial EntitlementType = "free_trial"
	EntitlementMonthly   EntitlementType = "monthly"
)

// Actor tags recorded in activated_by.
const (
	ActorFreeTrialSystem = "free_trial_system"
)

// Entitlement is the subscription record for one identifier. The store keeps
// at most one row per identifier; writes are upserts on identifier.
type Entitlement struct {
	ID              string
	Identifier      string
	Type            EntitlementType
	IsActive        bool
	StartDate       time.Time
	EndDate         time.Time
	EnabledFeatures FeatureSet
	ActivatedBy     string
	LastActivated   *time.Time
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ActiveAt reports whether the entitlement grants unlimited usage at now.
func (e *Entitlement) ActiveAt(now time.Time) bool {
	if e == nil || !e.IsActive {
		return false
	}
	return !now.After(e.EndDate)
}

// Expired reports whether an active row has passed its end date.
func (e *Entitlement) Expired(now time.Time) bool {
	return e != nil && e.IsActive && now.After(e.EndDate)
}

// FeatureSet is the set of enabled premium feature keys. It is stored as a
// JSON object of key -> true to stay compatible with existing rows.
type FeatureSet map[string]bool

// NewFeatureSet builds a set with every key enabled.
func NewFeatureSet(keys ...string) FeatureSet {
	set := make(FeatureSet, len(keys))
	for _, k := range keys {
		if k == "" {
			continue
		}
		set[k] = true
	}
	return set
}

// Keys returns the enabled keys sorted.
func (f FeatureSet) Keys() []string {
	keys := make([]string, 0, len(f))
	for k, on := range f {
		if on {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// Has reports whether key is enabled.
func (f FeatureSet) Has(key string) bool {
	return f[key]
}

// Feature describes a catalogue entry shown on the subscription page.
type Feature struct {
	Key           string
	NameAr        string
	DescriptionAr string
	IsPremium     bool
	CreatedAt     time.Time
}

// Activation is the audit row written for every paid activation.
type Activation struct {
	ID            string
	Identifier    string
	EntitlementID string
	Features      FeatureSet
	ActivatedBy   string
	Notes         string
	ActivatedAt   time.Time
}
