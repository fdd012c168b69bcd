package interference

import "sort"

// Profile is a named set of interference thresholds. Profiles let callers
// switch the optimizer between data-type-specific tunings without rebuilding
// it.
type Profile struct {
	ConstructiveThreshold float64 `json:"constructive_threshold" msgpack:"constructive_threshold"`
	DestructiveThreshold  float64 `json:"destructive_threshold" msgpack:"destructive_threshold"`
	AmplificationFactor   float64 `json:"amplification_factor" msgpack:"amplification_factor"`
	SuppressionFactor     float64 `json:"suppression_factor" msgpack:"suppression_factor"`
	Description           string  `json:"description" msgpack:"description"`
}

func (p Profile) validate() error {
	if p.ConstructiveThreshold <= 0 || p.ConstructiveThreshold > 1 {
		return &ErrInvalidParameter{Param: "constructive threshold", Value: p.ConstructiveThreshold, Constraint: "in (0,1]"}
	}

	if p.DestructiveThreshold < 0 || p.DestructiveThreshold >= 1 {
		return &ErrInvalidParameter{Param: "destructive threshold", Value: p.DestructiveThreshold, Constraint: "in [0,1)"}
	}

	if p.AmplificationFactor <= 1 {
		return &ErrInvalidParameter{Param: "amplification factor", Value: p.AmplificationFactor, Constraint: "greater than 1"}
	}

	if p.SuppressionFactor < 0 || p.SuppressionFactor >= 1 {
		return &ErrInvalidParameter{Param: "suppression factor", Value: p.SuppressionFactor, Constraint: "in [0,1)"}
	}

	return nil
}

func builtinProfiles() map[string]Profile {
	return map[string]Profile{
		"default": {
			ConstructiveThreshold: DefaultConstructiveThreshold,
			DestructiveThreshold:  DefaultDestructiveThreshold,
			AmplificationFactor:   DefaultAmplificationFactor,
			SuppressionFactor:     DefaultSuppressionFactor,
			Description:           "balanced thresholds for unknown data",
		},
		"aggressive": {
			ConstructiveThreshold: 0.5,
			DestructiveThreshold:  0.4,
			AmplificationFactor:   1.5,
			SuppressionFactor:     0.6,
			Description:           "amplifies early and suppresses hard when patterns dominate",
		},
		"conservative": {
			ConstructiveThreshold: 0.75,
			DestructiveThreshold:  0.15,
			AmplificationFactor:   1.1,
			SuppressionFactor:     0.9,
			Description:           "touches only clear-cut patterns",
		},
		"text": {
			ConstructiveThreshold: 0.55,
			DestructiveThreshold:  0.3,
			AmplificationFactor:   1.3,
			SuppressionFactor:     0.75,
			Description:           "tuned for repetitive character data",
		},
		"binary": {
			ConstructiveThreshold: 0.65,
			DestructiveThreshold:  0.25,
			AmplificationFactor:   1.15,
			SuppressionFactor:     0.85,
			Description:           "tuned for structured binary records",
		},
		"image": {
			ConstructiveThreshold: 0.6,
			DestructiveThreshold:  0.35,
			AmplificationFactor:   1.25,
			SuppressionFactor:     0.7,
			Description:           "tolerates the wide amplitude spread of pixel data",
		},
		"audio": {
			ConstructiveThreshold: 0.7,
			DestructiveThreshold:  0.2,
			AmplificationFactor:   1.2,
			SuppressionFactor:     0.8,
			Description:           "suppresses noise-like low-probability patterns",
		},
		"mixed": {
			ConstructiveThreshold: 0.58,
			DestructiveThreshold:  0.32,
			AmplificationFactor:   1.22,
			SuppressionFactor:     0.78,
			Description:           "middle ground for heterogeneous payloads",
		},
	}
}

// CreateProfile registers a named profile, replacing any existing profile
// with the same name.
func (o *Optimizer) CreateProfile(name string, p Profile) error {
	if name == "" {
		return &ErrInvalidParameter{Param: "profile name", Value: name, Constraint: "non-empty"}
	}

	if err := p.validate(); err != nil {
		return err
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	o.profiles[name] = p
	return nil
}

// LoadProfile applies the named profile's thresholds and factors to the
// optimizer. The iteration cap is not part of a profile and stays unchanged.
func (o *Optimizer) LoadProfile(name string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	p, ok := o.profiles[name]
	if !ok {
		return &ErrProfileNotFound{Name: name}
	}

	o.constructiveThreshold = p.ConstructiveThreshold
	o.destructiveThreshold = p.DestructiveThreshold
	o.amplificationFactor = p.AmplificationFactor
	o.suppressionFactor = p.SuppressionFactor

	return nil
}

// ProfileByName returns the named profile.
func (o *Optimizer) ProfileByName(name string) (Profile, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	p, ok := o.profiles[name]
	if !ok {
		return Profile{}, &ErrProfileNotFound{Name: name}
	}

	return p, nil
}

// ProfileNames returns all registered profile names in lexical order.
func (o *Optimizer) ProfileNames() []string {
	o.mu.RLock()
	defer o.mu.RUnlock()

	names := make([]string, 0, len(o.profiles))
	for name := range o.profiles {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}
