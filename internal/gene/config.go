package gene

// SpringConfig carries every recognized option of the continuous
// refiner. Zero values take the documented defaults via WithDefaults,
// so callers only set what they care about.
type SpringConfig struct {
	PopulationSize int `json:"population_size"`

	MutationRate       float64 `json:"mutation_rate"`
	MutationStrength   float64 `json:"mutation_strength"`
	CrossoverRate      float64 `json:"crossover_rate"`
	SelectionPressure  float64 `json:"selection_pressure"`
	ParentPoolFraction float64 `json:"parent_pool_fraction"`

	// FitnessBalance blends the two fitness components: 0 is pure
	// topology, 1 pure geometry.
	FitnessBalance float64 `json:"fitness_balance"`

	AspectRatioMutationRate float64 `json:"aspect_ratio_mutation_rate"`

	// GlobalTargetRatio, when positive, overrides every non-corridor
	// room's aspect-ratio bound.
	GlobalTargetRatio float64 `json:"global_target_ratio"`

	UseQuadraticPenalty bool `json:"use_quadratic_penalty"`

	UsePartnerBias  bool    `json:"use_partner_bias"`
	PartnerBiasRate float64 `json:"partner_bias_rate"`

	UseSwapMutation  bool    `json:"use_swap_mutation"`
	SwapMutationRate float64 `json:"swap_mutation_rate"`

	UseAdjacencyAttraction bool    `json:"use_adjacency_attraction"`
	AttractionStrength     float64 `json:"attraction_strength"`

	UseAggressiveInflation bool    `json:"use_aggressive_inflation"`
	InflationRate          float64 `json:"inflation_rate"`
	InflationThreshold     float64 `json:"inflation_threshold"`

	// UsePressureBias gates the pressure-guided aspect-ratio mutation.
	UsePressureBias bool `json:"use_pressure_bias"`

	WarmUpIterations int `json:"warm_up_iterations"`

	UseFreshBlood      bool `json:"use_fresh_blood"`
	FreshBloodInterval int  `json:"fresh_blood_interval"`
	FreshBloodWarmUp   int  `json:"fresh_blood_warm_up"`

	UseNonLinearOverlapPenalty bool    `json:"use_non_linear_overlap_penalty"`
	OverlapPenaltyExponent     float64 `json:"overlap_penalty_exponent"`
}

// DefaultSpringConfig returns a workable baseline configuration.
func DefaultSpringConfig() SpringConfig {
	return SpringConfig{
		PopulationSize:          25,
		MutationRate:            0.3,
		MutationStrength:        4.0,
		CrossoverRate:           0.3,
		SelectionPressure:       0.25,
		ParentPoolFraction:      0.5,
		FitnessBalance:          0.5,
		AspectRatioMutationRate: 0.2,
		UsePartnerBias:          true,
		PartnerBiasRate:         0.1,
		UseSwapMutation:         true,
		SwapMutationRate:        0.1,
		UseAdjacencyAttraction:  true,
		AttractionStrength:      0.15,
		InflationRate:           1.05,
		InflationThreshold:      0.9,
		UsePressureBias:         true,
		WarmUpIterations:        2,
		FreshBloodInterval:      25,
		FreshBloodWarmUp:        3,
		OverlapPenaltyExponent:  1.2,
	}
}

// WithDefaults fills unset numeric knobs with their defaults. Boolean
// feature flags are respected as given.
func (c SpringConfig) WithDefaults() SpringConfig {
	d := DefaultSpringConfig()
	if c.PopulationSize < 2 {
		c.PopulationSize = d.PopulationSize
	}
	if c.MutationRate <= 0 {
		c.MutationRate = d.MutationRate
	}
	if c.MutationStrength <= 0 {
		c.MutationStrength = d.MutationStrength
	}
	if c.CrossoverRate <= 0 {
		c.CrossoverRate = d.CrossoverRate
	}
	if c.SelectionPressure <= 0 {
		c.SelectionPressure = d.SelectionPressure
	}
	if c.ParentPoolFraction <= 0 {
		c.ParentPoolFraction = d.ParentPoolFraction
	}
	if c.FitnessBalance <= 0 {
		c.FitnessBalance = d.FitnessBalance
	}
	if c.AspectRatioMutationRate <= 0 {
		c.AspectRatioMutationRate = d.AspectRatioMutationRate
	}
	if c.PartnerBiasRate <= 0 {
		c.PartnerBiasRate = d.PartnerBiasRate
	}
	if c.SwapMutationRate <= 0 {
		c.SwapMutationRate = d.SwapMutationRate
	}
	if c.AttractionStrength <= 0 {
		c.AttractionStrength = d.AttractionStrength
	}
	if c.InflationRate <= 0 {
		c.InflationRate = d.InflationRate
	}
	if c.InflationThreshold <= 0 {
		c.InflationThreshold = d.InflationThreshold
	}
	if c.WarmUpIterations <= 0 {
		c.WarmUpIterations = d.WarmUpIterations
	}
	if c.WarmUpIterations > 5 {
		c.WarmUpIterations = 5
	}
	if c.FreshBloodInterval <= 0 {
		c.FreshBloodInterval = d.FreshBloodInterval
	}
	if c.FreshBloodWarmUp <= 0 {
		c.FreshBloodWarmUp = d.FreshBloodWarmUp
	}
	if c.OverlapPenaltyExponent < 1 {
		c.OverlapPenaltyExponent = d.OverlapPenaltyExponent
	}
	return c
}
