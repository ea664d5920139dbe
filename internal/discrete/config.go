package discrete

// Weights are the placement scoring weights.
type Weights struct {
	Compactness float64 `json:"compactness"`
	Adjacency   float64 `json:"adjacency"`
	Corridor    float64 `json:"corridor"` // reserved
}

// Point is a grid cell coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Config controls the discrete solver. Zero-valued fields take the
// documented defaults; Start nil means the grid center.
type Config struct {
	GridResolution float64 `json:"grid_resolution"`
	MaxIterations  int     `json:"max_iterations"`
	MutationRate   float64 `json:"mutation_rate"`
	Start          *Point  `json:"start_point,omitempty"`
	Weights        Weights `json:"weights"`
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		GridResolution: 1.0,
		MaxIterations:  500,
		MutationRate:   0.3,
		Weights: Weights{
			Compactness: 2.0,
			Adjacency:   3.0,
			Corridor:    0.5,
		},
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.GridResolution <= 0 {
		c.GridResolution = d.GridResolution
	}
	if c.MaxIterations <= 0 {
		c.MaxIterations = d.MaxIterations
	}
	if c.MutationRate <= 0 {
		c.MutationRate = d.MutationRate
	}
	if c.Weights == (Weights{}) {
		c.Weights = d.Weights
	}
	return c
}
