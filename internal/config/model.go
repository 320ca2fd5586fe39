// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package config

// Optional holds a value that may be null in the configuration.
type Optional[T any] struct {
	value T
	valid bool
}

// Some returns a set Optional.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, valid: true}
}

// Get returns the value and whether it is set.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.valid
}

// OrElse returns the value, or def when it is not set.
func (o Optional[T]) OrElse(def T) T {
	if o.valid {
		return o.value
	}
	return def
}

// Valid reports whether the value is set.
func (o Optional[T]) Valid() bool {
	return o.valid
}

// --- Sections ---

// Dataset holds the data splits.
type Dataset struct {
	Train Split
	Val   Optional[Split]
	Test  Optional[Split]
	// Extras holds any further splits, e.g. a relaxation set, verbatim.
	Extras map[string]any
}

// Split is one dataset split.
type Split struct {
	Src             string
	Format          string
	KeyMapping      map[string]string
	Transforms      map[string]any
	NormalizeLabels bool
	TargetMean      Optional[float64]
	TargetStd       Optional[float64]
	GradTargetMean  Optional[float64]
	GradTargetStd   Optional[float64]
	LinRef          Optional[string]
	Extras          map[string]any
}

// Logger selects the experiment logger.
type Logger struct {
	Name    string
	Project Optional[string]
	Entity  Optional[string]
	Group   Optional[string]
	Extras  map[string]any
}

// Task describes what is predicted and how it is scored.
type Task struct {
	Dataset          string
	Type             string
	Metric           string
	PrimaryMetric    Optional[string]
	Labels           []string
	Description      Optional[string]
	GradInput        Optional[string]
	TrainOnFreeAtoms bool
	EvalOnFreeAtoms  bool
	PredictionDtype  string
}

// Model is the architecture selection. Everything the configuration sets
// beyond the recognized keys is kept in Params for the model constructor.
type Model struct {
	Name          string
	Backbone      Optional[Backbone]
	Heads         map[string]any
	OTFGraph      Optional[bool]
	RegressForces Optional[bool]
	UsePBC        Optional[bool]
	UsePBCSingle  Optional[bool]
	Cutoff        Optional[float64]
	MaxNeighbors  Optional[int]
	Params        map[string]any
}

// IsHydra reports whether the model is a shared backbone with output heads.
func (m Model) IsHydra() bool {
	return m.Name == "hydra"
}

// Backbone is the shared trunk of a hydra model.
type Backbone struct {
	Model         Optional[string]
	Cutoff        Optional[float64]
	MaxNeighbors  Optional[int]
	OTFGraph      Optional[bool]
	RegressForces Optional[bool]
	UsePBC        Optional[bool]
	Params        map[string]any
}

// Optim holds optimizer, schedule and loss weighting settings.
type Optim struct {
	BatchSize         int
	EvalBatchSize     int
	NumWorkers        int
	LRInitial         float64
	Optimizer         string
	OptimizerParams   map[string]any
	WeightDecay       float64
	Scheduler         Optional[string]
	SchedulerParams   map[string]any
	Mode              Optional[string]
	Factor            Optional[float64]
	Patience          Optional[int]
	LRMilestones      []float64
	LRGamma           Optional[float64]
	WarmupSteps       Optional[int]
	WarmupFactor      Optional[float64]
	MaxEpochs         Optional[int]
	MaxSteps          Optional[int]
	EvalEvery         Optional[int]
	CheckpointEvery   Optional[int]
	ClipGradNorm      Optional[float64]
	EMADecay          Optional[float64]
	EnergyCoefficient float64
	ForceCoefficient  float64
	LossEnergy        string
	LossForce         string
	LoadBalancing     Optional[string]
}
