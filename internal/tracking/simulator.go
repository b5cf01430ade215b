// Package tracking simulates a delivery vehicle travelling from the pickup
// point to the shopper's address so the storefront can show live progress.
package tracking

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/chrisdamba/greengrocer/internal/models"
	"github.com/chrisdamba/greengrocer/internal/schedule"
)

const (
	DefaultSteps        = 50
	DefaultTickInterval = time.Second
	DefaultTotalBudget  = 25 * time.Minute
	DefaultJitter       = 0.0005

	vehicleID   = "vehicle"
	vehicleName = "Delivery van"
)

var (
	ErrRunning      = errors.New("simulation is running")
	ErrInvalidRoute = errors.New("invalid route")
)

// JitterFunc returns the per-axis offset added to the interpolated vehicle
// position on each tick.
type JitterFunc func() (dLat, dLon float64)

// NoJitter keeps the vehicle on the straight line.
func NoJitter() (float64, float64) { return 0, 0 }

// UniformJitter draws each offset uniformly from [-limit, +limit].
func UniformJitter(seed int64, limit float64) JitterFunc {
	var mu sync.Mutex
	r := rand.New(rand.NewSource(seed))
	return func() (float64, float64) {
		mu.Lock()
		defer mu.Unlock()
		return (r.Float64() - 0.5) * 2 * limit, (r.Float64() - 0.5) * 2 * limit
	}
}

// Simulator moves the vehicle marker along a straight line in fixed steps.
// Pickup and dropoff cannot change while a run is in progress.
type Simulator struct {
	mu        sync.Mutex
	scheduler schedule.Scheduler
	steps     int
	interval  time.Duration
	budget    time.Duration
	jitter    JitterFunc

	pickup  *models.TrackedLocation
	dropoff *models.TrackedLocation
	vehicle models.TrackedLocation

	phase    models.SimulationPhase
	step     int
	progress int
	label    string

	cancel     schedule.Cancel
	generation uint64
	closed     bool

	observers   []observer
	nextObs     int
	pending     []models.SimulationSnapshot
	dispatching bool
	idle        *sync.Cond
}

type observer struct {
	id int
	fn func(models.SimulationSnapshot)
}

type Option func(*Simulator)

func WithRoute(pickup, dropoff models.TrackedLocation) Option {
	return func(s *Simulator) {
		s.pickup, s.dropoff = routePoints(pickup, dropoff)
	}
}

func WithSteps(n int) Option {
	return func(s *Simulator) {
		if n > 0 {
			s.steps = n
		}
	}
}

func WithTickInterval(d time.Duration) Option {
	return func(s *Simulator) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithTotalBudget sets the estimated trip duration shown before the first
// tick.
func WithTotalBudget(d time.Duration) Option {
	return func(s *Simulator) {
		if d >= 0 {
			s.budget = d
		}
	}
}

func WithJitter(fn JitterFunc) Option {
	return func(s *Simulator) {
		if fn != nil {
			s.jitter = fn
		}
	}
}

// WithObserver registers fn before the initial state is computed.
func WithObserver(fn func(models.SimulationSnapshot)) Option {
	return func(s *Simulator) {
		s.observers = append(s.observers, observer{id: s.nextObs, fn: fn})
		s.nextObs++
	}
}

// FromConfig translates tracking configuration into options.
func FromConfig(cfg models.TrackingConfig) []Option {
	opts := []Option{
		WithSteps(cfg.Steps),
		WithTickInterval(cfg.TickInterval),
		WithTotalBudget(cfg.TotalBudget),
		WithRoute(cfg.Pickup.Tracked(models.RolePickup), cfg.Dropoff.Tracked(models.RoleDropoff)),
	}
	if cfg.Jitter > 0 {
		opts = append(opts, WithJitter(UniformJitter(cfg.Seed, cfg.Jitter)))
	} else {
		opts = append(opts, WithJitter(NoJitter))
	}
	return opts
}

func NewSimulator(scheduler schedule.Scheduler, opts ...Option) *Simulator {
	if scheduler == nil {
		scheduler = schedule.Real()
	}
	s := &Simulator{
		scheduler: scheduler,
		steps:     DefaultSteps,
		interval:  DefaultTickInterval,
		budget:    DefaultTotalBudget,
		jitter:    UniformJitter(time.Now().UnixNano(), DefaultJitter),
	}
	s.idle = sync.NewCond(&s.mu)
	for _, opt := range opts {
		opt(s)
	}
	s.resetLocked()
	return s
}

// Start begins or resumes a run. It does nothing while running, after
// completion, or when the route is incomplete.
func (s *Simulator) Start() {
	s.mu.Lock()
	if s.closed || s.phase != models.PhaseIdle {
		s.mu.Unlock()
		return
	}
	if !s.routeValidLocked() {
		s.mu.Unlock()
		log.Debug().Msg("Tracking start ignored, route is incomplete")
		return
	}
	s.phase = models.PhaseRunning
	s.generation++
	s.scheduleLocked(s.generation)
	step := s.step
	s.publishLocked()

	log.Debug().Int("step", step).Msg("Tracking started")
}

// Stop pauses a run, keeping the vehicle position and progress.
func (s *Simulator) Stop() {
	s.mu.Lock()
	if s.phase != models.PhaseRunning {
		s.mu.Unlock()
		return
	}
	s.cancelLocked()
	s.phase = models.PhaseIdle
	step := s.step
	s.publishLocked()

	log.Debug().Int("step", step).Msg("Tracking stopped")
}

// Reset cancels any run and moves the vehicle back to the pickup point.
func (s *Simulator) Reset() {
	s.mu.Lock()
	s.cancelLocked()
	s.resetLocked()
	s.publishLocked()
}

// SetRoute replaces pickup and dropoff and resets the simulation.
func (s *Simulator) SetRoute(pickup, dropoff models.TrackedLocation) error {
	if !pickup.Coordinates.Valid() || !dropoff.Coordinates.Valid() {
		return fmt.Errorf("%w: pickup %s, dropoff %s", ErrInvalidRoute, pickup.Coordinates, dropoff.Coordinates)
	}

	s.mu.Lock()
	if s.phase == models.PhaseRunning {
		s.mu.Unlock()
		return ErrRunning
	}
	s.cancelLocked()
	s.pickup, s.dropoff = routePoints(pickup, dropoff)
	s.resetLocked()
	s.publishLocked()
	return nil
}

// Close cancels the pending tick and waits until observers have received
// every snapshot taken before it. Nothing is delivered afterwards and a
// closed simulator cannot be started. Close must not be called from an
// observer.
func (s *Simulator) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
	if s.phase == models.PhaseRunning {
		s.phase = models.PhaseIdle
	}
	s.closed = true
	for s.dispatching {
		s.idle.Wait()
	}
}

func (s *Simulator) State() models.SimulationSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe registers fn to receive a snapshot after every change. The
// returned func unregisters it.
func (s *Simulator) Subscribe(fn func(models.SimulationSnapshot)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextObs
	s.nextObs++
	s.observers = append(s.observers, observer{id: id, fn: fn})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, o := range s.observers {
			if o.id == id {
				s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
				return
			}
		}
	}
}

func (s *Simulator) tick(generation uint64) {
	s.mu.Lock()
	// A callback that lost the race with Stop or Reset belongs to an old run.
	if generation != s.generation || s.phase != models.PhaseRunning {
		s.mu.Unlock()
		return
	}
	s.cancel = nil
	s.step++
	ratio := float64(s.step) / float64(s.steps)

	if s.step >= s.steps {
		s.step = s.steps
		s.phase = models.PhaseCompleted
		s.vehicle.Coordinates = s.dropoff.Coordinates
		s.progress = 100
		s.label = models.LabelArrived
	} else {
		dLat, dLon := s.jitter()
		s.vehicle.Coordinates = models.Location{
			Lat: s.pickup.Coordinates.Lat + (s.dropoff.Coordinates.Lat-s.pickup.Coordinates.Lat)*ratio + dLat,
			Lon: s.pickup.Coordinates.Lon + (s.dropoff.Coordinates.Lon-s.pickup.Coordinates.Lon)*ratio + dLon,
		}
		s.progress = int(math.Round(ratio * 100))
		s.label = EstimatedTimeLabel(s.remainingMinutes(ratio))
		s.scheduleLocked(generation)
	}
	completed, steps := s.phase == models.PhaseCompleted, s.step
	s.publishLocked()

	if completed {
		log.Debug().Int("steps", steps).Msg("Tracking completed")
	}
}

func (s *Simulator) scheduleLocked(generation uint64) {
	s.cancel = s.scheduler.AfterFunc(s.interval, func() { s.tick(generation) })
}

func (s *Simulator) cancelLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.generation++
}

func (s *Simulator) resetLocked() {
	s.phase = models.PhaseIdle
	s.step = 0
	s.progress = 0
	s.label = EstimatedTimeLabel(s.remainingMinutes(0))
	s.vehicle = models.TrackedLocation{ID: vehicleID, Name: vehicleName, Role: models.RoleVehicle}
	if s.pickup != nil {
		s.vehicle.Coordinates = s.pickup.Coordinates
	}
}

func (s *Simulator) routeValidLocked() bool {
	return s.pickup != nil && s.dropoff != nil &&
		s.pickup.Coordinates.Valid() && s.dropoff.Coordinates.Valid()
}

func (s *Simulator) remainingMinutes(ratio float64) int {
	return int(math.Round(s.budget.Minutes() * (1 - ratio)))
}

func (s *Simulator) snapshotLocked() models.SimulationSnapshot {
	snapshot := models.SimulationSnapshot{
		SimulationState: models.SimulationState{
			Running:            s.phase == models.PhaseRunning,
			ProgressPercent:    s.progress,
			EstimatedTimeLabel: s.label,
		},
		Phase:   s.phase,
		Step:    s.step,
		Steps:   s.steps,
		Vehicle: s.vehicle,
	}
	if s.pickup != nil {
		pickup := *s.pickup
		snapshot.Pickup = &pickup
	}
	if s.dropoff != nil {
		dropoff := *s.dropoff
		snapshot.Dropoff = &dropoff
	}
	return snapshot
}

// publishLocked queues the current snapshot and releases s.mu. Snapshots
// reach observers in the order they were taken: one goroutine at a time
// drains the queue, and a caller that finds a drain in progress (another
// goroutine, or an observer calling back in) leaves its snapshot to it.
func (s *Simulator) publishLocked() {
	if !s.closed {
		s.pending = append(s.pending, s.snapshotLocked())
	}
	if s.dispatching {
		s.mu.Unlock()
		return
	}

	s.dispatching = true
	for len(s.pending) > 0 {
		snapshot := s.pending[0]
		s.pending = s.pending[1:]
		observers := append([]observer(nil), s.observers...)
		s.mu.Unlock()

		for _, o := range observers {
			o.fn(snapshot)
		}

		s.mu.Lock()
	}
	s.pending = nil
	s.dispatching = false
	s.idle.Broadcast()
	s.mu.Unlock()
}

// EstimatedTimeLabel formats the remaining trip time.
func EstimatedTimeLabel(minutes int) string {
	if minutes <= 0 {
		return models.LabelArrivingNow
	}
	return fmt.Sprintf("~%d min", minutes)
}

func routePoints(pickup, dropoff models.TrackedLocation) (*models.TrackedLocation, *models.TrackedLocation) {
	pickup.Role = models.RolePickup
	dropoff.Role = models.RoleDropoff
	return &pickup, &dropoff
}
