package tracking

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/lucsky/cuid"
	"github.com/rs/zerolog/log"

	"github.com/chrisdamba/greengrocer/internal/models"
	"github.com/chrisdamba/greengrocer/internal/output"
)

// Publisher turns simulator snapshots into vehicle_location_events and
// delivery_status_events. Register its Observe method with Subscribe.
type Publisher struct {
	mu        sync.Mutex
	dest      output.Destination
	now       func() time.Time
	runID     string
	lastPhase models.SimulationPhase
	lastStep  int
	written   int
}

func NewPublisher(dest output.Destination, now func() time.Time) *Publisher {
	if now == nil {
		now = time.Now
	}
	return &Publisher{
		dest:      dest,
		now:       now,
		lastPhase: models.PhaseIdle,
	}
}

func (p *Publisher) Observe(snapshot models.SimulationSnapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()

	timestamp := p.now().Unix()

	if snapshot.Phase == models.PhaseRunning && p.lastPhase == models.PhaseIdle && (snapshot.Step == 0 || p.runID == "") {
		p.runID = cuid.New()
	}

	if snapshot.Step != p.lastStep && snapshot.Step > 0 && p.runID != "" {
		p.write(models.TopicVehicleLocation, models.VehicleLocationEvent{
			Timestamp:          timestamp,
			EventType:          "VehicleLocation",
			RunID:              p.runID,
			VehicleID:          snapshot.Vehicle.ID,
			Step:               int32(snapshot.Step),
			ProgressPercent:    int32(snapshot.ProgressPercent),
			EstimatedTimeLabel: snapshot.EstimatedTimeLabel,
			Lat:                snapshot.Vehicle.Coordinates.Lat,
			Lon:                snapshot.Vehicle.Coordinates.Lon,
		})
	}
	p.lastStep = snapshot.Step

	if snapshot.Phase != p.lastPhase {
		p.write(models.TopicDeliveryStatus, models.DeliveryStatusEvent{
			Timestamp:          timestamp,
			EventType:          "DeliveryStatusChange",
			RunID:              p.runID,
			Phase:              string(snapshot.Phase),
			PreviousPhase:      string(p.lastPhase),
			ProgressPercent:    int32(snapshot.ProgressPercent),
			EstimatedTimeLabel: snapshot.EstimatedTimeLabel,
		})
		p.lastPhase = snapshot.Phase
	}
}

// Written returns the number of events handed to the destination.
func (p *Publisher) Written() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.written
}

func (p *Publisher) write(topic string, event interface{}) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("Error serializing event")
		return
	}
	if err := p.dest.WriteMessage(topic, data); err != nil {
		log.Warn().Err(err).Str("topic", topic).Msg("Error writing event")
		return
	}
	p.written++
}
