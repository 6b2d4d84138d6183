package service

import (
	"context"
	"fmt"
	"time"

	"power_node/internal/logger"
	"power_node/internal/metrics"
	"power_node/internal/models"
	"power_node/internal/mqtt"
	"power_node/internal/node"
	"power_node/internal/repository"
)

const sinkTimeout = 2 * time.Second

// Sinks receive a node's outputs: UI snapshots, appearance data, audio cues
// and player notices. Writes are best-effort; failures are logged and counted.
type Sinks struct {
	stateRepo repository.StateRepo
	eventRepo repository.EventRepo
	publisher mqtt.Publisher

	metrics *metrics.Registry
	log     *logger.Logger
	clock   func() time.Time
}

func NewSinks(stateRepo repository.StateRepo, eventRepo repository.EventRepo, pub mqtt.Publisher, m *metrics.Registry, log *logger.Logger) *Sinks {
	if pub == nil {
		pub = mqtt.NopPublisher{}
	}
	return &Sinks{
		stateRepo: stateRepo,
		eventRepo: eventRepo,
		publisher: pub,
		metrics:   m,
		log:       log,
		clock:     time.Now,
	}
}

var (
	_ node.UISink     = (*Sinks)(nil)
	_ node.VisualSink = (*Sinks)(nil)
	_ node.SoundSink  = (*Sinks)(nil)
	_ node.Notifier   = (*Sinks)(nil)
)

// SetUIState persists the snapshot; websocket clients read it back.
func (s *Sinks) SetUIState(nodeID string, st node.UIState) {
	ctx, cancel := context.WithTimeout(context.Background(), sinkTimeout)
	defer cancel()

	s.metrics.UIUpdates.Inc()
	err := s.stateRepo.Save(ctx, models.NodeState{
		NodeID:         nodeID,
		BreakerEnabled: st.BreakerEnabled,
		SupplyWatts:    st.SupplyWatts,
		ExternalPower:  st.ExternalPower.String(),
		ChargeFraction: st.ChargeFraction,
		UpdatedAt:      s.clock().UTC(),
	})
	if err != nil {
		s.failed("ui", "ui_state_save_failed", err, "node", nodeID)
	}
}

// SetVisual publishes an appearance field and records it in the event log.
func (s *Sinks) SetVisual(nodeID string, key node.VisualKey, value string) {
	now := s.clock().UTC()
	s.metrics.VisualUpdates.WithLabelValues(string(key)).Inc()

	err := s.publisher.PublishVisual(mqtt.VisualUpdate{
		Timestamp: now,
		NodeID:    nodeID,
		Key:       string(key),
		Value:     value,
	})
	if err != nil {
		s.failed("mqtt", "visual_publish_failed", err, "node", nodeID, "key", key)
	}

	s.append(models.NodeEvent{
		NodeID:      nodeID,
		OccurredAt:  now,
		Type:        models.EventVisual,
		Description: fmt.Sprintf("%s=%s", key, value),
		Metadata:    map[string]any{"key": string(key), "value": value},
	})
}

// PlayCue records an audio cue.
func (s *Sinks) PlayCue(nodeID string, cue node.Cue) {
	var typ, msg string
	switch cue {
	case node.CueBreakerToggled:
		s.metrics.BreakerToggles.Inc()
		typ, msg = models.EventBreakerToggled, "Breaker toggled"
	case node.CuePanelOpened:
		typ, msg = models.EventPanelOpened, "Maintenance panel opened"
	case node.CuePanelClosed:
		typ, msg = models.EventPanelClosed, "Maintenance panel closed"
	default:
		typ, msg = "CUE", string(cue)
	}
	s.append(models.NodeEvent{
		NodeID:      nodeID,
		OccurredAt:  s.clock().UTC(),
		Type:        typ,
		Description: msg,
		Metadata:    map[string]any{"cue": string(cue)},
	})
}

// Notify records a message shown to one requester.
func (s *Sinks) Notify(requester, nodeID, messageKey string) {
	typ := "NOTICE"
	if messageKey == node.NoticeAccessDenied {
		s.metrics.AccessDenied.Inc()
		typ = models.EventAccessDenied
	}
	s.append(models.NodeEvent{
		NodeID:      nodeID,
		OccurredAt:  s.clock().UTC(),
		Type:        typ,
		Description: messageKey,
		Metadata:    map[string]any{"requester": requester},
	})
}

func (s *Sinks) append(ev models.NodeEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), sinkTimeout)
	defer cancel()
	if err := s.eventRepo.Append(ctx, ev); err != nil {
		s.failed("event_log", "event_append_failed", err, "node", ev.NodeID, "type", ev.Type)
	}
}

func (s *Sinks) failed(sink, logKey string, err error, kv ...interface{}) {
	s.metrics.SinkErrorsTotal.WithLabelValues(sink).Inc()
	s.log.Errorw(logKey, append([]interface{}{"err", err}, kv...)...)
}
