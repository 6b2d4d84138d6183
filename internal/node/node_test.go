package node

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	h := newHarness(nil)

	assert.Equal(t, "apc-1", h.node.ID())
	assert.True(t, h.node.BreakerEnabled())
	assert.True(t, h.battery.canDischarge)
	assert.False(t, h.node.Compromised())
	assert.Equal(t, PanelClosed, h.node.PanelState())
}

func TestNew_PanicsWithoutBattery(t *testing.T) {
	assert.Panics(t, func() { New("x", DefaultConfig(), nil, Deps{}) })
}

func TestCreated_PushesPanelAndInitialUI(t *testing.T) {
	h := newHarness(nil)
	h.battery.reading = Reading{CurrentCharge: 50, MaxCharge: 100, CurrentSupply: 12.2, CurrentReceiving: 20}

	require.True(t, h.node.Handle(Created{}))

	require.NotEmpty(t, h.rec.visuals)
	assert.Equal(t, visualWrite{key: VisualPanelState, value: "CLOSED"}, h.rec.visuals[0])
	assert.Equal(t, []string{"CHARGING"}, h.rec.chargeVisuals())

	require.Len(t, h.rec.ui, 1)
	assert.Equal(t, UIState{
		BreakerEnabled: true,
		SupplyWatts:    13,
		ExternalPower:  ExternalGood,
		ChargeFraction: 0.5,
	}, h.rec.ui[0])
}

func TestReadingChanged_ChargeVisualDebounced(t *testing.T) {
	h := newHarness(nil)
	h.battery.reading = halfReading(0, 100)
	h.node.Handle(Created{})
	require.Equal(t, []string{"CHARGING"}, h.rec.chargeVisuals())

	// flicker inside the window is dropped
	h.clock.Advance(300 * time.Millisecond)
	h.battery.reading = halfReading(100, 0)
	h.node.Handle(ReadingChanged{})
	assert.Equal(t, []string{"CHARGING"}, h.rec.chargeVisuals())

	h.clock.Advance(300 * time.Millisecond)
	h.battery.reading = halfReading(0, 100)
	h.node.Handle(ReadingChanged{})
	assert.Equal(t, []string{"CHARGING"}, h.rec.chargeVisuals())

	// a sustained change after the window is emitted once
	h.clock.Advance(time.Second)
	h.battery.reading = Reading{CurrentCharge: 95, MaxCharge: 100}
	h.node.Handle(ReadingChanged{})
	h.node.Handle(ReadingChanged{})
	assert.Equal(t, []string{"CHARGING", "FULL"}, h.rec.chargeVisuals())
}

func TestReadingChanged_UIRefreshesAfterDelayWithoutChange(t *testing.T) {
	h := newHarness(nil)
	h.battery.reading = halfReading(100, 100)
	h.node.Handle(Created{})
	require.Len(t, h.rec.ui, 1)

	h.clock.Advance(500 * time.Millisecond)
	h.battery.reading = halfReading(120, 120)
	h.node.Handle(ReadingChanged{})
	assert.Len(t, h.rec.ui, 1)

	h.clock.Advance(500 * time.Millisecond)
	h.node.Handle(ReadingChanged{})
	require.Len(t, h.rec.ui, 2)
	assert.Equal(t, 120, h.rec.ui[1].SupplyWatts)
	assert.Equal(t, ExternalGood, h.rec.ui[1].ExternalPower)
}

func TestReadingChanged_ExternalChangePushesImmediately(t *testing.T) {
	h := newHarness(nil)
	h.battery.reading = halfReading(100, 100)
	h.node.Handle(Created{})

	h.clock.Advance(10 * time.Millisecond)
	h.battery.reading = halfReading(100, 0)
	h.node.Handle(ReadingChanged{})

	require.Len(t, h.rec.ui, 2)
	assert.Equal(t, ExternalNone, h.rec.ui[1].ExternalPower)
}

func TestToggleBreaker_Involution(t *testing.T) {
	h := newHarness(nil)

	h.node.ToggleBreaker()
	assert.False(t, h.node.BreakerEnabled())
	assert.False(t, h.battery.canDischarge)

	h.node.ToggleBreaker()
	assert.True(t, h.node.BreakerEnabled())
	assert.True(t, h.battery.canDischarge)

	assert.Equal(t, []Cue{CueBreakerToggled, CueBreakerToggled}, h.rec.cues)
	require.Len(t, h.rec.ui, 2)
	assert.False(t, h.rec.ui[0].BreakerEnabled)
	assert.True(t, h.rec.ui[1].BreakerEnabled)
}

func TestToggleRequested_AuthorizedRequester(t *testing.T) {
	h := newHarness(AccessRequirement{"Engineering"})
	h.access.allowed["alice"] = true

	assert.True(t, h.node.Handle(ToggleRequested{Requester: "alice"}))
	assert.False(t, h.node.BreakerEnabled())
	assert.Equal(t, []string{"alice"}, h.access.asked)
	assert.Empty(t, h.rec.notices)
}

func TestToggleRequested_UnauthorizedOnlyNotifies(t *testing.T) {
	h := newHarness(AccessRequirement{"Engineering"})

	assert.False(t, h.node.Handle(ToggleRequested{Requester: "mallory"}))
	assert.True(t, h.node.BreakerEnabled())
	assert.True(t, h.battery.canDischarge)
	assert.Equal(t, []string{"mallory:" + NoticeAccessDenied}, h.rec.notices)
	assert.Empty(t, h.rec.cues)
	assert.Empty(t, h.rec.ui)
	assert.Empty(t, h.rec.visuals)
}

func TestToggleRequested_NoRequirementSkipsCheck(t *testing.T) {
	h := newHarness(nil)

	assert.True(t, h.node.Handle(ToggleRequested{Requester: "anyone"}))
	assert.Empty(t, h.access.asked)
	assert.False(t, h.node.BreakerEnabled())
}

func TestCompromise_DisablesAuthorizationAndForcesChargeState(t *testing.T) {
	h := newHarness(AccessRequirement{"Engineering"})
	h.battery.reading = fullReading()
	h.node.Handle(Created{})
	require.Equal(t, []string{"FULL"}, h.rec.chargeVisuals())

	assert.True(t, h.node.Handle(CompromiseEvent{}))
	assert.True(t, h.node.BreakerEnabled(), "compromise alone must not move the breaker")
	assert.True(t, h.node.Compromised())
	assert.Equal(t, ChargeCompromised, h.node.ChargeState())

	h.clock.Advance(2 * time.Second)
	h.node.Handle(ReadingChanged{})
	assert.Equal(t, []string{"FULL", "COMPROMISED"}, h.rec.chargeVisuals())

	assert.True(t, h.node.Handle(ToggleRequested{Requester: "mallory"}))
	assert.Empty(t, h.access.asked)
	assert.False(t, h.node.BreakerEnabled())

	// repeated compromise is still handled and the flag never clears
	assert.True(t, h.node.Handle(CompromiseEvent{}))
	assert.True(t, h.node.Compromised())
}

func TestDisturbance_ForcesBreakerOff(t *testing.T) {
	h := newHarness(AccessRequirement{"Engineering"})

	assert.True(t, h.node.Handle(DisturbanceEvent{}))
	assert.False(t, h.node.BreakerEnabled())
	assert.False(t, h.battery.canDischarge)
	assert.Empty(t, h.access.asked)
	assert.Equal(t, []Cue{CueBreakerToggled}, h.rec.cues)
}

func TestDisturbance_NoEffectWhenAlreadyOff(t *testing.T) {
	h := newHarness(nil)
	h.node.ToggleBreaker()
	cues := len(h.rec.cues)
	sets := h.battery.setCalls

	assert.False(t, h.node.Handle(DisturbanceEvent{}))
	assert.False(t, h.node.BreakerEnabled())
	assert.Len(t, h.rec.cues, cues)
	assert.Equal(t, sets, h.battery.setCalls)
}

func TestPanel_ToolRequestCarriesScrewTimeAndQuality(t *testing.T) {
	h := newHarness(nil)

	assert.True(t, h.node.Handle(ToolUsed{Tool: "screwdriver", User: "bob"}))
	require.Len(t, h.tools.requests, 1)
	assert.Equal(t, ToolRequest{
		Tool:     "screwdriver",
		User:     "bob",
		Target:   "apc-1",
		Duration: 2 * time.Second,
		Quality:  ScrewingQuality,
	}, h.tools.requests[0])

	// the panel only moves on completion
	assert.Equal(t, PanelClosed, h.node.PanelState())
}

func TestPanel_RejectedToolIsSilent(t *testing.T) {
	h := newHarness(nil)
	h.tools.accept = false

	assert.False(t, h.node.Handle(ToolUsed{Tool: "crowbar", User: "bob"}))
	assert.Equal(t, PanelClosed, h.node.PanelState())
	assert.Empty(t, h.rec.cues)
	assert.Empty(t, h.rec.notices)
	assert.Empty(t, h.rec.visuals)
}

func TestPanel_NoToolEngineRejects(t *testing.T) {
	n := New("x", DefaultConfig(), nil, Deps{Battery: &fakeBattery{reading: fullReading()}})
	assert.False(t, n.BeginPanelToggle("screwdriver", "bob"))
}

func TestPanel_TwoCycle(t *testing.T) {
	h := newHarness(nil)

	require.True(t, h.node.Handle(ToolUsed{Tool: "screwdriver", User: "bob"}))
	h.node.Handle(ToolFinished{})
	assert.Equal(t, PanelOpen, h.node.PanelState())
	assert.Equal(t, ExaminePanelOpen, h.node.Examine())

	require.True(t, h.node.Handle(ToolUsed{Tool: "screwdriver", User: "bob"}))
	h.node.Handle(ToolFinished{})
	assert.Equal(t, PanelClosed, h.node.PanelState())
	assert.Equal(t, ExaminePanelClosed, h.node.Examine())

	assert.Equal(t, []Cue{CuePanelOpened, CuePanelClosed}, h.rec.cues)
	assert.Equal(t, []visualWrite{
		{key: VisualPanelState, value: "OPEN"},
		{key: VisualPanelState, value: "CLOSED"},
	}, h.rec.visuals)
}

func TestOptionalSinksMaySkip(t *testing.T) {
	b := &fakeBattery{reading: halfReading(10, 0)}
	n := New("bare", DefaultConfig(), AccessRequirement{"Engineering"}, Deps{Battery: b})

	assert.NotPanics(t, func() {
		n.Handle(Created{})
		n.Handle(ReadingChanged{})
		n.Handle(ToggleRequested{Requester: "x"})
		n.Handle(ToolFinished{})
		n.Handle(CompromiseEvent{})
		n.Handle(DisturbanceEvent{})
	})
	assert.False(t, b.canDischarge)
	assert.Equal(t, PanelOpen, n.PanelState())
}

func TestUIState_SupplyRoundsUp(t *testing.T) {
	h := newHarness(nil)
	h.battery.reading = Reading{CurrentCharge: 25, MaxCharge: 100, CurrentSupply: 0.2}

	s := h.node.UIState()
	assert.Equal(t, 1, s.SupplyWatts)
	assert.Equal(t, 0.25, s.ChargeFraction)
}

func TestExamined_RepliesWithPanelKey(t *testing.T) {
	h := newHarness(nil)

	var key string
	assert.True(t, h.node.Handle(Examined{Reply: func(k string) { key = k }}))
	assert.Equal(t, ExaminePanelClosed, key)

	h.node.Handle(ToolFinished{})
	h.node.Handle(Examined{Reply: func(k string) { key = k }})
	assert.Equal(t, ExaminePanelOpen, key)

	assert.NotPanics(t, func() { h.node.Handle(Examined{}) })
}

func TestEventName(t *testing.T) {
	assert.Equal(t, "tool_finished", EventName(ToolFinished{}))
	assert.Equal(t, "toggle_requested", EventName(ToggleRequested{}))
	assert.Equal(t, "examined", EventName(Examined{}))
}
