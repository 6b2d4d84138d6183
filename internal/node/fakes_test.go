package node

import "time"

type fakeBattery struct {
	reading      Reading
	canDischarge bool
	setCalls     int
}

func (b *fakeBattery) Reading() Reading { return b.reading }
func (b *fakeBattery) SetCanDischarge(enabled bool) {
	b.canDischarge = enabled
	b.setCalls++
}

type visualWrite struct {
	key   VisualKey
	value string
}

type recorder struct {
	visuals []visualWrite
	ui      []UIState
	cues    []Cue
	notices []string
}

func (r *recorder) SetVisual(_ string, key VisualKey, value string) {
	r.visuals = append(r.visuals, visualWrite{key: key, value: value})
}
func (r *recorder) SetUIState(_ string, s UIState) { r.ui = append(r.ui, s) }
func (r *recorder) PlayCue(_ string, cue Cue)      { r.cues = append(r.cues, cue) }
func (r *recorder) Notify(requester, _, key string) {
	r.notices = append(r.notices, requester+":"+key)
}

func (r *recorder) chargeVisuals() []string {
	var out []string
	for _, v := range r.visuals {
		if v.key == VisualChargeState {
			out = append(out, v.value)
		}
	}
	return out
}

type fakeAccess struct {
	allowed map[string]bool
	asked   []string
}

func (a *fakeAccess) IsAllowed(requester string, _ AccessRequirement) bool {
	a.asked = append(a.asked, requester)
	return a.allowed[requester]
}

type fakeTools struct {
	accept   bool
	requests []ToolRequest
}

func (t *fakeTools) Start(req ToolRequest) bool {
	t.requests = append(t.requests, req)
	return t.accept
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func fullReading() Reading { return Reading{CurrentCharge: 100, MaxCharge: 100} }

func halfReading(supply, receiving float64) Reading {
	return Reading{CurrentCharge: 50, MaxCharge: 100, CurrentSupply: supply, CurrentReceiving: receiving}
}

type harness struct {
	node    *Node
	battery *fakeBattery
	rec     *recorder
	access  *fakeAccess
	tools   *fakeTools
	clock   *fakeClock
}

func newHarness(req AccessRequirement) *harness {
	h := &harness{
		battery: &fakeBattery{reading: halfReading(0, 0)},
		rec:     &recorder{},
		access:  &fakeAccess{allowed: map[string]bool{}},
		tools:   &fakeTools{accept: true},
		clock:   newFakeClock(),
	}
	h.node = New("apc-1", DefaultConfig(), req, Deps{
		Battery: h.battery,
		Visuals: h.rec,
		UI:      h.rec,
		Sounds:  h.rec,
		Notices: h.rec,
		Access:  h.access,
		Tools:   h.tools,
		Clock:   h.clock.Now,
	})
	return h
}
