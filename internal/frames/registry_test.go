package frames

import (
	"reflect"
	"testing"
	"time"

	"github.com/bft-labs/meshscreen/internal/domain"
	"github.com/bft-labs/meshscreen/internal/ports"
)

func TestRegistry_BuildOrderAndLength(t *testing.T) {
	msg := &domain.TextMessage{From: 0x1234, Text: "hi"}
	local := &domain.TextMessage{From: 0, Text: "from phone"}
	mods := []ports.Module{&fakeModule{name: "a"}, &fakeModule{name: "b"}}

	tests := []struct {
		name string
		in   Inputs
		want []SlotKind
	}{
		{
			name: "bare",
			in:   Inputs{TotalNodes: 1},
			want: []SlotKind{SlotDebug, SlotSettings},
		},
		{
			name: "wifi",
			in:   Inputs{TotalNodes: 0, WiFiAvailable: true},
			want: []SlotKind{SlotDebug, SlotSettings, SlotWiFi},
		},
		{
			name: "everything",
			in: Inputs{
				Modules:       mods,
				FaultCode:     7,
				Message:       msg,
				TotalNodes:    3,
				WiFiAvailable: true,
			},
			want: []SlotKind{
				SlotModule, SlotModule, SlotFault, SlotMessage,
				SlotNode, SlotNode, SlotDebug, SlotSettings, SlotWiFi,
			},
		},
		{
			name: "node slots capped",
			in:   Inputs{TotalNodes: 50},
			want: []SlotKind{SlotNode, SlotNode, SlotNode, SlotNode, SlotDebug, SlotSettings},
		},
		{
			name: "loopback message skipped",
			in:   Inputs{Message: local, TotalNodes: 1},
			want: []SlotKind{SlotDebug, SlotSettings},
		},
		{
			name: "range test hides message",
			in:   Inputs{Message: msg, RangeTestEnabled: true},
			want: []SlotKind{SlotDebug, SlotSettings},
		},
		{
			name: "store and forward hides message",
			in:   Inputs{Message: msg, StoreForwardEnabled: true},
			want: []SlotKind{SlotDebug, SlotSettings},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry(Deps{Roster: &fakeRoster{}})
			got := r.Build(tt.in)

			if !reflect.DeepEqual(got.Kinds(), tt.want) {
				t.Errorf("Build() kinds = %v, want %v", got.Kinds(), tt.want)
			}

			wantLen := len(tt.in.Modules) + tt.in.NodeSlots() + 2
			if tt.in.FaultCode != 0 {
				wantLen++
			}
			if tt.in.ShowMessage() {
				wantLen++
			}
			if tt.in.WiFiAvailable {
				wantLen++
			}
			if got.Len() != wantLen {
				t.Errorf("Len() = %d, want %d", got.Len(), wantLen)
			}
		})
	}
}

func TestRegistry_BuildIsDeterministic(t *testing.T) {
	mods := []ports.Module{&fakeModule{name: "a"}}
	in := Inputs{Modules: mods, FaultCode: 1, TotalNodes: 4}
	r := NewRegistry(Deps{Roster: &fakeRoster{}})

	a, b := r.Build(in), r.Build(in)

	if !reflect.DeepEqual(a.Kinds(), b.Kinds()) {
		t.Fatalf("kinds differ: %v vs %v", a.Kinds(), b.Kinds())
	}
	for i := 0; i < a.Len(); i++ {
		if a.At(i).Owner != b.At(i).Owner {
			t.Errorf("slot %d owner differs", i)
		}
	}
	if a.At(0).Owner != mods[0] {
		t.Error("module slot owner is not the module")
	}
}

func TestRegistry_BuildResetsRotation(t *testing.T) {
	roster := &fakeRoster{local: 1, nodes: []domain.NodeInfo{{Num: 1}, {Num: 2}, {Num: 3}}}
	rot := NewRotator()
	r := NewRegistry(Deps{Roster: roster, Rotator: rot})

	first, _ := rot.Select(0, roster)
	same, _ := rot.Select(0, roster)
	if first.Num != same.Num {
		t.Fatalf("rotation advanced without a frame change")
	}

	r.Build(Inputs{TotalNodes: 3})

	next, _ := rot.Select(0, roster)
	if next.Num == first.Num {
		t.Errorf("rotation did not advance after Build()")
	}
}

func TestRegistry_ModuleSlotDrawsModule(t *testing.T) {
	r := NewRegistry(Deps{})
	list := r.Build(Inputs{Modules: []ports.Module{&fakeModule{name: "weather"}}})
	s := &recordingSurface{}

	list.At(0).Render.Draw(s, domain.FrameState{Count: list.Len()}, 0, 0)

	if !s.has("weather") {
		t.Errorf("module frame drew %q", s.joined())
	}
}

func TestRegistry_MessageFrame(t *testing.T) {
	roster := &fakeRoster{nodes: []domain.NodeInfo{{Num: 5, HasUser: true, ShortName: "BOB"}}}
	r := NewRegistry(Deps{Roster: roster, Clock: fixedClock{now: time.Unix(0, 0)}})

	tests := []struct {
		name string
		from uint32
		want string
	}{
		{"known sender", 5, "From: BOB"},
		{"unknown sender", 9, "From: ???"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list := r.Build(Inputs{Message: &domain.TextMessage{From: tt.from, Text: "see you at the trailhead"}})
			s := &recordingSurface{}
			list.At(0).Render.Draw(s, domain.FrameState{}, 0, 0)

			if !s.has(tt.want) {
				t.Errorf("drew %q, want %q", s.joined(), tt.want)
			}
			if !s.has("see you at the") {
				t.Errorf("message not wrapped: %q", s.joined())
			}
		})
	}
}
