package ecs

import (
	"testing"

	"github.com/phanxgames/arbor"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

func TestNewDonburiStore(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)
	if store == nil {
		t.Fatal("NewDonburiStore returned nil")
	}
}

func TestDonburiStore_EmitEvent(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)

	var received []arbor.InteractionEvent
	InteractionEventType.Subscribe(world, func(w donburi.World, e arbor.InteractionEvent) {
		received = append(received, e)
	})

	store.EmitEvent(arbor.InteractionEvent{
		Type:     arbor.EventPointStart,
		EntityID: 42,
		GlobalX:  100,
		GlobalY:  200,
	})
	store.EmitEvent(arbor.InteractionEvent{
		Type:      arbor.EventPointOut,
		EntityID:  7,
		PointerID: 3,
		Touch:     true,
	})

	// Events are queued until processed.
	InteractionEventType.ProcessEvents(world)

	if len(received) != 2 {
		t.Fatalf("expected 2 events, got %d", len(received))
	}
	e0 := received[0]
	if e0.Type != arbor.EventPointStart || e0.EntityID != 42 {
		t.Errorf("event 0: %+v", e0)
	}
	if e0.GlobalX != 100 || e0.GlobalY != 200 {
		t.Errorf("event 0 position: (%v,%v)", e0.GlobalX, e0.GlobalY)
	}
	e1 := received[1]
	if e1.Type != arbor.EventPointOut || e1.PointerID != 3 || !e1.Touch {
		t.Errorf("event 1: %+v", e1)
	}
}

func TestDonburiStore_MultipleSubscribers(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)

	var count1, count2 int
	InteractionEventType.Subscribe(world, func(w donburi.World, e arbor.InteractionEvent) {
		count1++
	})
	InteractionEventType.Subscribe(world, func(w donburi.World, e arbor.InteractionEvent) {
		count2++
	})

	store.EmitEvent(arbor.InteractionEvent{Type: arbor.EventPointOver})
	events.ProcessAllEvents(world)

	if count1 != 1 || count2 != 1 {
		t.Errorf("expected both subscribers called once, got %d and %d", count1, count2)
	}
}

func TestReconcilerPublishesToWorld(t *testing.T) {
	world := donburi.NewWorld()
	entity := world.Create()

	root := arbor.NewNode("root")
	button := arbor.NewNode("button")
	button.SetPosition(100, 100)
	button.SetInteractive(true)
	button.EntityID = uint32(entity.Id())
	root.AddChild(button)

	plain := arbor.NewNode("plain")
	plain.SetPosition(100, 100)
	plain.SetInteractive(true)
	root.AddChild(plain)

	pointers := arbor.NewVirtualPointers()
	r := arbor.NewPointerReconciler(pointers)
	r.SetCursor = func(arbor.CursorShape) {}
	r.SetEntityStore(NewDonburiStore(world))

	var got []arbor.EventType
	InteractionEventType.Subscribe(world, func(w donburi.World, e arbor.InteractionEvent) {
		if e.EntityID != button.EntityID {
			t.Errorf("event for entity %d, want only %d", e.EntityID, button.EntityID)
		}
		got = append(got, e.Type)
	})

	pointers.Press(0, 100, 100)
	pointers.Update()
	r.Check(root)
	InteractionEventType.ProcessEvents(world)

	want := []arbor.EventType{arbor.EventPointOver, arbor.EventPointStart, arbor.EventPointStay}
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("events[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
