// Package ecs provides ECS adapters for arbor's pointer events.
//
// The primary adapter is [NewDonburiStore], which bridges the transitions
// reported by arbor's PointerReconciler (over, out, start, stay, move, end)
// into a [Donburi] world as typed events. Only nodes with a non-zero
// EntityID are forwarded. Subscribe to [InteractionEventType] in your ECS
// systems to receive them.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	app.SetEntityStore(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
