// Package arbor is the runtime core of a retained-mode 2D scene graph for
// [Ebitengine].
//
// A tree of [Node] values is updated, hit-tested against pointer input and
// rendered once per tick. Children inherit their parent's transform and
// alpha; every pass recomposes the cached world matrices top-down, so each
// pass always sees this tick's geometry.
//
// # Quick start
//
// The simplest way to get started is [Run], which opens a window and drives
// the frame loop:
//
//	root := arbor.NewNode("root")
//	// ... add nodes ...
//	if err := arbor.Run(root, arbor.DefaultRunConfig()); err != nil {
//		log.Fatal(err)
//	}
//
// Headless hosts create an [App] and call [App.Tick] with any [Surface],
// for example the gogpu/gg backed one in arbor/ggsurface.
//
// # Frame passes
//
// Each tick runs three pre-order passes over the tree:
//
//   - [FrameUpdater] fires [EventEnterFrame] and calls [Updater] hooks on
//     active nodes.
//   - [PointerReconciler] hit-tests interactive nodes against every pointer
//     and fires point-over, point-out, point-start, point-stay, point-move
//     and point-end events, then [EventClick] after a release.
//   - [SceneRenderer] applies world transform, alpha and blend mode to the
//     [Surface] and calls [Drawer] and [Clipper] hooks on visible nodes.
//
// Every pass iterates a copy of each child list, so listeners and hooks may
// add or remove nodes freely.
//
// # Behaviors and accessories
//
// A node's look and logic come from its behavior value (see
// [Node.SetBehavior]), which may implement [Updater], [Drawer] and
// [Clipper]. Reusable helpers such as [Draggable], [Flickable], [Physical]
// and the gween powered [TweenGroup] attach with [Node.Attach].
//
// Trees can also be described in YAML and built with [LoadScene].
//
// # Logging
//
// arbor is silent by default. Pass a [log/slog.Logger] to [SetLogger] to see
// lifecycle messages, warnings and, in debug mode, per-frame pass timings.
//
// [Ebitengine]: https://ebitengine.org
package arbor
