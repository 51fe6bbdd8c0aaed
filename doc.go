// Package heartfall is the interactive particle animation behind a "coming
// soon" landing page, built on [Ebitengine].
//
// Pressing and dragging the pointer spawns hearts that launch upward, fall
// under gravity, bounce off the floor and walls, settle, fade and disappear.
//
// # Quick start
//
// [Scene] implements [ebiten.Game] and wires everything together:
//
//	scene := heartfall.NewScene(heartfall.SceneConfig{})
//	if _, err := heartfall.BuildPage(scene, heartfall.PageOptions{}); err != nil {
//		log.Fatal(err)
//	}
//	defer scene.Close()
//	ebiten.RunGame(scene)
//
// # Engine
//
// [Engine] is the simulation core and has no dependency on a display. It
// owns the live particles and a [Pool] of drawing [Resource] values, and is
// driven by its host:
//
//	eng := heartfall.NewEngine(viewport, heartfall.WithAllocator(alloc))
//	eng.Spawn(x, y, profile)
//	eng.Tick(clock.Now())
//	eng.DestroyAll()
//
// Each tick applies gravity, integrates position, bounces off the floor and
// walls with profile-driven damping, settles grounded particles whose speed
// falls under a threshold, and fades particles out once their lifetime has
// passed. The live count never exceeds the profile's cap: the oldest
// particle is evicted to make room.
//
// # Input
//
// [Spawner] turns activate / move / deactivate input into throttled spawns
// and skips targets reported exempt by an [ExemptFunc], such as the
// contact button.
//
// # Device profiles
//
// A [DeviceProfile] is an immutable bundle of tuning constants. The
// [ProfileSet] selects mobile or desktop tuning by viewport width; defaults
// are embedded from profiles.yaml and can be overridden with
// [LoadProfiles].
//
// # Rendering
//
// [SpriteLayer] is the retained-mode backend: one pooled sprite node per
// particle. The term subpackage is an immediate-mode backend that redraws
// every particle into a terminal each frame.
//
// [Ebitengine]: https://ebitengine.org
package heartfall
