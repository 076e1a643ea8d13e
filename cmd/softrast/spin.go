package main

import "github.com/charmbracelet/harmonica"

// spinAxis is one rotation angle whose velocity eases back to zero.
type spinAxis struct {
	Angle    float64
	Velocity float64

	spring harmonica.Spring
	accel  float64 // Spring velocity of Velocity itself
}

func newSpinAxis(fps int) spinAxis {
	// Critically damped so the model settles without swinging back.
	return spinAxis{spring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0)}
}

// step advances the angle by one frame and decays the velocity.
func (a *spinAxis) step() {
	a.Angle += a.Velocity
	a.Velocity, a.accel = a.spring.Update(a.Velocity, a.accel, 0)
}

// spinState is the interactive pitch and yaw of the model.
type spinState struct {
	Pitch, Yaw spinAxis
	fps        int
}

func newSpinState(fps int) *spinState {
	s := &spinState{fps: fps}
	s.reset()
	return s
}

func (s *spinState) step() {
	s.Pitch.step()
	s.Yaw.step()
}

func (s *spinState) push(pitch, yaw float64) {
	s.Pitch.Velocity += pitch
	s.Yaw.Velocity += yaw
}

func (s *spinState) reset() {
	s.Pitch = newSpinAxis(s.fps)
	s.Yaw = newSpinAxis(s.fps)
}
