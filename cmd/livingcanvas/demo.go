package main

import (
	"math"

	"github.com/opd-ai/livingcanvas/pkg/canvas"
)

// trailLength is the number of circles in the demo trail.
const trailLength = 20000

// orbitDemo draws a trail of translucent circles whose centres follow a
// Lissajous-like orbit. Each circle lags the previous one by 0.1ms of
// sketch time.
func orbitDemo(c *canvas.Canvas, now float64) {
	c.Clear(canvas.Gray(0.15))
	c.StrokeWidth(1)
	c.NoFill()

	for i := 0; i < trailLength; i++ {
		t := now - 0.0001*float64(i)
		c.Stroke(canvas.RGBA(
			math.Abs(math.Sin(t*3)),
			1,
			math.Abs(math.Sin(t)),
			0.125+(math.Sin(t)+1)*0.125,
		))
		x := 640 + math.Sin(t*3)*350 + math.Cos(t*1.5+math.Sin(t*7)*math.Cos(now/3.5)*5)*50
		y := 360 + math.Sin(t*5+math.Sin(now/7.9)*5)*250
		c.CircleXY(x, y, 40+math.Sin(t*4)*math.Cos(t*3.7)*30)
	}
}
