// Package canvas is a minimal creative-coding canvas.
//
// A Canvas owns one window and exposes a small immediate-mode drawing API:
// paint state (fill colour, stroke colour, stroke width) plus rectangle and
// circle primitives. Sketch code draws in a fixed logical space of
// 1280x720 units; the canvas scales and centres that space inside the
// actual window without stretching.
//
// Drawing is only valid inside a Frame handler, on the goroutine that
// called Run:
//
//	c, err := canvas.New(&canvas.Options{Width: 1280, Height: 720})
//	if err != nil {
//		log.Fatal(err)
//	}
//	c.OnFrame(func(c *canvas.Canvas, t float64) {
//		c.Clear(canvas.Gray(0.15))
//		c.Fill(canvas.RGB(1, 0.5, 0))
//		c.CircleXY(640+math.Sin(t)*300, 360, 40)
//	})
//	c.OnClick(func(c *canvas.Canvas, e canvas.ClickEvent) {
//		log.Printf("click (%v, %v) at %v", e.X, e.Y, e.Time)
//	})
//	if err := c.Run(); err != nil {
//		log.Fatal(err)
//	}
//
// Click coordinates are raw physical window pixels. Use ToLogical to map
// them into drawing space.
package canvas
