package lua

import (
	"fmt"
	"image/color"
	"math"

	rt "github.com/arnodel/golua/runtime"

	"github.com/opd-ai/livingcanvas/internal/render"
)

// Painter is the drawing surface a sketch paints on. *canvas.Canvas
// implements it.
type Painter interface {
	Fill(c color.Color)
	NoFill()
	Stroke(c color.Color)
	NoStroke()
	StrokeWidth(width float64)
	Clear(c color.Color)
	Rect(x, y, w, h float64)
	CircleXY(x, y, r float64)
	Time() float64
	ToLogical(x, y float64) render.Vec2
}

// bindings exposes a Painter to Lua as global functions:
//
//	fill(r, g, b [, a]) | fill(gray [, a]) | fill("#rrggbb")
//	no_fill()
//	stroke(...)        same colour forms as fill
//	no_stroke()
//	stroke_width(w)
//	clear(...)         same colour forms as fill
//	rect(x, y, w, h)
//	circle(x, y, r)
//	time()             seconds since start
//	to_logical(x, y)   window pixels to canvas units
//	clamp(x, lo, hi), fract(x), lerp(a, b, t)
//
// Colour components are in 0..1. Coordinates are in logical canvas units
// (1280x720), available as WIDTH and HEIGHT.
type bindings struct {
	painter Painter
}

func registerBindings(r *Runtime, p Painter) {
	b := &bindings{painter: p}

	r.SetGoFunction("fill", b.fill, 0, true)
	r.SetGoFunction("no_fill", b.noFill, 0, false)
	r.SetGoFunction("stroke", b.stroke, 0, true)
	r.SetGoFunction("no_stroke", b.noStroke, 0, false)
	r.SetGoFunction("stroke_width", b.strokeWidth, 1, false)
	r.SetGoFunction("clear", b.clear, 0, true)
	r.SetGoFunction("rect", b.rect, 4, false)
	r.SetGoFunction("circle", b.circle, 3, false)
	r.SetGoFunction("time", b.time, 0, false)
	r.SetGoFunction("to_logical", b.toLogical, 2, false)

	r.SetGoFunction("clamp", clampLua, 3, false)
	r.SetGoFunction("fract", fractLua, 1, false)
	r.SetGoFunction("lerp", lerpLua, 3, false)

	r.SetGlobal("WIDTH", rt.IntValue(render.LogicalWidth))
	r.SetGlobal("HEIGHT", rt.IntValue(render.LogicalHeight))
}

func (b *bindings) fill(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
	col, err := colorArgs(getAllArgs(c))
	if err != nil {
		return nil, fmt.Errorf("fill: %w", err)
	}
	b.painter.Fill(col)
	return c.Next(), nil
}

func (b *bindings) noFill(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
	b.painter.NoFill()
	return c.Next(), nil
}

func (b *bindings) stroke(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
	col, err := colorArgs(getAllArgs(c))
	if err != nil {
		return nil, fmt.Errorf("stroke: %w", err)
	}
	b.painter.Stroke(col)
	return c.Next(), nil
}

func (b *bindings) noStroke(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
	b.painter.NoStroke()
	return c.Next(), nil
}

func (b *bindings) strokeWidth(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
	w, err := getFloatArg(getAllArgs(c), 0)
	if err != nil {
		return nil, fmt.Errorf("stroke_width: %w", err)
	}
	b.painter.StrokeWidth(w)
	return c.Next(), nil
}

func (b *bindings) clear(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
	col, err := colorArgs(getAllArgs(c))
	if err != nil {
		return nil, fmt.Errorf("clear: %w", err)
	}
	if err := guard(func() { b.painter.Clear(col) }); err != nil {
		return nil, fmt.Errorf("clear: %w", err)
	}
	return c.Next(), nil
}

func (b *bindings) rect(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
	v, err := getFloatArgs(getAllArgs(c), 4)
	if err != nil {
		return nil, fmt.Errorf("rect: %w", err)
	}
	if err := guard(func() { b.painter.Rect(v[0], v[1], v[2], v[3]) }); err != nil {
		return nil, fmt.Errorf("rect: %w", err)
	}
	return c.Next(), nil
}

func (b *bindings) circle(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
	v, err := getFloatArgs(getAllArgs(c), 3)
	if err != nil {
		return nil, fmt.Errorf("circle: %w", err)
	}
	if err := guard(func() { b.painter.CircleXY(v[0], v[1], v[2]) }); err != nil {
		return nil, fmt.Errorf("circle: %w", err)
	}
	return c.Next(), nil
}

func (b *bindings) time(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
	return c.PushingNext1(t.Runtime, rt.FloatValue(b.painter.Time())), nil
}

func (b *bindings) toLogical(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
	v, err := getFloatArgs(getAllArgs(c), 2)
	if err != nil {
		return nil, fmt.Errorf("to_logical: %w", err)
	}
	p := b.painter.ToLogical(v[0], v[1])
	return c.PushingNext(t.Runtime, rt.FloatValue(p.X), rt.FloatValue(p.Y)), nil
}

func clampLua(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
	v, err := getFloatArgs(getAllArgs(c), 3)
	if err != nil {
		return nil, fmt.Errorf("clamp: %w", err)
	}
	return c.PushingNext1(t.Runtime, rt.FloatValue(math.Min(math.Max(v[0], v[1]), v[2]))), nil
}

func fractLua(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
	x, err := getFloatArg(getAllArgs(c), 0)
	if err != nil {
		return nil, fmt.Errorf("fract: %w", err)
	}
	return c.PushingNext1(t.Runtime, rt.FloatValue(x-math.Floor(x))), nil
}

func lerpLua(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
	v, err := getFloatArgs(getAllArgs(c), 3)
	if err != nil {
		return nil, fmt.Errorf("lerp: %w", err)
	}
	return c.PushingNext1(t.Runtime, rt.FloatValue((v[1]-v[0])*v[2]+v[0])), nil
}

// guard runs a drawing call and turns a panic, such as drawing outside a
// frame, into an error that Lua can report.
func guard(draw func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
				return
			}
			err = fmt.Errorf("%v", r)
		}
	}()
	draw()
	return nil
}

// colorArgs converts Lua arguments to a colour. Accepted forms are a
// colour string, (gray), (gray, a), (r, g, b) and (r, g, b, a) with
// components in 0..1.
func colorArgs(args []rt.Value) (color.NRGBA, error) {
	if len(args) == 1 {
		if s, ok := args[0].TryString(); ok {
			return render.ParseColor(s)
		}
	}

	v, err := getFloatArgs(args, len(args))
	if err != nil {
		return color.NRGBA{}, err
	}
	switch len(v) {
	case 1:
		return render.UnitColor(v[0], v[0], v[0], 1), nil
	case 2:
		return render.UnitColor(v[0], v[0], v[0], v[1]), nil
	case 3:
		return render.UnitColor(v[0], v[1], v[2], 1), nil
	case 4:
		return render.UnitColor(v[0], v[1], v[2], v[3]), nil
	default:
		return color.NRGBA{}, fmt.Errorf("expected a colour string or 1 to 4 numbers, got %d arguments", len(v))
	}
}

// getAllArgs collects both fixed and variadic arguments from a GoCont.
func getAllArgs(c *rt.GoCont) []rt.Value {
	return append(c.Args(), c.Etc()...)
}

// getFloatArg gets a float argument from the combined args slice.
func getFloatArg(args []rt.Value, idx int) (float64, error) {
	if idx >= len(args) {
		return 0, fmt.Errorf("argument %d out of range (have %d)", idx, len(args))
	}
	if f, ok := args[idx].TryFloat(); ok {
		return f, nil
	}
	if i, ok := args[idx].TryInt(); ok {
		return float64(i), nil
	}
	return 0, fmt.Errorf("argument %d is not a number", idx)
}

// getFloatArgs gets the first n arguments as floats.
func getFloatArgs(args []rt.Value, n int) ([]float64, error) {
	out := make([]float64, n)
	for i := range out {
		f, err := getFloatArg(args, i)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}
