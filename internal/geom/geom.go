package geom

import "math"

// Vec3 is a world-space position or direction. Y is up; rooms lie on the XZ plane.
type Vec3 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

func V(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vec3) Len() float64 {
	return math.Sqrt(v.Dot(v))
}

// Dist is the euclidean distance between two points.
func (v Vec3) Dist(o Vec3) float64 {
	return v.Sub(o).Len()
}

// Normalize returns the unit vector of v, or the zero vector when v has no length.
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l == 0 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// Lerp interpolates each component independently.
func (v Vec3) Lerp(to Vec3, t float64) Vec3 {
	return Vec3{
		Lerp(v.X, to.X, t),
		Lerp(v.Y, to.Y, t),
		Lerp(v.Z, to.Z, t),
	}
}

// Positioner is the only thing the core needs from a scene object.
type Positioner interface {
	Position() Vec3
}

// Fixed is a Positioner that never moves.
type Fixed Vec3

func (f Fixed) Position() Vec3 {
	return Vec3(f)
}

// Bounds is an axis-aligned rectangle on the XZ plane.
type Bounds struct {
	MinX float64 `yaml:"min_x"`
	MaxX float64 `yaml:"max_x"`
	MinZ float64 `yaml:"min_z"`
	MaxZ float64 `yaml:"max_z"`
}

// Room builds the bounds of a width×depth room centred on origin.
func Room(origin Vec3, width, depth float64) Bounds {
	return Bounds{
		MinX: origin.X - width/2,
		MaxX: origin.X + width/2,
		MinZ: origin.Z - depth/2,
		MaxZ: origin.Z + depth/2,
	}
}

// Clamp keeps X and Z inside b. Y passes through.
func (b Bounds) Clamp(v Vec3) Vec3 {
	return Vec3{
		X: Clamp(v.X, b.MinX, b.MaxX),
		Y: v.Y,
		Z: Clamp(v.Z, b.MinZ, b.MaxZ),
	}
}

func (b Bounds) Contains(v Vec3) bool {
	return v.X >= b.MinX && v.X <= b.MaxX && v.Z >= b.MinZ && v.Z <= b.MaxZ
}

func (b Bounds) Width() float64 { return b.MaxX - b.MinX }
func (b Bounds) Depth() float64 { return b.MaxZ - b.MinZ }

// Ray is a half-line. Dir is expected to be normalized.
type Ray struct {
	Origin Vec3
	Dir    Vec3
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Dir.Scale(t))
}

// ClosestPoint returns the point on the ray nearest to p. Points behind the
// origin project onto the origin.
func (r Ray) ClosestPoint(p Vec3) Vec3 {
	t := p.Sub(r.Origin).Dot(r.Dir)
	if t < 0 {
		return r.Origin
	}
	return r.At(t)
}

// DistanceTo is the distance from p to the nearest point of the ray.
func (r Ray) DistanceTo(p Vec3) float64 {
	return r.ClosestPoint(p).Dist(p)
}

func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// EaseInOutQuad maps [0,1] onto [0,1] with zero slope at both ends.
func EaseInOutQuad(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return 1 - math.Pow(-2*t+2, 2)/2
}

// Heading converts a yaw angle into a unit direction on the XZ plane.
// Yaw 0 faces +Z, yaw π faces -Z.
func Heading(yaw float64) Vec3 {
	return Vec3{X: math.Sin(yaw), Z: math.Cos(yaw)}
}

// Yaw is the inverse of Heading for a non-zero XZ direction.
func Yaw(dx, dz float64) float64 {
	return math.Atan2(dx, dz)
}
