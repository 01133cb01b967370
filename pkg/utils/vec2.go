package utils

import "math"

// Vec2 二维向量（布局空间，单位像素）
// 值类型，所有运算返回新向量
type Vec2 struct {
	X, Y float64
}

// Add 向量加法
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

// Sub 向量减法
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v.X - o.X, v.Y - o.Y}
}

// Scale 数乘
func (v Vec2) Scale(f float64) Vec2 {
	return Vec2{v.X * f, v.Y * f}
}

// Mag 向量长度
func (v Vec2) Mag() float64 {
	return math.Hypot(v.X, v.Y)
}

// Dist 两点距离
func (v Vec2) Dist(o Vec2) float64 {
	return math.Hypot(v.X-o.X, v.Y-o.Y)
}

// Normalize 返回单位向量，零向量返回零向量
func (v Vec2) Normalize() Vec2 {
	m := v.Mag()
	if m == 0 {
		return Vec2{}
	}
	return Vec2{v.X / m, v.Y / m}
}

// SetMag 保持方向，将长度设置为 m
func (v Vec2) SetMag(m float64) Vec2 {
	return v.Normalize().Scale(m)
}

// Limit 长度超过 max 时截断到 max，方向不变
func (v Vec2) Limit(max float64) Vec2 {
	m := v.Mag()
	if m <= max || m == 0 {
		return v
	}
	return v.Scale(max / m)
}

// IsZero 是否为零向量
func (v Vec2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}
