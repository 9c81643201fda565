package geometry

import "math"

// Default layout constants.
const (
	DefaultMinWidth       = 300
	DefaultMinHeight      = 350
	DefaultWidthFraction  = 0.4
	DefaultHeightFraction = 0.8

	MobileBreakpoint     = 768
	MobileWidthFraction  = 0.9
	MobileHeightFraction = 0.7
	MobileTopOffset      = 0.1

	// Desktop placement sits left of and above centre on purpose.
	DesktopHorizontalDivisor = 5
	DesktopVerticalDivisor   = 4
)

// DeviceClass selects the placement rules for a viewport.
type DeviceClass int

const (
	DeviceDesktop DeviceClass = iota
	DeviceMobile
)

// String returns the string representation of the device class
func (d DeviceClass) String() string {
	switch d {
	case DeviceDesktop:
		return "desktop"
	case DeviceMobile:
		return "mobile"
	default:
		return "unknown"
	}
}

// Placement holds every constant used to compute the initial window layout.
type Placement struct {
	MinSize        Size    `yaml:"min_size"`
	WidthFraction  float64 `yaml:"width_fraction"`
	HeightFraction float64 `yaml:"height_fraction"`

	MobileBreakpoint     float64 `yaml:"mobile_breakpoint"`
	MobileWidthFraction  float64 `yaml:"mobile_width_fraction"`
	MobileHeightFraction float64 `yaml:"mobile_height_fraction"`
	MobileTopOffset      float64 `yaml:"mobile_top_offset"`

	DesktopHorizontalDivisor float64 `yaml:"desktop_horizontal_divisor"`
	DesktopVerticalDivisor   float64 `yaml:"desktop_vertical_divisor"`
}

// DefaultPlacement returns the stock widget placement.
func DefaultPlacement() Placement {
	return Placement{
		MinSize:                  Size{Width: DefaultMinWidth, Height: DefaultMinHeight},
		WidthFraction:            DefaultWidthFraction,
		HeightFraction:           DefaultHeightFraction,
		MobileBreakpoint:         MobileBreakpoint,
		MobileWidthFraction:      MobileWidthFraction,
		MobileHeightFraction:     MobileHeightFraction,
		MobileTopOffset:          MobileTopOffset,
		DesktopHorizontalDivisor: DesktopHorizontalDivisor,
		DesktopVerticalDivisor:   DesktopVerticalDivisor,
	}
}

// Classify returns the device class for a viewport. A touch-capable pointer
// forces the mobile class regardless of width.
func (p Placement) Classify(vp Viewport, touch bool) DeviceClass {
	if touch || vp.Width < p.MobileBreakpoint {
		return DeviceMobile
	}
	return DeviceDesktop
}

// InitialLayout computes the starting position and size for vp. It returns
// false when the viewport has not been measured yet; the caller must retry
// once real dimensions are known.
//
// The size is never below MinSize even if that overflows a tiny viewport.
func (p Placement) InitialLayout(vp Viewport, touch bool) (Layout, bool) {
	if !vp.Measured() {
		return Layout{}, false
	}

	class := p.Classify(vp, touch)
	wf, hf := p.WidthFraction, p.HeightFraction
	if class == DeviceMobile {
		wf, hf = p.MobileWidthFraction, p.MobileHeightFraction
	}

	size := Size{
		Width:  math.Max(p.MinSize.Width, math.Floor(vp.Width*wf)),
		Height: math.Max(p.MinSize.Height, math.Floor(vp.Height*hf)),
	}

	var pos Position
	if class == DeviceMobile {
		pos = Position{
			X: math.Floor((vp.Width - size.Width) / 2),
			Y: math.Floor(vp.Height * p.MobileTopOffset),
		}
	} else {
		pos = Position{
			X: math.Floor((vp.Width - size.Width) / p.DesktopHorizontalDivisor),
			Y: math.Floor((vp.Height - size.Height) / p.DesktopVerticalDivisor),
		}
	}

	return Layout{Position: pos, Size: size}, true
}

// ComputeInitialLayout computes the initial layout with the stock mobile and
// desktop rules and the caller's minimum size and fractions.
func ComputeInitialLayout(vp Viewport, minSize Size, widthFraction, heightFraction float64, touch bool) (Layout, bool) {
	p := DefaultPlacement()
	p.MinSize = minSize
	p.WidthFraction = widthFraction
	p.HeightFraction = heightFraction
	return p.InitialLayout(vp, touch)
}
