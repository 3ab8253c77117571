package core

import "testing"

func TestPointValid(t *testing.T) {
	tests := []struct {
		name  string
		point Point
		want  bool
	}{
		{"center", Point{0.5, 0.5}, true},
		{"origin", Point{0, 0}, true},
		{"bottom right", Point{1, 1}, true},
		{"x too large", Point{1.2, 0.5}, false},
		{"negative y", Point{0.5, -0.1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.point.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestToPixels(t *testing.T) {
	tests := []struct {
		name   string
		point  Point
		want   PixelPoint
		width  int
		height int
	}{
		{"center", Point{0.5, 0.5}, PixelPoint{540, 960}, 1080, 1920},
		{"origin", Point{0, 0}, PixelPoint{0, 0}, 1080, 1920},
		{"edge clamps inside", Point{1, 1}, PixelPoint{1079, 1919}, 1080, 1920},
		{"quarter", Point{0.25, 0.75}, PixelPoint{270, 1440}, 1080, 1920},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.point.ToPixels(tt.width, tt.height)
			if got != tt.want {
				t.Errorf("ToPixels() = %v, want %v", got, tt.want)
			}
			if !got.In(tt.width, tt.height) {
				t.Errorf("ToPixels() = %v outside %dx%d", got, tt.width, tt.height)
			}
		})
	}
}

func TestPixelPointIn(t *testing.T) {
	if !(PixelPoint{0, 0}).In(100, 100) {
		t.Error("origin should be inside")
	}
	if (PixelPoint{100, 50}).In(100, 100) {
		t.Error("x == width should be outside")
	}
	if (PixelPoint{-1, 50}).In(100, 100) {
		t.Error("negative x should be outside")
	}
}
