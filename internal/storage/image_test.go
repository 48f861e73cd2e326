package storage

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	return buf.Bytes()
}

func TestProcessAvatarImage_PNGToJPEG(t *testing.T) {
	out, ct, size, err := ProcessAvatarImage(bytes.NewReader(encodePNG(t, 120, 60)), DefaultAvatarOptions())
	if err != nil {
		t.Fatalf("ProcessAvatarImage: %v", err)
	}
	if ct != "image/jpeg" {
		t.Fatalf("content type = %q, want image/jpeg", ct)
	}
	if size != int64(len(out)) {
		t.Fatalf("size = %d, want %d", size, len(out))
	}
	if _, err := jpeg.Decode(bytes.NewReader(out)); err != nil {
		t.Fatalf("output is not valid JPEG: %v", err)
	}
}

func TestProcessAvatarImage_SquareCrop(t *testing.T) {
	out, _, _, err := ProcessAvatarImage(bytes.NewReader(encodePNG(t, 120, 60)), DefaultAvatarOptions())
	if err != nil {
		t.Fatalf("ProcessAvatarImage: %v", err)
	}
	decoded, err := jpeg.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("jpeg decode: %v", err)
	}
	b := decoded.Bounds()
	if b.Dx() != b.Dy() {
		t.Fatalf("output %dx%d, want square", b.Dx(), b.Dy())
	}
	if b.Dx() != 60 {
		t.Fatalf("output side = %d, want 60 (no upscaling)", b.Dx())
	}
}

func TestProcessAvatarImage_Downscale(t *testing.T) {
	opts := DefaultAvatarOptions()
	opts.MaxDim = 100

	out, _, _, err := ProcessAvatarImage(bytes.NewReader(encodePNG(t, 400, 400)), opts)
	if err != nil {
		t.Fatalf("ProcessAvatarImage: %v", err)
	}
	decoded, err := jpeg.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("jpeg decode: %v", err)
	}
	if got := decoded.Bounds().Dx(); got != 100 {
		t.Fatalf("width = %d, want 100", got)
	}
}

func TestProcessAvatarImage_TooLarge(t *testing.T) {
	opts := DefaultAvatarOptions()
	opts.MaxBytes = 64

	_, _, _, err := ProcessAvatarImage(bytes.NewReader(encodePNG(t, 200, 200)), opts)
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("err = %v, want ErrTooLarge", err)
	}
}

func TestProcessAvatarImage_Unsupported(t *testing.T) {
	data := []byte("GIF89a and then some trailing bytes")
	_, _, _, err := ProcessAvatarImage(bytes.NewReader(data), DefaultAvatarOptions())
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("err = %v, want ErrUnsupported", err)
	}
}

func TestSafeJoinAvatarPath(t *testing.T) {
	tests := []struct {
		name    string
		prefix  string
		key     string
		want    string
		wantErr bool
	}{
		{name: "plain", key: "avatars/1/abc.jpg", want: "avatars/1/abc.jpg"},
		{name: "leading slash", key: "/avatars/1/abc.jpg", want: "avatars/1/abc.jpg"},
		{name: "with prefix", prefix: "avatars", key: "1/abc.jpg", want: "avatars/1/abc.jpg"},
		{name: "traversal", key: "../secrets", wantErr: true},
		{name: "backslash", key: "avatars\\1.jpg", wantErr: true},
		{name: "empty", key: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SafeJoinAvatarPath(tt.prefix, tt.key)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("SafeJoinAvatarPath: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}
