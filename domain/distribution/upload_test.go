package distribution

import "testing"

func TestMimeTypeFor(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/dl/clip.mp4", MimeTypeMP4},
		{"/dl/CLIP.MKV", MimeTypeMKV},
		{"/dl/song.opus", MimeTypeOpus},
		{"/dl/clip.en.vtt", MimeTypeVTT},
		{"/dl/thumb.webp", MimeTypeWebP},
		{"/dl/noext", MimeTypeDefault},
	}
	for _, tt := range tests {
		if got := MimeTypeFor(tt.path); got != tt.want {
			t.Errorf("MimeTypeFor(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestStorageInfo_HasSpaceFor(t *testing.T) {
	s := StorageInfo{TotalBytes: 100, UsedBytes: 60, AvailableBytes: 40}
	if !s.HasSpaceFor(40) {
		t.Error("expected room for 40 bytes")
	}
	if s.HasSpaceFor(41) {
		t.Error("expected no room for 41 bytes")
	}
}

func TestStorageInfo_Unlimited(t *testing.T) {
	s := StorageInfo{UsedBytes: 1 << 40}
	if !s.Unlimited() || !s.HasSpaceFor(1<<50) {
		t.Error("expected an account without limit to accept any size")
	}
}
