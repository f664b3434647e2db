package helper

import "testing"

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"photo.jpg", "photo.jpg"},
		{"my photo (1).jpg", "my_photo_1_.jpg"},
		{"../../etc/passwd", ".._.._etc_passwd"},
		{"রাহিম.png", "_.png"},
		{"", "file"},
		{".", "file"},
	}
	for _, tc := range cases {
		if got := SanitizeFilename(tc.in); got != tc.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestExtractKeyFromPublicURL(t *testing.T) {
	t.Setenv("ALI_OSS_PUBLIC_BASE", "")

	key, err := ExtractKeyFromPublicURL("https://bucket.oss-ap-southeast-5.aliyuncs.com/uploads/AS40-2026-123456-photo-p.jpg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key != "uploads/AS40-2026-123456-photo-p.jpg" {
		t.Errorf("key = %q", key)
	}

	if _, err := ExtractKeyFromPublicURL(""); err == nil {
		t.Error("empty url must fail")
	}
}

func TestExtractKeyHonorsPublicBase(t *testing.T) {
	t.Setenv("ALI_OSS_PUBLIC_BASE", "https://cdn.ajmalsuper40.in")

	key, err := ExtractKeyFromPublicURL("https://cdn.ajmalsuper40.in/uploads/AS40-2026-123456-signature-s.png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key != "uploads/AS40-2026-123456-signature-s.png" {
		t.Errorf("key = %q", key)
	}
}
