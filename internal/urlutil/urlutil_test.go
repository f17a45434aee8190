package urlutil

import (
	"fmt"
	"testing"

	"pgregory.net/rapid"

	"github.com/kuitang/screening-ui/internal/errs"
)

func TestBuildAbsolute_JoinsRelativePaths(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		host := rapid.StringMatching(`[a-z]{3,12}\.test`).Draw(rt, "host")
		slashes := rapid.StringMatching(`/{0,3}`).Draw(rt, "slashes")
		seg := rapid.StringMatching(`[a-z]{1,8}`).Draw(rt, "seg")
		base := "https://" + host + slashes

		want := fmt.Sprintf("https://%s/%s", host, seg)
		if got := BuildAbsolute(base, seg); got != want {
			rt.Fatalf("BuildAbsolute(%q, %q) = %q, want %q", base, seg, got, want)
		}
		if got := BuildAbsolute(base, "/"+seg); got != want {
			rt.Fatalf("BuildAbsolute(%q, %q) = %q, want %q", base, "/"+seg, got, want)
		}
	})
}

func TestBuildAbsolute_KeepsAbsoluteURLs(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		abs := rapid.SampledFrom([]string{
			"http://127.0.0.1:8080/flat.html",
			"https://screening.example.test/book",
			"file:///tmp/fixture.html",
		}).Draw(rt, "abs")
		if got := BuildAbsolute("https://ignored.test", abs); got != abs {
			rt.Fatalf("absolute URL rewritten: %q", got)
		}
	})
}

func TestResolve(t *testing.T) {
	cases := []struct {
		base, path string
		want       string
		code       errs.Code
	}{
		{"https://a.test/", "book", "https://a.test/book", ""},
		{"", "http://127.0.0.1:9/x", "http://127.0.0.1:9/x", ""},
		{"", "", "", errs.InvalidArgument},
		{"", "book", "", errs.InvalidArgument},
		{"ftp://a.test", "x", "", errs.InvalidArgument},
		{"http://", "", "", errs.InvalidArgument},
	}
	for _, tc := range cases {
		got, err := Resolve(tc.base, tc.path)
		if tc.code == "" {
			if err != nil || got != tc.want {
				t.Fatalf("Resolve(%q, %q) = %q, %v; want %q", tc.base, tc.path, got, err, tc.want)
			}
			continue
		}
		if errs.CodeOf(err) != tc.code {
			t.Fatalf("Resolve(%q, %q) error = %v, want code %s", tc.base, tc.path, err, tc.code)
		}
	}
}
