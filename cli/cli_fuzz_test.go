package cli

import (
	"testing"
	"time"
)

func FuzzParseRelativeTime(f *testing.F) {
	f.Add("now")
	f.Add("now-1s")
	f.Add("now-1000w")
	f.Add("now-")
	f.Add("")
	f.Add("now-5x")
	f.Add("bogus")

	f.Fuzz(func(t *testing.T, spec string) {
		// Must not panic on any input.
		parseRelativeTime(spec, time.Now())
	})
}
