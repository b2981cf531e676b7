package logparser

import "testing"

func FuzzIterator(f *testing.F) {
	seeds := []string{
		"10:00:00.000-0,EVT,0,a=1,a=2,b=\"hi\"\n",
		"10:00:00.000-0,EVT,0,a=1\r\n",
		"10:00:00.000-0,EVT,0,a=,\n",
		`10:00:00.000-0,EVT,0,b="say ""hi"" now"` + "\n",
		"",
		"short",
		"10:00:00.000_0,EVT,0,a=1\n",
		`10:00:00.000-0,EVT,0,b="unterminated` + "\n",
		"10:00:00.000-0,EVT,0,a=1,,\n",
	}
	for _, s := range seeds {
		f.Add([]byte(s))
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		it := New(data)
		for {
			_, _, err, more := it.Next()
			if err != nil || !more {
				return
			}
		}
	})
}

func FuzzBuildFieldMap(f *testing.F) {
	seeds := []string{
		"10:00:00.000-0,EVT,0,a=1,a=2,b=\"hi\"\n",
		"00:00:00.-,,,\n",
	}
	for _, s := range seeds {
		f.Add([]byte(s))
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		// Should never panic, regardless of whether the bytes are
		// well-formed.
		BuildFieldMap(data)
	})
}
