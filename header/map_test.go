package header

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{"equal", "Content-Type", "Content-Type", 0},
		{"case differs", "Content-Type", "cONTENT-tYPE", 0},
		{"prefix first", "Content", "content-type", -1},
		{"longer last", "content-type", "Content", 1},
		{"byte order", "Accept", "age", -1},
		{"folded before compare", "b", "A", 1},
		{"empty", "", "", 0},
		{"empty prefix", "", "x", -1},
		{"non ascii unchanged", "\xc3\x89", "\xc3\xa9", -1},
		{"punctuation", "X_A", "x-a", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compare(tt.a, tt.b))
			assert.Equal(t, -tt.want, Compare(tt.b, tt.a))
		})
	}
}

func TestEqualFold(t *testing.T) {
	assert.True(t, EqualFold("ETag", "etag"))
	assert.True(t, EqualFold("", ""))
	assert.False(t, EqualFold("ETag", "ETags"))
	assert.False(t, EqualFold("É", "é"))
}

func TestMapCaseInsensitiveIdentity(t *testing.T) {
	var m Map
	m.Set("Content-Type", "text/plain")

	for _, name := range []string{"content-type", "CONTENT-TYPE", "Content-type", "cOnTeNt-TyPe"} {
		v, ok := m.Get(name)
		require.True(t, ok, name)
		assert.Equal(t, "text/plain", v, name)
	}

	m.Set("content-type", "application/json")
	assert.Equal(t, 1, m.Len())
	assert.Equal(t, "application/json", m.Value("CONTENT-TYPE"))
	assert.Equal(t, []string{"Content-Type"}, m.Keys())
}

func TestMapDistinctNames(t *testing.T) {
	var m Map
	m.Set("X-A", "1")
	m.Set("x-b", "2")
	m.Set("X-A-B", "3")

	assert.Equal(t, 3, m.Len())
	assert.Equal(t, "1", m.Value("x-a"))
	assert.Equal(t, "2", m.Value("X-B"))
	assert.Equal(t, "3", m.Value("x-a-b"))
}

func TestMapMissing(t *testing.T) {
	var m Map
	v, ok := m.Get("Missing")
	assert.False(t, ok)
	assert.Empty(t, v)
	assert.False(t, m.Has("Missing"))
	assert.Equal(t, 0, m.Len())
}

func TestMapOrdered(t *testing.T) {
	var m Map
	m.Set("Server", "test")
	m.Set("accept", "*/*")
	m.Set("Date", "now")
	m.Set("Content-Length", "2")

	assert.Equal(t, []string{"accept", "Content-Length", "Date", "Server"}, m.Keys())

	var names []string
	for name := range m.All() {
		names = append(names, name)
		if len(names) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"accept", "Content-Length"}, names)
}

func TestMapAddDel(t *testing.T) {
	var m Map
	m.Add("Vary", "Accept")
	m.Add("vary", "Origin")
	assert.Equal(t, "Accept, Origin", m.Value("VARY"))

	m.Del("VARY")
	assert.False(t, m.Has("Vary"))
	m.Del("Vary")
	assert.Equal(t, 0, m.Len())
}

func TestMapClone(t *testing.T) {
	var m Map
	m.Set("A", "1")
	c := m.Clone()
	c.Set("a", "2")
	c.Set("B", "3")

	assert.Equal(t, "1", m.Value("A"))
	assert.Equal(t, 1, m.Len())
	assert.Equal(t, "2", c.Value("A"))
}

func TestMapHTTPConversion(t *testing.T) {
	h := http.Header{}
	h.Add("Set-Cookie", "a=1")
	h.Add("Set-Cookie", "b=2")
	h.Set("Content-Type", "text/plain")

	m := FromHTTP(h)
	assert.Equal(t, 2, m.Len())
	assert.Equal(t, "a=1, b=2", m.Value("set-cookie"))
	assert.Equal(t, "text/plain", m.Value("content-type"))

	back := m.ToHTTP()
	assert.Equal(t, "text/plain", back.Get("Content-Type"))
	assert.Equal(t, "a=1, b=2", back.Get("Set-Cookie"))
}

func TestMapString(t *testing.T) {
	var m Map
	m.Set("B", "2")
	m.Set("a", "1")
	assert.Equal(t, "a: 1\r\nB: 2\r\n", m.String())
}

func TestFromHTTPCaseVariantKeys(t *testing.T) {
	h := http.Header{
		"X-A": {"1"},
		"x-a": {"2"},
	}
	m := FromHTTP(h)
	require.Equal(t, 1, m.Len())

	v := m.Value("X-A")
	assert.Contains(t, []string{"1, 2", "2, 1"}, v)
}
