package benchmarks

import (
	"context"
	"fmt"
	"testing"

	"github.com/randalmurphal/fillkit/pkg/fillkit/format"
)

func items(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("item-%d", i)
	}
	return out
}

// BenchmarkFormat_Scalar formats padded scalars.
func BenchmarkFormat_Scalar(b *testing.B) {
	f := format.New(nil, format.DebugConfig{})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = f.Format("%10-s|%0+6.2f|%i", "name", 3.14159, 42)
	}
}

// BenchmarkFormat_List_10 formats a 10-element list.
func BenchmarkFormat_List_10(b *testing.B) {
	f := format.New(nil, format.DebugConfig{})
	list := items(10)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = f.Format("%[%s|;/, |&/ and ]s", list)
	}
}

// BenchmarkFormat_List_100 formats a 100-element list.
func BenchmarkFormat_List_100(b *testing.B) {
	f := format.New(nil, format.DebugConfig{})
	list := items(100)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = f.Format("%[%s|;/, |&/ and ]s", list)
	}
}

// BenchmarkFormat_KeyedMap formats a map with natural key width.
func BenchmarkFormat_KeyedMap(b *testing.B) {
	f := format.New(nil, format.DebugConfig{})
	m := map[string]int{}
	for i := 0; i < 20; i++ {
		m[fmt.Sprintf("key%d", i)] = i
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = f.Format("%{%(k)#-s=%(v)i|;/\n}s", m)
	}
}

// BenchmarkFormat_Nested formats through a nest template.
func BenchmarkFormat_Nested(b *testing.B) {
	f := format.New(map[string]string{"Full": "%(first)s %(last)s"}, format.DebugConfig{})
	args := map[string]any{"who": map[string]any{"first": "Rae", "last": "Kim"}}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = f.Format("%(who<<Full>>)s", args)
	}
}

// BenchmarkFormat_Replace formats with a search/replace option.
func BenchmarkFormat_Replace(b *testing.B) {
	f := format.New(nil, format.DebugConfig{})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = f.Format("%|=/[aeiou]/*|s", "the quick brown fox")
	}
}

// BenchmarkFormat_Parallel formats from many goroutines.
func BenchmarkFormat_Parallel(b *testing.B) {
	f := format.New(nil, format.DebugConfig{})
	list := items(10)
	ctx := context.Background()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_, _ = f.FormatContext(ctx, "%[%s|;/,]s", list)
		}
	})
}
