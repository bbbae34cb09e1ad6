package benchmarks

import (
	"fmt"
	"testing"

	"github.com/randalmurphal/fillkit/pkg/fillkit/pattern"
)

// largeVars builds a grammar whose Line variable references every field.
func largeVars() pattern.Vars {
	fields := pattern.Vars{}
	line := ""
	for i := 0; i < 50; i++ {
		name := fmt.Sprintf("F%d", i)
		fields[name] = `<ab/^/cd>{2}\d+`
		if i > 0 {
			line += ","
		}
		line += "{{Field." + name + "}}"
	}
	return pattern.Vars{"Field": fields, "Line": line}
}

// BenchmarkCompile_Plain compiles a pattern with no variables or macros.
func BenchmarkCompile_Plain(b *testing.B) {
	c := pattern.NewCompiler(nil)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = c.Compile(`\d+(?:\.\d+)?`)
	}
}

// BenchmarkCompile_Macros compiles wraps, escapes and repeats.
func BenchmarkCompile_Macros(b *testing.B) {
	c := pattern.NewCompiler(nil)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = c.Compile(`<ab/^/cd></x/%/3/>`)
	}
}

// BenchmarkCompile_LargeGrammar expands 50 nested variables.
func BenchmarkCompile_LargeGrammar(b *testing.B) {
	c := pattern.NewCompiler(largeVars())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = c.Compile("{{Line}}")
	}
}

// BenchmarkCached measures registry hits.
func BenchmarkCached(b *testing.B) {
	c := pattern.NewCompiler(largeVars())
	_, _ = c.Cached("{{Line}}")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = c.Cached("{{Line}}")
	}
}

// BenchmarkNewCompiler measures variable store construction.
func BenchmarkNewCompiler(b *testing.B) {
	vars := largeVars()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = pattern.NewCompiler(vars)
	}
}
