/*
Package format renders printf-like templates whose directives can iterate
lists and maps, look up named values, and decorate what they print.

# Directives

	%s %5.2f %!i          scalar: the next scalar argument
	%[inner]s             list: inner once per element of the next list
	%{inner}s             keyed map: inner once per entry, against {k, v}
	%(name)s %([a,b])s    named: keys of the trailing map argument
	%(who<<Full>>)s       named, rendered through the "Full" nest template
	%%                    a literal percent sign

A ! after the % makes the directive strict: values of the wrong type and
empty results render as nothing instead of passing through.

Types are s (text), d (date), i (integer), f (float), b (boolean),
a (list), o (object) and r (raw source form). Floats take a precision
(%.2f) and dates a strftime layout (%.<%Y-%m-%d>d, with $ allowed for %).

# Options

Options sit before the closing bracket, or before a trailing | in a
scalar directive:

	|-/prefix  |+/suffix  |;/delimiter  |&/last delimiter
	|^/U       case: U, L, T (title) or S (sentence)
	|@C/red    color; @B background, @S style, @F any of them
	|=/pat/rep search and replace, pat compiled with the pattern package
	|#>/M      pad only elements past index M (|#</M: before it)

Brackets and pipes inside a value are doubled unless they balance.
Prefix and suffix are templates themselves, formatted against the value.

# Padding

Between the brackets (or options) and the type: an optional fill
character and +, a width or # for the widest sibling element, an optional
direction (- left-justifies, + centers), and an optional index clamp such
as {#>} or {#>0,#<-1}.

	f := format.New(nil, format.DebugConfig{})
	out, _ := f.Format("%[%s|;/, |&/ and ]s!", []string{"red", "green", "blue"})
	// out: "red, green and blue!"
*/
package format
