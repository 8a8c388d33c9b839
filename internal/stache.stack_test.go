package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Minimal Value implementations for exercising the stack and renderer
// without depending on the public adapters.

type testStr string

func (s testStr) Kind() Kind              { return KindString }
func (s testStr) Truthy() bool            { return len(s) > 0 }
func (s testStr) Render() (string, error) { return string(s), nil }

type testBool bool

func (b testBool) Kind() Kind   { return KindBool }
func (b testBool) Truthy() bool { return bool(b) }
func (b testBool) Render() (string, error) {
	if b {
		return "true", nil
	}
	return "false", nil
}

type testNull struct{}

func (testNull) Kind() Kind              { return KindNull }
func (testNull) Truthy() bool            { return false }
func (testNull) Render() (string, error) { return "", nil }

type testList []Value

func (l testList) Kind() Kind              { return KindSequence }
func (l testList) Truthy() bool            { return len(l) > 0 }
func (l testList) Render() (string, error) { return "", nil }
func (l testList) Items() []Value          { return l }

type testMap map[string]Value

func (m testMap) Kind() Kind              { return KindMapping }
func (m testMap) Truthy() bool            { return true }
func (m testMap) Render() (string, error) { return "", nil }
func (m testMap) Child(key string) (Value, bool) {
	v, ok := m[key]
	return v, ok
}

type testLambda func(raw string, stack *Stack) Value

func (f testLambda) Kind() Kind              { return KindCallable }
func (f testLambda) Truthy() bool            { return true }
func (f testLambda) Render() (string, error) { return "", nil }
func (f testLambda) CallSection(raw string, stack *Stack) Value {
	return f(raw, stack)
}

// personRoot mirrors the shape used across the lookup tests: a mapping
// with scalars, a sequence of mappings, a sequence of scalars and a
// nested mapping.
func personRoot() Value {
	return testMap{
		"name": testStr("John Doe"),
		"age":  testStr("43"),
		"phones": testList{
			testMap{"prefix": testStr("+44"), "extension": testStr("1234567")},
			testMap{"prefix": testStr("+44"), "extension": testStr("2345678")},
		},
		"stuff": testList{testStr("item1"), testStr("item2")},
		"obj": testMap{
			"part1": testStr("xxx"),
			"part2": testStr("yyy"),
		},
	}
}

func lookupText(t *testing.T, st *Stack, path string) string {
	t.Helper()
	v, ok := st.LookupPath(path)
	require.True(t, ok, "path %q should resolve", path)
	s, err := v.Render()
	require.NoError(t, err)
	return s
}

func TestStack_BasicAccess(t *testing.T) {
	st := NewStack(personRoot())

	assert.Equal(t, "John Doe", lookupText(t, st, "name"))
	assert.Equal(t, "43", lookupText(t, st, "age"))

	_, ok := st.LookupPath("xxx")
	assert.False(t, ok)
}

func TestStack_InnerFrameWins(t *testing.T) {
	root := personRoot()
	st := NewStack(root)

	phones, ok := st.LookupPath("phones")
	require.True(t, ok)
	first := itemsOf(phones)[0]

	inner := st.Push(first)
	assert.Equal(t, "+44", lookupText(t, inner, "prefix"))
	// Names absent from the inner frame fall back to the outer one.
	assert.Equal(t, "John Doe", lookupText(t, inner, "name"))
	// The outer stack is untouched.
	_, ok = st.LookupPath("prefix")
	assert.False(t, ok)
}

func TestStack_DottedFromTop(t *testing.T) {
	st := NewStack(personRoot())
	assert.Equal(t, "yyy", lookupText(t, st, "obj.part2"))
}

func TestStack_DottedAfterPush(t *testing.T) {
	root := personRoot()
	st := NewStack(root)
	phones, _ := st.LookupPath("phones")
	inner := st.Push(itemsOf(phones)[0])

	// The first segment backtracks through frames; the rest of the
	// chain does not.
	assert.Equal(t, "yyy", lookupText(t, inner, "obj.part2"))
}

func TestStack_BrokenChain(t *testing.T) {
	st := NewStack(personRoot())

	_, ok := st.LookupPath("obj.part1.part2")
	assert.False(t, ok)

	_, ok = st.LookupPath("obj.missing")
	assert.False(t, ok)
}

func TestStack_NoFallbackPastFirstSegment(t *testing.T) {
	// A frame mapping with "b" but no "c" under it must not fall back
	// to an outer "b.c".
	root := testMap{
		"a": testMap{"b": testMap{}},
		"b": testMap{"c": testStr("ERROR")},
	}
	st := NewStack(root)
	a, ok := st.LookupPath("a")
	require.True(t, ok)
	inner := st.Push(a)

	_, ok = inner.LookupPath("b.c")
	assert.False(t, ok)
}

func TestStack_ImplicitIterator(t *testing.T) {
	st := NewStack(testStr("top"))
	v, ok := st.Lookup(ParseDottedName("."))
	require.True(t, ok)
	s, err := v.Render()
	require.NoError(t, err)
	assert.Equal(t, "top", s)
}

func TestStack_PushIsCopy(t *testing.T) {
	st := NewStack(personRoot())
	inner := st.Push(testStr("x"))

	assert.Equal(t, 1, st.Len())
	assert.Equal(t, 2, inner.Len())
}
